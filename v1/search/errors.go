package search

import "errors"

var (
	// ErrAllProvidersDown is returned when every configured route for a
	// request failed: the database providers errored or their circuits are
	// open, and no cached copy (fresh or stale) exists.
	ErrAllProvidersDown = errors.New("search: all providers down")

	// ErrSuggestNotSupported is returned by Suggest when the primary
	// provider does not implement prefix completion.
	ErrSuggestNotSupported = errors.New("search: provider does not support suggestions")
)

// IsAllProvidersDown checks if the error indicates that no route could serve
// the request.
func IsAllProvidersDown(err error) bool {
	return errors.Is(err, ErrAllProvidersDown)
}

// IsSuggestNotSupported checks if the error indicates a provider without
// suggestion support.
func IsSuggestNotSupported(err error) bool {
	return errors.Is(err, ErrSuggestNotSupported)
}
