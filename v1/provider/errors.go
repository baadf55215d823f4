package provider

import "errors"

// Shared sentinel errors. Backends translate their driver errors to these so
// callers can branch with errors.Is regardless of which backend is wired in.
var (
	// ErrCacheMiss is returned by cache providers when a key does not exist.
	ErrCacheMiss = errors.New("provider: cache miss")

	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("provider: document not found")

	// ErrIndexRequired is returned when an operation is called with an
	// empty index name.
	ErrIndexRequired = errors.New("provider: index name required")

	// ErrInvalidFilter is returned when a filter fails validation.
	ErrInvalidFilter = errors.New("provider: invalid filter")

	// ErrUnknownIndex is returned by SQL backends when no table mapping is
	// configured for the requested index.
	ErrUnknownIndex = errors.New("provider: no mapping for index")

	// ErrEmbedderRequired is returned by vector backends when a text query
	// arrives and no Embedder is configured.
	ErrEmbedderRequired = errors.New("provider: embedder required for text queries")

	// ErrClosed is returned when an operation is attempted on a closed provider.
	ErrClosed = errors.New("provider: closed")

	// ErrUnknownProviderType is returned by the factory functions when the
	// Config names a type with no registered constructor.
	ErrUnknownProviderType = errors.New("provider: unknown provider type")
)

// IsCacheMiss checks if the error is a cache miss.
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

// IsNotFound checks if the error is a "document not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
