package mariadb

import "errors"

// ErrInvalidIndexName is returned when an index name contains characters that
// cannot safely form a table identifier. Index names must match
// [a-zA-Z0-9_-]+.
var ErrInvalidIndexName = errors.New("index name must contain only letters, digits, underscores and hyphens")

// IsInvalidIndexName returns true if the error indicates a rejected index name.
func IsInvalidIndexName(err error) bool {
	return errors.Is(err, ErrInvalidIndexName)
}
