package governance

import "errors"

// ErrAccessDenied is returned when an index policy names allowed roles and
// the actor holds none of them.
var ErrAccessDenied = errors.New("access denied by governance policy")

// IsAccessDenied returns true if the error indicates a policy denial.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}
