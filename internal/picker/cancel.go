package picker

import (
	"errors"
	"fmt"
)

// CancelError means the user abandoned an interactive step. It is not a
// program failure.
type CancelError struct {
	Reason string
}

func (e *CancelError) Error() string {
	return e.Reason
}

// Cancelf builds a CancelError with a formatted reason.
func Cancelf(format string, args ...any) error {
	return &CancelError{Reason: fmt.Sprintf(format, args...)}
}

// IsCancel reports whether err is or wraps a CancelError.
func IsCancel(err error) bool {
	var cancelErr *CancelError
	return errors.As(err, &cancelErr)
}
