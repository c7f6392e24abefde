package kafka

import (
	"errors"
	"fmt"
)

// PermanentError marks a message that will never be handled, e.g. a malformed
// event or an unknown kind. The consumer commits past it instead of retrying.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string {
	if e.Err == nil {
		return "permanent relay error"
	}
	return fmt.Sprintf("permanent relay error: %v", e.Err)
}

func (e PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the consumer skips the message.
func Permanent(err error) error {
	return PermanentError{Err: err}
}

// IsPermanent reports whether err, or anything it wraps, is a PermanentError.
func IsPermanent(err error) bool {
	var perm PermanentError
	return errors.As(err, &perm)
}
