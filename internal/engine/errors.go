package engine

import "errors"

// ValidationError rejects a submission before any state change. The attempt
// is untouched when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a submission validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrAttemptFinished is returned when a step arrives for a completed attempt.
var ErrAttemptFinished = errors.New("attempt already completed")
