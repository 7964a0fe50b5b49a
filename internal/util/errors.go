package util

import (
	"errors"
	"fmt"
)

// Not-found family: the id does not resolve to active reference data.
var (
	ErrMissionNotFound  = errors.New("mission not found")
	ErrPhaseNotFound    = errors.New("phase not found")
	ErrProgressNotFound = errors.New("mission progress not found")
	ErrQuestionNotFound = errors.New("quiz question not found")
	ErrBadgeNotFound    = errors.New("badge not found")
	ErrUserNotFound     = errors.New("user not found")
)

// Invalid-state family: the operation does not apply to the record's
// current state. The caller must re-fetch and retry from fresh state.
var (
	ErrMissionAlreadyStarted   = errors.New("mission already in progress")
	ErrMissionAlreadyCompleted = errors.New("mission already completed")
	ErrMissionNotInProgress    = errors.New("mission not in progress")
	ErrPhaseMismatch           = errors.New("phase is not the current phase")
	ErrPhaseTypeMismatch       = errors.New("response does not match phase type")
	ErrQuestionAlreadyAnswered = errors.New("question already answered")
)

var (
	ErrEmailRegistered  = errors.New("email already registered")
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError rejects a submission without mutating any state.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrMissionNotFound) ||
		errors.Is(err, ErrPhaseNotFound) ||
		errors.Is(err, ErrProgressNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrBadgeNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

func IsInvalidState(err error) bool {
	return errors.Is(err, ErrMissionAlreadyStarted) ||
		errors.Is(err, ErrMissionAlreadyCompleted) ||
		errors.Is(err, ErrMissionNotInProgress) ||
		errors.Is(err, ErrPhaseMismatch) ||
		errors.Is(err, ErrPhaseTypeMismatch) ||
		errors.Is(err, ErrQuestionAlreadyAnswered)
}
