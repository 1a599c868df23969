package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the parent of every lookup miss; test with errors.Is.
	ErrNotFound = errors.New("not found")

	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = notFound("quiz not found")
	// ErrQuestionNotFound indicates a question id is unknown.
	ErrQuestionNotFound = notFound("question not found")
	// ErrAnswerNotFound indicates an answer id is unknown.
	ErrAnswerNotFound        = notFound("answer not found")
	ErrStudentAnswerNotFound = notFound("student answer not found")
	ErrStudentNotFound       = notFound("student not found")
	ErrTeacherNotFound       = notFound("teacher not found")
	ErrGroupNotFound         = notFound("group not found")
	ErrAttendanceNotFound    = notFound("attendance entry not found")
	ErrScoreNotFound         = notFound("assessment score not found")
	ErrLessonPlanNotFound    = notFound("lesson plan not found")
	ErrFileNotFound          = notFound("file not found")
	ErrFolderNotFound        = notFound("quiz folder not found")

	// ErrUnauthorized is returned when a caller has no valid identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the caller's role may not perform the action.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidSignature marks a webhook whose signature does not match its body.
	ErrInvalidSignature = errors.New("invalid signature")
)

type notFoundError struct{ msg string }

func notFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports malformed or missing input. It maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
