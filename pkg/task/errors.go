package task

import (
	"errors"
	"fmt"
)

// ErrDuplicateTask is returned by a Store when the task text already exists.
var ErrDuplicateTask = errors.New("task already exists")

type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "file " + e.Name + " not found"
}

// IsNotFoundError checks if an error is a NotFoundError
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing '%s' key", e.Field)
}

// IsMissingFieldError checks if an error is a MissingFieldError
func IsMissingFieldError(err error) bool {
	var target *MissingFieldError
	return errors.As(err, &target)
}

// TranscriptionError wraps any failure of the transcription backend.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return "transcription failed: " + e.Err.Error()
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// IsTranscriptionError checks if an error is a TranscriptionError
func IsTranscriptionError(err error) bool {
	var target *TranscriptionError
	return errors.As(err, &target)
}
