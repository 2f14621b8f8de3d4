package core

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError marks a resolution failure where the named object does not
// exist in the repository tree. Its message is stored verbatim on the task
// record, so the text must keep the "not found" phrase the status
// reconciliation classifies on.
type NotFoundError struct {
	msg string
}

// NotFoundf creates a NotFoundError with a formatted message.
func NotFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string { return e.msg }

// IsNotFound reports whether err represents a not-found condition, either
// structurally or by the message heuristic used across the async boundary.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	return IsNotFoundMessage(err.Error())
}

// IsNotFoundMessage classifies an error message that crossed the async
// boundary as a string. Case-insensitive substring match, per the task
// failure contract.
func IsNotFoundMessage(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "not found")
}

// IsValidationMessage reports whether an error message describes a
// client-caused parameter problem (mapped to 400 by the HTTP layer).
func IsValidationMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, phrase := range []string{
		"must be provided together",
		"missing required",
		"invalid combination",
	} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
