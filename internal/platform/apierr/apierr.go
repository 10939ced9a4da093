package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP-shaped status, a stable machine code and the cause.
// The wire layer maps Status directly; the core only cares about Code.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		if e.Code != "" {
			return e.Code + ": " + e.Err.Error()
		}
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Stable codes used across the learning core.
const (
	CodeValidationFailed      = "validation_failed"
	CodeCurriculumNotFound    = "curriculum_not_found"
	CodeSummaryNotFound       = "summary_not_found"
	CodeFeedbackNotFound      = "feedback_not_found"
	CodeWeekNotFound          = "week_not_found"
	CodeAccessDenied          = "access_denied"
	CodeFeedbackAlreadyExists = "feedback_already_exists"
	CodeQuotaExceeded         = "quota_exceeded"
	CodeWeekLimitExceeded     = "week_limit_exceeded"
	CodeLessonCountExceeded   = "lesson_count_exceeded"
	CodeIndexOutOfRange       = "index_out_of_range"
	CodeGenerationFailed      = "generation_failed"
	CodeStorageError          = "storage_error"
)

func NotFound(code string) *Error {
	return New(http.StatusNotFound, code, nil)
}

func AccessDenied() *Error {
	return New(http.StatusForbidden, CodeAccessDenied, nil)
}

func Conflict(code string) *Error {
	return New(http.StatusConflict, code, nil)
}

func Validation(err error) *Error {
	return New(http.StatusBadRequest, CodeValidationFailed, err)
}

func Storage(err error) *Error {
	return New(http.StatusInternalServerError, CodeStorageError, err)
}

// GenerationFailed wraps an LLM gateway failure; the cause stays reachable
// through Unwrap for callers that want the exact kind.
func GenerationFailed(err error) *Error {
	return New(http.StatusBadGateway, CodeGenerationFailed, err)
}

// IsCode reports whether err (or anything it wraps) is an *Error with the
// given code.
func IsCode(err error, code string) bool {
	var ae *Error
	for errors.As(err, &ae) {
		if ae.Code == code {
			return true
		}
		if ae.Err == nil {
			break
		}
		err = ae.Err
	}
	return false
}
