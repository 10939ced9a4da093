package llm

import (
	"errors"
	"fmt"
)

// Kind classifies gateway failures. Callers branch on kinds, never on
// error strings.
type Kind string

const (
	KindTimeout   Kind = "timeout"
	KindTransport Kind = "transport"
	KindFormat    Kind = "format"
	KindContract  Kind = "contract"
)

// Error is the only error type the gateway returns. Raw keeps the
// model output that failed to parse; it is logged, never surfaced to
// end users.
type Error struct {
	Kind Kind
	Raw  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("llm %s error", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a gateway error; exported so callers can script
// gateway failures in their own tests.
func NewError(kind Kind, raw string, err error) *Error {
	return &Error{Kind: kind, Raw: raw, Err: err}
}

// IsKind reports whether err is a gateway error of the given kind.
func IsKind(err error, kind Kind) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == kind
}
