package models

import (
	"errors"
	"fmt"
)

// Kind classifies failures so callers can react without inspecting messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindNotFound
	KindExtraction
	KindUpstream
	KindFormat
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNotFound:
		return "not_found"
	case KindExtraction:
		return "extraction"
	case KindUpstream:
		return "upstream"
	case KindFormat:
		return "format"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the typed error returned across operation boundaries.
// Message is safe to show to end users; Err carries the internal cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a typed error.
func NewError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// UserMessage returns text suitable for end users. Untyped errors never leak
// their internal text.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "An unexpected error occurred. Please try again later."
}
