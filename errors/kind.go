package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an error for the caller. The zero value is Undefined
// on purpose: an Undefined kind reaching a caller signals a programming
// defect, not a runtime condition.
type Kind int

const (
	// KindUndefined is the uninitialized kind. Must never reach a caller.
	KindUndefined Kind = iota
	// KindNone marks success. KindOf(nil) returns it.
	KindNone
	// KindWeak is a recoverable, caller-facing condition (validation
	// failure, not found, already exists).
	KindWeak
	// KindSystem means an external collaborator reported an error; its
	// message is passed through unchanged.
	KindSystem
	// KindFatal is unexpected and unrecoverable.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindWeak:
		return "weak"
	case KindSystem:
		return "system"
	case KindFatal:
		return "fatal"
	default:
		return "undefined"
	}
}

// Error is the uniform outcome error. It wraps an optional cause so that
// stdlib errors.Is / errors.As keep working across the chain.
type Error struct {
	kind  Kind
	text  string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.text + ": " + e.cause.Error()
	}
	return e.text
}

func (e *Error) Unwrap() error { return e.cause }

// Kind returns the classification of this error.
func (e *Error) Kind() Kind { return e.kind }

// Weak builds a recoverable caller-facing error.
func Weak(text string) *Error { return &Error{kind: KindWeak, text: text} }

// Weakf is Weak with formatting.
func Weakf(format string, args ...any) *Error {
	return &Error{kind: KindWeak, text: fmt.Sprintf(format, args...)}
}

// System wraps nothing but marks a collaborator failure by message alone.
func System(text string) *Error { return &Error{kind: KindSystem, text: text} }

// SystemWrap marks err as a collaborator failure. The original message is
// preserved and passed through to the caller.
func SystemWrap(err error, text string) *Error {
	return &Error{kind: KindSystem, text: text, cause: err}
}

// Fatalf builds an unexpected, unrecoverable error.
func Fatalf(format string, args ...any) *Error {
	return &Error{kind: KindFatal, text: fmt.Sprintf(format, args...)}
}

// WrapAs attaches a kind to an existing error without losing the chain.
func WrapAs(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, text: err.Error(), cause: err}
}

// KindOf resolves the kind of any error. nil resolves to KindNone; an
// error chain without an *Error resolves to KindUndefined so that
// unclassified errors are visible as defects instead of being mistaken
// for collaborator failures.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.kind
	}
	return KindUndefined
}

// Is keeps sentinel comparison working when a sentinel has been wrapped
// with additional context via fmt.Errorf("%w", …).
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As is re-exported so callers do not need both error packages.
func As(err error, target any) bool { return stderrors.As(err, target) }
