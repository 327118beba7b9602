package phash

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/otsuhash/internal/bitvec"
	"github.com/AnyUserName/otsuhash/internal/grid"
	"github.com/AnyUserName/otsuhash/internal/resample"
)

// Kind classifies hashing failures. None of them are transient.
type Kind int

const (
	KindUnknown Kind = iota
	// KindDecode: the source could not be read or parsed into an image.
	KindDecode
	// KindInvalidConfig: width, height or radix out of range.
	KindInvalidConfig
	// KindDegenerate: the image has no pixels.
	KindDegenerate
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode error"
	case KindInvalidConfig:
		return "invalid configuration"
	case KindDegenerate:
		return "degenerate input"
	}
	return "unknown error"
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrDecode        = &Error{Kind: KindDecode}
	ErrInvalidConfig = &Error{Kind: KindInvalidConfig}
	ErrDegenerate    = &Error{Kind: KindDegenerate}
)

// Error is the error type returned by every exported function of this
// package.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	s := "phash"
	if e.Op != "" {
		s += ": " + e.Op
	}
	s += ": " + e.Kind.String()
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// Is matches bare sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// classify wraps internal package errors with their kind. Errors already of type
// *Error pass through.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	switch {
	case errors.Is(err, resample.ErrEmptySource):
		return newError(KindDegenerate, op, err)
	case errors.Is(err, grid.ErrInvalidDimensions),
		errors.Is(err, bitvec.ErrInvalidRadix):
		return newError(KindInvalidConfig, op, err)
	}
	return newError(KindUnknown, op, err)
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == k
}
