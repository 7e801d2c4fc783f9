package sync

import (
	"errors"
	"fmt"
)

// Kind classifies sync failures. The classification decides what reaches
// the circuit breaker and how a failure is presented to the caller.
type Kind int

const (
	// KindUnknown is an unclassified failure, treated like transient.
	KindUnknown Kind = iota
	// KindUnavailable means the cloud account is missing, restricted or
	// offline. Terminal for the current pass.
	KindUnavailable
	// KindTransient means a network blip or rate limit. The next
	// scheduled pass retries; the same pass never does.
	KindTransient
	// KindConflict means the cloud already holds a different version.
	// Not an error in the taxonomy sense; the next download reconciles.
	KindConflict
	// KindValidation means a malformed or incomplete record. The record
	// is skipped and counted, the pass continues.
	KindValidation
	// KindPermanent means missing credentials or a schema mismatch.
	// Surfaced verbatim and trips the breaker immediately.
	KindPermanent
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindTransient:
		return "transient"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// Error is a classified sync failure.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unavailablef builds an availability error.
func Unavailablef(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnavailable, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Transientf builds a transient error wrapping err.
func Transientf(op string, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindTransient, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Permanentf builds a permanent configuration error wrapping err.
func Permanentf(op string, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindPermanent, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Classify returns the Kind of err. Unclassified errors count as
// transient, which errs on the side of retrying next pass.
func Classify(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindTransient
}
