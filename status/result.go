package status

import (
	"reflect"
	"sync/atomic"

	"github.com/wippyai/draco-go/errors"
)

const (
	stateEmpty uint32 = iota
	stateFailed
	stateHolding
	stateConsumed
)

// emptyStatus is reported by a Result that was never filled by Ok or Fail.
var emptyStatus = Status{Code: CodeError, Message: "empty result"}

// Result is a value-or-error container for payload type T.
//
// The zero Result is empty: it holds neither a payload nor a failure and
// reports CodeError. A Result must not be copied after first use; pass it by
// pointer. Status may
// be called any number of times from any goroutine. Value moves the payload
// out and succeeds at most once, even under concurrent calls.
type Result[T any] struct {
	value  T
	status Status
	state  atomic.Uint32
}

// Ok returns a container holding v.
func Ok[T any](v T) *Result[T] {
	r := &Result[T]{value: v}
	r.state.Store(stateHolding)
	return r
}

// Fail returns a container holding the failure s.
//
// A failure must carry a failure code; an OK status is replaced by CodeError
// so the container never claims success without a payload.
func Fail[T any](s Status) *Result[T] {
	if s.OK() {
		s.Code = CodeError
		if s.Message == "" {
			s.Message = "failure reported with OK status"
		}
	}
	r := &Result[T]{status: s}
	r.state.Store(stateFailed)
	return r
}

// From adapts a Go (value, error) pair. A nil err yields Ok(v); otherwise the
// status is recovered with FromError and v is discarded.
func From[T any](v T, err error) *Result[T] {
	if err != nil {
		return Fail[T](FromError(err))
	}
	return Ok(v)
}

// Status returns the descriptor without consuming the container.
// A nil container reports CodeInvalidParameter.
func (r *Result[T]) Status() Status {
	if r == nil {
		return Status{Code: CodeInvalidParameter, Message: "nil result"}
	}
	if r.state.Load() == stateEmpty {
		return emptyStatus
	}
	return r.status
}

// OK reports whether the operation succeeded. It stays true after the payload
// has been taken.
func (r *Result[T]) OK() bool {
	return r.Status().OK()
}

// Holding reports whether the payload is still inside the container.
func (r *Result[T]) Holding() bool {
	return r != nil && r.state.Load() == stateHolding
}

// Value moves the payload out of the container.
//
// It fails with errors.KindNoValue when the container holds a failure or is
// empty (the error wraps the status), with errors.KindConsumed when the payload
// was already taken and with errors.KindNilPointer for a nil container. In
// every failure case the returned T is the zero value and must not be used.
func (r *Result[T]) Value() (T, error) {
	var zero T
	if r == nil {
		return zero, errors.NilPointer(errors.PhaseUnwrap, r.typeName())
	}
	if !r.state.CompareAndSwap(stateHolding, stateConsumed) {
		if r.state.Load() == stateConsumed {
			return zero, errors.Consumed(errors.PhaseUnwrap, r.typeName())
		}
		return zero, errors.NoValue(errors.PhaseUnwrap, r.typeName(), r.Status().Err())
	}
	v := r.value
	r.value = zero
	return v, nil
}

func (r *Result[T]) typeName() string {
	return reflect.TypeFor[T]().String()
}
