// Package result provides a generic two-variant result: a value or an
// error, never both. It is the explicit-sum rendering of Go's (T, error)
// convention, used where a result needs to travel as a single value.
package result

// Void is the logically-empty success payload, for results that carry an
// error channel but no value.
type Void struct{}

// Result holds either a value (Ok) or a non-nil error (Err).
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a successful Result carrying value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err returns a failed Result carrying err. A failure with a nil error is
// indistinguishable from success and can never be handled; constructing one
// is a defect, so Err panics on nil.
func Err[T any](err error) Result[T] {
	if err == nil {
		panic("result: Err called with a nil error")
	}
	return Result[T]{err: err}
}

// Of adapts an ordinary Go call tail: Of(f()) is Ok on a nil error and Err
// otherwise.
func Of[T any](value T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}

// IsOK reports whether r holds a value.
func (r Result[T]) IsOK() bool {
	return r.err == nil
}

// IsErr reports whether r holds an error.
func (r Result[T]) IsErr() bool {
	return r.err != nil
}

// Get returns the two-value form: the value and the error, exactly one of
// which is meaningful.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// Err returns the contained error, nil for Ok.
func (r Result[T]) Err() error {
	return r.err
}

// Unwrap returns the value, panicking with the contained error if r is Err.
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic(r.err)
	}
	return r.value
}

// UnwrapOr returns the value, or fallback if r is Err.
func (r Result[T]) UnwrapOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Map applies fn to the value of an Ok result. An Err result passes through
// with its error unchanged.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(fn(r.value))
}
