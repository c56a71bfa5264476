// Package res provides the Option/Result vocabulary used across the
// ordered-collection contract to signal operational absence (§4.1,
// §7) without allocating an error for the common case of "no such
// key".
package res

import "fmt"

// Result carries either a success value or an error. It is reserved
// for operations that can genuinely fail for a reason worth reporting
// to the caller; the containers in this module do not return it, and
// use a plain bool or Option for the "key not found" case that is not
// an error (§7).
type Result[T any] struct {
	value T
	err   error
	isOk  bool
}

// Ok creates a new Result with a success value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, isOk: true}
}

// Err creates a new Result with an error value.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err, isOk: false}
}

// IsOk returns true if the Result is Ok.
func (r Result[T]) IsOk() bool {
	return r.isOk
}

// IsErr returns true if the Result is Err.
func (r Result[T]) IsErr() bool {
	return !r.isOk
}

// Unwrap returns the contained Ok value if the Result is Ok, otherwise panics.
func (r Result[T]) Unwrap() T {
	if !r.isOk {
		panic(fmt.Sprintf("called Result.Unwrap() on an Err value: %v", r.err))
	}
	return r.value
}

// UnwrapOr returns the contained Ok value or a provided default.
func (r Result[T]) UnwrapOr(defaultValue T) T {
	if r.isOk {
		return r.value
	}
	return defaultValue
}

// UnwrapErr returns the contained Err value if the Result is Err, otherwise panics.
func (r Result[T]) UnwrapErr() error {
	if r.isOk {
		panic("called Result.UnwrapErr() on an Ok value")
	}
	return r.err
}

// Match applies the appropriate function based on the Result variant.
func (r Result[T]) Match(okFn func(T), errFn func(error)) {
	if r.isOk {
		okFn(r.value)
	} else {
		errFn(r.err)
	}
}

// ToOption converts the Result to an Option, discarding the error.
func (r Result[T]) ToOption() Option[T] {
	if r.isOk {
		return Some(r.value)
	}
	return None[T]()
}

// NewResult builds a Result from a (value, error) pair, the shape
// most stdlib-style functions return.
func NewResult[T any](value T, err error) Result[T] {
	if err == nil {
		return Ok(value)
	}
	return Err[T](err)
}
