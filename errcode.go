// Package errcode wraps the C convention of returning an unsigned 32-bit
// status, where 0 means success and anything else is a failure code. It is
// intended for declaring foreign functions that return a raw u32 status, and
// for moving such statuses through Go call stacks without losing the code.
//
// The zero value of Code is success, so a Code-returning function that falls
// off the end of a named return reports success. See Check and Handle for
// short-circuit propagation.
package errcode

import (
	"errors"
	"strconv"

	"github.com/errcode/go/result"
)

// Code is a u32 status: 0 is success, any other value is a failure code.
// The code itself is the only payload; whatever produced it decides what the
// value means. Code is layout-identical to uint32, so a foreign function
// whose native return type is u32 can be declared as returning Code with no
// translation at the boundary.
type Code uint32

// OK is the success status.
const OK Code = 0

// IsOK reports whether c is the success status.
func (c Code) IsOK() bool {
	return c == 0
}

// IsErr reports whether c is a failure code.
func (c Code) IsErr() bool {
	return c != 0
}

// String renders the canonical debug form: "E" followed by the decimal
// digits of the code. Code(0) is "E0", Code(123) is "E123". This form
// appears in panic diagnostics and round-trips through Parse.
func (c Code) String() string {
	return "E" + strconv.FormatUint(uint64(c), 10)
}

// Error implements the error interface with the same text as String, which
// lets a Code ride an ordinary error return. Note that Code(0) still
// formats as "E0"; use Err to obtain nil for success.
func (c Code) Error() string {
	return c.String()
}

// Err bridges to idiomatic Go error handling: nil iff c is success,
// otherwise c itself.
func (c Code) Err() error {
	if c == 0 {
		return nil
	}
	return c
}

// Unwrap asserts success. It does nothing when c is 0 and panics with a
// diagnostic containing the debug form otherwise. The call site appears in
// the runtime traceback. Use it where a failure code is a programming
// error, not a condition to handle.
func (c Code) Unwrap() {
	if c != 0 {
		panic("Error: " + c.String())
	}
}

// Expect is Unwrap with a caller-supplied explanation. The diagnostic is
// the debug form followed by msg.
func (c Code) Expect(msg string) {
	if c != 0 {
		panic("[" + c.String() + "] " + msg)
	}
}

// Result converts c into the generic two-variant form: Ok for success,
// Err carrying c for failure.
func (c Code) Result() result.Result[result.Void] {
	if c == 0 {
		return result.Ok(result.Void{})
	}
	return result.Err[result.Void](c)
}

// FromResult collapses a two-variant result back into a Code. Ok yields OK.
// Err must carry a Code somewhere in its chain; the code comes back
// unchanged. An Err that carries no Code is a defect in the caller, and
// FromResult panics rather than inventing a code for it.
func FromResult(r result.Result[result.Void]) Code {
	if r.IsOK() {
		return OK
	}

	code, ok := As(r.Err())
	if !ok {
		panic("errcode: result error does not carry a status code: " + r.Err().Error())
	}
	return code
}

// As extracts a Code from err's chain. It unwraps both Code values and
// Residuals. A nil error carries no code.
func As(err error) (Code, bool) {
	var c Code
	if errors.As(err, &c) {
		return c, true
	}

	var r *Residual
	if errors.As(err, &r) {
		return r.Code(), true
	}

	return OK, false
}
