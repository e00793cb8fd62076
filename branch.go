package errcode

import "github.com/errcode/go/result"

// Residual is the transient payload of a failed propagation step: a status
// code that is known to be non-zero. It exists between a Check and the
// Handle that catches it, and converts back into the failing Code without
// re-checking. Callers do not construct or store Residuals.
type Residual struct {
	code Code
}

func newResidual(c Code) *Residual {
	if c == 0 {
		// A success residual cannot be produced by Branch or Check;
		// reaching this is a defect in the caller.
		panic("errcode: residual constructed from a zero status")
	}
	return &Residual{code: c}
}

// Code returns the failing status. It is never zero.
func (r *Residual) Code() Code {
	return r.code
}

// Error renders the debug form of the failing status, so an unhandled
// Residual produces a readable crash.
func (r *Residual) Error() string {
	return r.code.String()
}

// Branch splits c into one of two control-flow outcomes: nil means continue
// (c is success, there is no payload), non-nil means break with the failure
// as a Residual. The numeric code is carried through unchanged.
//
//	if r := status.Branch(); r != nil {
//		return r.Code()
//	}
func (c Code) Branch() *Residual {
	if c == 0 {
		return nil
	}
	return newResidual(c)
}

// Check is the short-circuit form of Branch for functions that return a
// Code and defer Handle. It returns normally when c is success and
// otherwise unwinds to the deferred Handle, which makes the enclosing
// function return c unchanged.
//
//	func f() (code Code) {
//		defer Handle(&code)
//		Check(step1())
//		Check(step2())
//		return OK
//	}
func Check(c Code) {
	if r := c.Branch(); r != nil {
		panic(r)
	}
}

// Handle completes the propagation started by Check or CheckResult. Defer
// it with a pointer to the enclosing function's Code return value. It
// stores the propagated code into the return slot and swallows nothing
// else: any other panic, including those raised by Unwrap and Expect,
// continues to unwind.
func Handle(code *Code) {
	switch v := recover().(type) {
	case nil:
	case *Residual:
		*code = v.Code()
	default:
		panic(v)
	}
}

// CheckResult propagates a generic two-variant result inside a function
// that returns a Code. An Ok result yields its value and execution
// continues. An Err result short-circuits to the deferred Handle with the
// Code carried by its error, unchanged.
//
// The error of an Err result must carry a Code. Anything else cannot be
// propagated as a status and panics with a plain diagnostic that Handle
// does not catch.
func CheckResult[T any](r result.Result[T]) T {
	v, err := r.Get()
	if err == nil {
		return v
	}

	code, ok := As(err)
	if !ok {
		panic("errcode: cannot propagate result error as a status code: " + err.Error())
	}
	panic(newResidual(code))
}
