package host

import (
	"context"
	"errors"

	"github.com/tetratelabs/wazero/sys"

	errcode "github.com/errcode/go"
)

// Codes at the top of the u32 range are reserved for the call machinery,
// so a host failure is never mistaken for a guest status. Guests should
// keep their own codes below the reserved block.
const (
	// StatusFailed reports a call that failed for a reason the guest
	// never saw, such as a trap or a broken host function.
	StatusFailed errcode.Code = 0x00ff0000 + iota

	// StatusInvalidArgs reports an argument count that does not match
	// the export's signature.
	StatusInvalidArgs

	// StatusNoExport reports a function name the guest does not export.
	StatusNoExport

	// StatusBadSignature reports an export whose results cannot carry a
	// status, i.e. anything other than () or (i32).
	StatusBadSignature

	// StatusCanceled reports a call abandoned because its context was
	// canceled.
	StatusCanceled

	// StatusDeadline reports a call abandoned because its context's
	// deadline passed.
	StatusDeadline
)

// StatusText returns a short description of a reserved code, or "" if
// the code is not reserved.
func StatusText(code errcode.Code) string {
	switch code {
	case StatusFailed:
		return "call failed"
	case StatusInvalidArgs:
		return "invalid arguments"
	case StatusNoExport:
		return "no such export"
	case StatusBadSignature:
		return "unsuitable signature"
	case StatusCanceled:
		return "canceled"
	case StatusDeadline:
		return "deadline exceeded"
	}

	return ""
}

// Status maps any call error onto a status code. It is total: nil maps
// to success, guest exits keep their exit code, and everything else
// lands in the reserved block.
func Status(err error) errcode.Code {
	if err == nil {
		return errcode.OK
	}

	if code, ok := errcode.As(err); ok {
		return code
	}

	var exit *sys.ExitError
	if errors.As(err, &exit) {
		switch exit.ExitCode() {
		case sys.ExitCodeContextCanceled:
			return StatusCanceled
		case sys.ExitCodeDeadlineExceeded:
			return StatusDeadline
		default:
			return errcode.Code(exit.ExitCode())
		}
	}

	switch {
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusDeadline
	}

	return StatusFailed
}
