package errcode_test

import (
	"errors"
	"testing"

	errcode "github.com/errcode/go"
	"github.com/errcode/go/result"
	"github.com/stretchr/testify/require"
)

func TestBranch(t *testing.T) {
	t.Parallel()

	t.Run("Continue", func(t *testing.T) {
		t.Parallel()

		require.Nil(t, errcode.OK.Branch())
	})

	t.Run("Break", func(t *testing.T) {
		t.Parallel()

		for _, v := range []uint32{1, 42, 0x00ff0000, 1<<32 - 1} {
			r := errcode.Code(v).Branch()
			require.NotNil(t, r)
			require.Equal(t, errcode.Code(v), r.Code(), "residual must carry the code unchanged")
			require.EqualError(t, r, errcode.Code(v).String())
		}
	})
}

// The canonical short-circuit: a function that checks 0, then 1, then would
// return 123 stops at the second step and reports 1.
func TestCheckShortCircuits(t *testing.T) {
	t.Parallel()

	var reached bool
	inner := func() (code errcode.Code) {
		defer errcode.Handle(&code)
		errcode.Check(errcode.Code(0))
		errcode.Check(errcode.Code(1))
		reached = true
		return errcode.Code(123)
	}

	require.Equal(t, errcode.Code(1), inner())
	require.False(t, reached, "statements after a failed Check must not run")
}

func TestCheckPreservesCode(t *testing.T) {
	t.Parallel()

	propagate := func(c errcode.Code) (code errcode.Code) {
		defer errcode.Handle(&code)
		errcode.Check(c)
		return errcode.OK
	}

	for _, v := range []uint32{0, 1, 7, 255, 1 << 20, 1<<32 - 1} {
		require.Equal(t, errcode.Code(v), propagate(errcode.Code(v)))
	}
}

func TestCheckContinuesOnSuccess(t *testing.T) {
	t.Parallel()

	var steps int
	run := func() (code errcode.Code) {
		defer errcode.Handle(&code)
		errcode.Check(errcode.OK)
		steps++
		errcode.Check(errcode.OK)
		steps++
		return errcode.OK
	}

	require.Equal(t, errcode.OK, run())
	require.Equal(t, 2, steps)
}

// Handle is not a general recover: panics that are not residuals keep
// unwinding, including the ones raised by Unwrap and Expect.
func TestHandlePassesForeignPanics(t *testing.T) {
	t.Parallel()

	t.Run("PlainPanic", func(t *testing.T) {
		t.Parallel()

		require.PanicsWithValue(t, "boom", func() {
			func() (code errcode.Code) {
				defer errcode.Handle(&code)
				panic("boom")
			}()
		})
	})

	t.Run("UnwrapPanic", func(t *testing.T) {
		t.Parallel()

		require.PanicsWithValue(t, "Error: E9", func() {
			func() (code errcode.Code) {
				defer errcode.Handle(&code)
				errcode.Code(9).Unwrap()
				return errcode.OK
			}()
		})
	})
}

func TestCheckResult(t *testing.T) {
	t.Parallel()

	t.Run("OkYieldsValue", func(t *testing.T) {
		t.Parallel()

		var got int
		run := func() (code errcode.Code) {
			defer errcode.Handle(&code)
			got = errcode.CheckResult(result.Ok(42))
			return errcode.OK
		}

		require.Equal(t, errcode.OK, run())
		require.Equal(t, 42, got)
	})

	t.Run("ErrShortCircuits", func(t *testing.T) {
		t.Parallel()

		var reached bool
		run := func() (code errcode.Code) {
			defer errcode.Handle(&code)
			errcode.CheckResult(result.Err[result.Void](errcode.Code(77)))
			reached = true
			return errcode.OK
		}

		require.Equal(t, errcode.Code(77), run())
		require.False(t, reached)
	})

	t.Run("ForeignErrorIsFatal", func(t *testing.T) {
		t.Parallel()

		require.Panics(t, func() {
			func() (code errcode.Code) {
				defer errcode.Handle(&code)
				errcode.CheckResult(result.Err[int](errors.New("no code here")))
				return errcode.OK
			}()
		})
	})
}
