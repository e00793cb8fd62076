package host_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/sys"

	errcode "github.com/errcode/go"
	"github.com/errcode/go/host"
)

func TestStatus(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		err  error
		want errcode.Code
	}{
		{"Nil", nil, errcode.OK},
		{"Code", errcode.Code(7), errcode.Code(7)},
		{"WrappedCode", errors.Wrap(errcode.Code(7).Err(), "downstream"), errcode.Code(7)},
		{"Residual", errcode.Code(9).Branch(), errcode.Code(9)},
		{"Exit", sys.NewExitError(5), errcode.Code(5)},
		{"ExitSuccess", sys.NewExitError(0), errcode.OK},
		{"ExitCanceled", sys.NewExitError(sys.ExitCodeContextCanceled), host.StatusCanceled},
		{"ExitDeadline", sys.NewExitError(sys.ExitCodeDeadlineExceeded), host.StatusDeadline},
		{"Canceled", context.Canceled, host.StatusCanceled},
		{"Deadline", context.DeadlineExceeded, host.StatusDeadline},
		{"Opaque", errors.New("unrelated"), host.StatusFailed},
	} {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, host.Status(tt.err))
		})
	}
}

func TestReservedBlock(t *testing.T) {
	t.Parallel()

	// The block's position is ABI; moving it would reassign meaning to
	// codes guests already return.
	require.Equal(t, errcode.Code(0x00ff0000), host.StatusFailed)

	reserved := []errcode.Code{
		host.StatusFailed,
		host.StatusInvalidArgs,
		host.StatusNoExport,
		host.StatusBadSignature,
		host.StatusCanceled,
		host.StatusDeadline,
	}

	seen := make(map[string]struct{}, len(reserved))
	for _, code := range reserved {
		text := host.StatusText(code)
		require.NotEmpty(t, text, "no text for %v", code)
		seen[text] = struct{}{}
	}
	require.Len(t, seen, len(reserved))
}

func TestStatusText_unreserved(t *testing.T) {
	t.Parallel()

	require.Empty(t, host.StatusText(errcode.OK))
	require.Empty(t, host.StatusText(errcode.Code(42)))
}
