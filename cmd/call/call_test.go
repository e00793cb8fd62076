package call

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	t.Run("Valid", func(t *testing.T) {
		args, err := parseArgs([]string{"0", "7", "0x2a", "4294967295"})
		require.NoError(t, err)
		require.Equal(t, []uint64{0, 7, 42, 4294967295}, args)
	})

	t.Run("Empty", func(t *testing.T) {
		args, err := parseArgs(nil)
		require.NoError(t, err)
		require.Empty(t, args)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, bad := range []string{"boo", "-1", "1.5", "4294967296"} {
			_, err := parseArgs([]string{bad})
			require.Error(t, err, "argument %q", bad)
		}
	})
}
