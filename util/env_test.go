package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/errcode/go/util"
)

func TestExpandHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tt := range []struct {
		path, want string
	}{
		{"~/guests/a.wasm", filepath.Join(home, "guests/a.wasm")},
		{"/abs/a.wasm", "/abs/a.wasm"},
		{"rel/a.wasm", "rel/a.wasm"},
		{"~elsewhere", "~elsewhere"},
		{"", ""},
	} {
		got, err := util.ExpandHome(tt.path)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}
