package test_test

import (
	"bytes"
	"testing"

	"github.com/errcode/go/test"
	"github.com/stretchr/testify/require"
)

// Hand-assembled golden for a module exporting ok: () -> i32 { 0 }.
// Locks the section layout and LEB encodings against regressions.
var golden = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // magic, version
	0x01, 0x11, 0x04, // type section: 4 types
	0x60, 0x00, 0x01, 0x7f, // () -> i32
	0x60, 0x01, 0x7f, 0x01, 0x7f, // (i32) -> i32
	0x60, 0x00, 0x00, // () -> ()
	0x60, 0x00, 0x01, 0x7e, // () -> i64
	0x03, 0x02, 0x01, 0x00, // function section: 1 func, type 0
	0x07, 0x06, 0x01, 0x02, 'o', 'k', 0x00, 0x00, // export "ok" func 0
	0x0a, 0x06, 0x01, 0x04, 0x00, 0x41, 0x00, 0x0b, // code: i32.const 0
}

func TestStatusModuleGolden(t *testing.T) {
	t.Parallel()

	got := test.StatusModule(map[string]uint32{"ok": 0})
	require.Equal(t, golden, got)
}

func TestStatusModuleDeterministic(t *testing.T) {
	t.Parallel()

	exports := map[string]uint32{"c": 3, "a": 1, "b": 2}
	first := test.StatusModule(exports)
	for i := 0; i < 8; i++ {
		require.Equal(t, first, test.StatusModule(exports))
	}
}

func TestModulesCarryMagic(t *testing.T) {
	t.Parallel()

	magic := []byte{0x00, 0x61, 0x73, 0x6d}
	for name, bin := range map[string][]byte{
		"status":    test.StatusModule(map[string]uint32{"f": 7}),
		"echo":      test.EchoModule("echo"),
		"trap":      test.TrapModule("boom"),
		"int64":     test.Int64Module("wide"),
		"versioned": test.VersionedModule("1.2.3", map[string]uint32{"f": 7}),
	} {
		require.True(t, bytes.HasPrefix(bin, magic), "%s module lacks magic", name)
	}
}

func TestVersionedModuleEmbedsVersion(t *testing.T) {
	t.Parallel()

	bin := test.VersionedModule("1.2.3", nil)
	require.True(t, bytes.Contains(bin, []byte("1.2.3")))
	require.True(t, bytes.Contains(bin, []byte(test.ABIExport)))
	require.True(t, bytes.Contains(bin, []byte("memory")))
}
