// Package guest supports programs compiled to wasm that report status
// codes to their host. Guests return codes from their exports, declare
// the ABI version they were built against, and exit through Exit so
// the full u32 reaches the host.
package guest

import (
	"os"
	"unsafe"

	errcode "github.com/errcode/go"
)

// ABIVersion is the status ABI this tree implements.
const ABIVersion = "1.0.0"

var abiVersion = []byte(ABIVersion)

// ABIWord packs the address and length of the declared ABI version,
// (ptr << 32) | len, for the host's version gate. Go guests cannot
// export wasm globals, so expose it as a function instead:
//
//	//go:wasmexport status_abi
//	func statusABI() uint64 { return guest.ABIWord() }
func ABIWord() uint64 {
	ptr := uintptr(unsafe.Pointer(&abiVersion[0]))
	return uint64(ptr)<<32 | uint64(len(abiVersion))
}

// Exit terminates the guest, reporting code to the host. Unlike a
// shell exit status, the full u32 survives the trip.
func Exit(code errcode.Code) {
	os.Exit(int(code))
}
