// Package test builds tiny WebAssembly modules in memory, so tests can
// exercise a real guest boundary without checked-in binaries. Only the
// slice of the binary format the tests need is implemented: nullary i32
// functions, an i32 echo, traps, an i64 result, and a versioned variant
// with memory, one data segment and one exported i64 global.
package test

import (
	"sort"
)

const (
	secType   = 1
	secFunc   = 3
	secMemory = 5
	secGlobal = 6
	secExport = 7
	secCode   = 10
	secData   = 11

	kindFunc   = 0x00
	kindMemory = 0x02
	kindGlobal = 0x03

	opUnreachable = 0x00
	opEnd         = 0x0b
	opLocalGet    = 0x20
	opI32Const    = 0x41
	opI64Const    = 0x42

	valI32 = 0x7f
	valI64 = 0x7e
)

// ABIExport is the name of the i64 global a versioned guest exports. Its
// value packs (ptr<<32)|len of a version string in guest memory.
const ABIExport = "status_abi"

// versionOffset is where VersionedModule stores the version string.
// Nonzero, so hosts that confuse pointer and length fail loudly.
const versionOffset = 8

// StatusModule builds a module exporting one () -> i32 function per entry,
// each returning the mapped constant. Output is deterministic: exports are
// emitted in sorted name order.
func StatusModule(exports map[string]uint32) []byte {
	var m wasm
	for _, name := range sortedKeys(exports) {
		m.addFunc(name, typeNullaryI32, constBody(exports[name]))
	}
	return m.bytes()
}

// EchoModule builds a module exporting one (i32) -> i32 identity function.
func EchoModule(name string) []byte {
	var m wasm
	m.addFunc(name, typeUnaryI32, []byte{opLocalGet, 0x00, opEnd})
	return m.bytes()
}

// TrapModule builds a module exporting one () -> () function that executes
// unreachable.
func TrapModule(name string) []byte {
	var m wasm
	m.addFunc(name, typeNullaryVoid, []byte{opUnreachable, opEnd})
	return m.bytes()
}

// Int64Module builds a module exporting one () -> i64 function, a result
// too wide to carry a status.
func Int64Module(name string) []byte {
	var m wasm
	m.addFunc(name, typeNullaryI64, []byte{opI64Const, 0x09, opEnd})
	return m.bytes()
}

// NopModule builds a module exporting one () -> () function that returns
// normally.
func NopModule(name string) []byte {
	var m wasm
	m.addFunc(name, typeNullaryVoid, []byte{opEnd})
	return m.bytes()
}

// VersionedModule is StatusModule plus an exported memory holding version
// at a fixed offset and the ABIExport global pointing at it.
func VersionedModule(version string, exports map[string]uint32) []byte {
	var m wasm
	for _, name := range sortedKeys(exports) {
		m.addFunc(name, typeNullaryI32, constBody(exports[name]))
	}
	m.memory = true
	m.data = append(m.data, segment{offset: versionOffset, bytes: []byte(version)})
	m.globals = append(m.globals, global{
		name:  ABIExport,
		value: int64(versionOffset)<<32 | int64(len(version)),
	})
	return m.bytes()
}

// FuncVersionedModule is VersionedModule for guests that declare the
// version through a function export rather than a global.
func FuncVersionedModule(version string, exports map[string]uint32) []byte {
	var m wasm
	for _, name := range sortedKeys(exports) {
		m.addFunc(name, typeNullaryI32, constBody(exports[name]))
	}
	m.memory = true
	m.data = append(m.data, segment{offset: versionOffset, bytes: []byte(version)})

	body := sleb([]byte{opI64Const}, int64(versionOffset)<<32|int64(len(version)))
	m.addFunc(ABIExport, typeNullaryI64, append(body, opEnd))
	return m.bytes()
}

// Function type encodings. The type section index of each is its position
// in this list.
var funcTypes = [][]byte{
	typeNullaryI32:  {0x60, 0x00, 0x01, valI32},
	typeUnaryI32:    {0x60, 0x01, valI32, 0x01, valI32},
	typeNullaryVoid: {0x60, 0x00, 0x00},
	typeNullaryI64:  {0x60, 0x00, 0x01, valI64},
}

const (
	typeNullaryI32 = iota
	typeUnaryI32
	typeNullaryVoid
	typeNullaryI64
)

type fn struct {
	name    string
	typeidx int
	body    []byte // locals-free expr, including the end opcode
}

type global struct {
	name  string
	value int64 // immutable i64
}

type segment struct {
	offset uint32
	bytes  []byte
}

type wasm struct {
	funcs   []fn
	globals []global
	data    []segment
	memory  bool
}

func (m *wasm) addFunc(name string, typeidx int, body []byte) {
	m.funcs = append(m.funcs, fn{name: name, typeidx: typeidx, body: body})
}

func (m *wasm) bytes() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	// Type section carries every known type; sparing the unused ones is
	// not worth losing fixed indices for.
	var types []byte
	types = uleb(types, uint64(len(funcTypes)))
	for _, ft := range funcTypes {
		types = append(types, ft...)
	}
	out = append(out, section(secType, types)...)

	if len(m.funcs) > 0 {
		var body []byte
		body = uleb(body, uint64(len(m.funcs)))
		for _, f := range m.funcs {
			body = uleb(body, uint64(f.typeidx))
		}
		out = append(out, section(secFunc, body)...)
	}

	if m.memory {
		// One memory, minimum one page, no maximum.
		out = append(out, section(secMemory, []byte{0x01, 0x00, 0x01})...)
	}

	if len(m.globals) > 0 {
		var body []byte
		body = uleb(body, uint64(len(m.globals)))
		for _, g := range m.globals {
			body = append(body, valI64, 0x00, opI64Const) // const i64
			body = sleb(body, g.value)
			body = append(body, opEnd)
		}
		out = append(out, section(secGlobal, body)...)
	}

	out = append(out, section(secExport, m.exports())...)

	if len(m.funcs) > 0 {
		var body []byte
		body = uleb(body, uint64(len(m.funcs)))
		for _, f := range m.funcs {
			code := append([]byte{0x00}, f.body...) // no locals
			body = uleb(body, uint64(len(code)))
			body = append(body, code...)
		}
		out = append(out, section(secCode, body)...)
	}

	if len(m.data) > 0 {
		var body []byte
		body = uleb(body, uint64(len(m.data)))
		for _, seg := range m.data {
			body = append(body, 0x00, opI32Const) // active, memory 0
			body = sleb(body, int64(int32(seg.offset)))
			body = append(body, opEnd)
			body = uleb(body, uint64(len(seg.bytes)))
			body = append(body, seg.bytes...)
		}
		out = append(out, section(secData, body)...)
	}

	return out
}

func (m *wasm) exports() []byte {
	n := len(m.funcs) + len(m.globals)
	if m.memory {
		n++
	}

	var body []byte
	body = uleb(body, uint64(n))
	for i, f := range m.funcs {
		body = name(body, f.name)
		body = append(body, kindFunc)
		body = uleb(body, uint64(i))
	}
	if m.memory {
		body = name(body, "memory")
		body = append(body, kindMemory, 0x00)
	}
	for i, g := range m.globals {
		body = name(body, g.name)
		body = append(body, kindGlobal)
		body = uleb(body, uint64(i))
	}
	return body
}

// constBody is the expr for a nullary function returning v. The i32.const
// immediate is signed; out-of-range codes wrap through int32 on purpose.
func constBody(v uint32) []byte {
	body := []byte{opI32Const}
	body = sleb(body, int64(int32(v)))
	return append(body, opEnd)
}

func section(id byte, body []byte) []byte {
	out := []byte{id}
	out = uleb(out, uint64(len(body)))
	return append(out, body...)
}

func name(dst []byte, s string) []byte {
	dst = uleb(dst, uint64(len(s)))
	return append(dst, s...)
}

func uleb(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		if v >>= 7; v == 0 {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

func sleb(dst []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		if v >>= 7; (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

func sortedKeys(m map[string]uint32) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
