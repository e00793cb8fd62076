package host

import (
	"context"

	"github.com/blang/semver/v4"
	"github.com/pkg/errors"
	"github.com/tetratelabs/wazero/api"
)

// ABIExport is the name through which a guest declares the status ABI
// version it was built against: either an i64 global, or a nullary
// function returning i64 (the only form Go guests can emit). The i64
// packs a pointer and length, (ptr << 32) | len, of a semver string in
// the guest's linear memory.
const ABIExport = "status_abi"

// GuestVersion reads the ABI version a guest declares. It returns
// false when the guest predates the convention, i.e. exports no
// version at all.
func GuestVersion(ctx context.Context, mod api.Module) (semver.Version, bool, error) {
	raw, ok, err := versionWord(ctx, mod)
	if err != nil || !ok {
		return semver.Version{}, false, err
	}

	mem := mod.Memory()
	if mem == nil {
		return semver.Version{}, false, errors.New("version export without memory")
	}

	ptr, size := uint32(raw>>32), uint32(raw)

	b, ok := mem.Read(ptr, size)
	if !ok {
		return semver.Version{}, false, errors.Errorf("version string out of bounds: ptr=%d len=%d", ptr, size)
	}

	v, err := semver.Parse(string(b))
	if err != nil {
		return semver.Version{}, false, errors.Wrapf(err, "parse version %q", b)
	}

	return v, true, nil
}

func versionWord(ctx context.Context, mod api.Module) (uint64, bool, error) {
	if g := mod.ExportedGlobal(ABIExport); g != nil {
		return g.Get(), true, nil
	}

	f := mod.ExportedFunction(ABIExport)
	if f == nil {
		return 0, false, nil
	}

	def := f.Definition()
	if len(def.ParamTypes()) != 0 ||
		len(def.ResultTypes()) != 1 ||
		def.ResultTypes()[0] != api.ValueTypeI64 {
		return 0, false, errors.New("unsuitable abi export signature")
	}

	rs, err := f.Call(ctx)
	if err != nil {
		return 0, false, errors.Wrap(err, "read abi version")
	}

	return rs[0], true, nil
}

// CheckABI enforces c.ABI against the guest's declared version. Guests
// that declare no version always pass; a declared version must both
// parse and satisfy the range.
func (c Config) CheckABI(ctx context.Context, mod api.Module) error {
	if c.ABI == nil {
		return nil
	}

	v, ok, err := GuestVersion(ctx, mod)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if !c.ABI(v) {
		return errors.Errorf("incompatible abi version: %s", v)
	}

	return nil
}
