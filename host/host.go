// Package host runs WebAssembly guests whose functions report status as a
// u32, and turns every call outcome into an errcode.Code. It is the
// foreign side of the status contract: a guest export returning i32 is
// treated exactly like a C function returning a status, 0 for success.
package host

import (
	"context"
	"crypto/rand"
	"io"
	"io/fs"
	"log/slog"
	"runtime"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/pkg/errors"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"golang.org/x/sync/semaphore"

	errcode "github.com/errcode/go"
)

type Config struct {
	// Runtime to instantiate in. When nil, Instantiate creates one with
	// context-close enabled and owns it for the life of the Proc.
	Runtime wazero.Runtime

	// Bytecode is the guest module binary.
	Bytecode []byte

	// Name of the instance. Defaults to the generated PID.
	Name string

	Args, Env []string

	Stdin          io.Reader
	Stdout, Stderr io.Writer
	FS             fs.FS

	// ABI optionally gates instantiation on the guest's declared version.
	// See CheckABI.
	ABI semver.Range

	Log *slog.Logger
}

// Instantiate compiles and instantiates the guest. The start function
// is deferred; only a reactor's _initialize runs before the first Call.
// On error, any partially-built state is rolled back.
func (c Config) Instantiate(ctx context.Context) (*Proc, error) {
	pid := NewPID()
	log := c.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With("pid", pid.String())

	var ok bool
	var cs CloserSlice
	defer func() {
		if !ok {
			cs.Close(ctx)
		}
	}()

	r := c.Runtime
	if r == nil {
		r = wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().
			WithCloseOnContextDone(true))
		cs = append(cs, r)
	}

	if len(c.Bytecode) == 0 {
		return nil, errors.New("no bytecode provided")
	}

	cm, err := r.CompileModule(ctx, c.Bytecode)
	if err != nil {
		return nil, errors.Wrap(err, "compile module")
	}
	cs = append(cs, cm)

	// WASI may already be bound when the caller shares a runtime
	// between guests. Either way it lives and dies with the runtime,
	// not with any one proc.
	if r.Module(wasi_snapshot_preview1.ModuleName) == nil {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
			return nil, errors.Wrap(err, "instantiate wasi")
		}
	}

	mod, err := r.InstantiateModule(ctx, cm, c.moduleConfig(pid))
	if err != nil {
		return nil, errors.Wrap(err, "instantiate module")
	}
	cs = append(cs, mod)

	// Reactor-style guests, e.g. Go's wasip1 c-shared buildmode, set up
	// their runtime in _initialize. It must run before any export.
	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			return nil, errors.Wrap(err, "initialize")
		}
	}

	if err := c.CheckABI(ctx, mod); err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "guest instantiated",
		"module", mod.Name())

	ok = true
	return &Proc{
		PID:    pid,
		Module: mod,
		log:    log,
		sem:    semaphore.NewWeighted(1),
		closer: cs,
	}, nil
}

func (c Config) moduleConfig(pid PID) wazero.ModuleConfig {
	name := c.Name
	if name == "" {
		name = pid.String()
	}

	mc := wazero.NewModuleConfig().
		WithName(name).
		WithArgs(append([]string{name}, c.Args...)...).
		WithStdin(c.Stdin).
		WithStdout(c.Stdout).
		WithStderr(c.Stderr).
		WithRandSource(rand.Reader).
		WithOsyield(runtime.Gosched).
		WithSysNanosleep().
		WithSysNanotime().
		WithSysWalltime().
		WithStartFunctions() // defer _start; Call runs it on demand

	if c.FS != nil {
		mc = mc.WithFS(c.FS)
	}

	for _, env := range c.Env {
		if k, v, ok := strings.Cut(env, "="); ok {
			mc = mc.WithEnv(k, v)
		} else {
			slog.Warn("ignored unparsable environment variable",
				"var", env)
		}
	}

	return mc
}

// Proc is one instantiated guest.
type Proc struct {
	PID    PID
	Module api.Module

	log    *slog.Logger
	sem    *semaphore.Weighted
	closer CloserSlice
}

func (p *Proc) String() string {
	return p.Module.Name()
}

// Call invokes the exported function fn with raw stack arguments and
// reports the outcome as a status code. Guest statuses pass through
// unchanged; failures of the call machinery itself map into the reserved
// block (see Status).
//
// The export must take len(args) parameters and return either nothing or
// a single i32. A nullary result means the status is whatever the guest
// exits with, or success on a normal return.
//
// Calls are serialized. A weighted semaphore stands in for a mutex so
// waiting callers can give up with ctx.
func (p *Proc) Call(ctx context.Context, fn string, args ...uint64) errcode.Code {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return Status(err)
	}
	defer p.sem.Release(1)

	f := p.Module.ExportedFunction(fn)
	if f == nil {
		p.log.DebugContext(ctx, "missing export",
			"fn", fn)
		return StatusNoExport
	}

	def := f.Definition()
	if len(def.ParamTypes()) != len(args) {
		p.log.DebugContext(ctx, "wrong argument count",
			"fn", fn,
			"want", len(def.ParamTypes()),
			"got", len(args))
		return StatusInvalidArgs
	}
	if rs := def.ResultTypes(); len(rs) > 1 || (len(rs) == 1 && rs[0] != api.ValueTypeI32) {
		p.log.DebugContext(ctx, "export cannot report a status",
			"fn", fn,
			"results", len(rs))
		return StatusBadSignature
	}

	raw, err := f.Call(ctx, args...)
	if err != nil {
		code := Status(err)
		p.log.DebugContext(ctx, "call failed",
			"fn", fn,
			"status", code,
			"reason", err)
		return code
	}

	if len(raw) == 0 {
		return errcode.OK
	}
	return errcode.Code(api.DecodeU32(raw[0]))
}

// Kill closes the guest with the given status. Calls that are in flight
// or arrive later observe the code.
func (p *Proc) Kill(ctx context.Context, code errcode.Code) error {
	return p.Module.CloseWithExitCode(ctx, uint32(code))
}

func (p *Proc) Close(ctx context.Context) error {
	return p.closer.Close(ctx)
}
