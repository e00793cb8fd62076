package serve

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/thejerf/suture/v4"
	"go.uber.org/multierr"

	"github.com/errcode/go/host"
)

// guest adapts one manifest entry to the supervision tree. Each run
// instantiates a fresh proc, invokes the entry export, records the
// status and tears the proc down; what Serve returns tells suture
// whether to run it again.
type guest struct {
	spec     ServiceSpec
	bytecode []byte
	runtime  wazero.Runtime
	registry *Registry

	stdout, stderr io.Writer
	log            *slog.Logger
}

func (g *guest) String() string {
	return g.spec.Name
}

func (g *guest) Serve(ctx context.Context) error {
	p, err := host.Config{
		Runtime:  g.runtime,
		Bytecode: g.bytecode,
		Name:     g.spec.Name,
		Args:     g.spec.Args,
		Env:      g.spec.Env,
		Stdout:   g.stdout,
		Stderr:   g.stderr,
		Log:      g.log,
	}.Instantiate(ctx)
	if err != nil {
		// The bytecode won't get better; don't thrash.
		return multierr.Append(err, suture.ErrDoNotRestart)
	}
	defer p.Close(ctx)

	code := p.Call(ctx, g.spec.Entry)
	if err := g.registry.Observe(g.spec.Name, p.PID.String(), code); err != nil {
		return err
	}

	g.log.InfoContext(ctx, "run finished",
		"status", code)

	if code.IsErr() {
		return code // suture restarts with backoff
	}

	if g.spec.Every == 0 {
		return suture.ErrDoNotRestart
	}

	select {
	case <-time.After(g.spec.Every.Std()):
		return nil // periodic; go again
	case <-ctx.Done():
		return ctx.Err()
	}
}
