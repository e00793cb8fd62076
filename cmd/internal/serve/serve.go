package serve

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/tetratelabs/wazero"
	"github.com/thejerf/suture/v4"
	"github.com/urfave/cli/v2"

	"github.com/errcode/go/cmd/internal/flags"
	"github.com/errcode/go/util"
	syncutils "github.com/errcode/go/util/sync"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "supervise guests declared in a manifest",
		ArgsUsage: "<manifest.yaml>",
		Flags:     flags.RuntimeFlags(),
		Action:    serve(),
	}
}

func serve() cli.ActionFunc {
	return func(c *cli.Context) error {
		if !c.Args().Present() {
			return errors.New("expected path to a manifest")
		}

		m, err := LoadManifest(c.Args().First())
		if err != nil {
			return err
		}

		// One runtime outlives every guest; procs come and go inside it.
		////
		r := wazero.NewRuntimeWithConfig(c.Context, wazero.NewRuntimeConfig().
			WithDebugInfoEnabled(c.Bool("wasm-debug")).
			WithCloseOnContextDone(true))
		defer r.Close(c.Context)

		registry, err := NewRegistry()
		if err != nil {
			return err
		}
		defer report(registry)

		bytecode, err := loadModules(m)
		if err != nil {
			return err
		}

		// Build the supervision tree.
		////
		sup := suture.New(c.App.Name, suture.Spec{
			EventHook: util.EventHook,
		})

		for i, spec := range m.Services {
			sup.Add(&guest{
				spec:     spec,
				bytecode: bytecode[i],
				runtime:  r,
				registry: registry,
				stdout:   c.App.Writer,
				stderr:   c.App.ErrWriter,
				log:      slog.With("service", spec.Name),
			})
		}

		if err := sup.Serve(c.Context); !errors.Is(err, context.Canceled) {
			return err
		}

		return nil
	}
}

// loadModules reads every service's bytecode concurrently; the first
// failure wins.
func loadModules(m *Manifest) ([][]byte, error) {
	bytecode := make([][]byte, len(m.Services))

	var join syncutils.Any
	for i, spec := range m.Services {
		join.Go(func() error {
			path, err := util.ExpandHome(spec.Module)
			if err != nil {
				return errors.Wrapf(err, "service %q", spec.Name)
			}

			bytecode[i], err = os.ReadFile(path)
			return errors.Wrapf(err, "service %q", spec.Name)
		})
	}

	return bytecode, join.Wait()
}

// report logs where every service ended up. Runs once, at shutdown.
func report(registry *Registry) {
	recs, err := registry.List()
	if err != nil {
		return
	}

	for _, rec := range recs {
		slog.Info("final service status",
			"service", rec.Name,
			"status", rec.Status,
			"runs", rec.Runs,
			"pid", rec.PID)
	}
}
