package run

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blang/semver/v4"
	"github.com/pkg/errors"
	"github.com/tetratelabs/wazero"
	"github.com/urfave/cli/v2"

	"github.com/errcode/go/cmd/internal/flags"
	"github.com/errcode/go/host"
	"github.com/errcode/go/util"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "run a guest's start export and exit with its status",
		ArgsUsage: "<module.wasm> [args...]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "entry",
				EnvVars: []string{"EC_ENTRY"},
				Usage:   "name of the export to invoke",
				Value:   "_start",
			},
			&cli.DurationFlag{
				Name:    "timeout",
				EnvVars: []string{"EC_TIMEOUT"},
				Usage:   "abort the guest after this long",
			},
		}, append(flags.GuestFlags(), flags.RuntimeFlags()...)...),
		Action: run(),
	}
}

func run() cli.ActionFunc {
	return func(c *cli.Context) error {
		if !c.Args().Present() {
			return errors.New("expected path to a wasm module")
		}

		cfg, err := configure(c)
		if err != nil {
			return err
		}

		r := wazero.NewRuntimeWithConfig(c.Context, wazero.NewRuntimeConfig().
			WithDebugInfoEnabled(c.Bool("wasm-debug")).
			WithCloseOnContextDone(true))
		defer r.Close(c.Context)
		cfg.Runtime = r

		// The timeout bounds the guest's work, not the teardown.
		ctx := c.Context
		if d := c.Duration("timeout"); d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}

		p, err := cfg.Instantiate(ctx)
		if err != nil {
			return errors.Wrap(err, "instantiate")
		}
		defer p.Close(c.Context)

		return p.Call(ctx, c.String("entry")).Err()
	}
}

// configure assembles a host config from flags and arguments, leaving
// the runtime for the caller to fill in.
func configure(c *cli.Context) (host.Config, error) {
	path, err := util.ExpandHome(c.Args().First())
	if err != nil {
		return host.Config{}, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return host.Config{}, errors.Wrap(err, "read module")
	}

	var abi semver.Range
	if s := c.String("abi"); s != "" {
		if abi, err = semver.ParseRange(s); err != nil {
			return host.Config{}, errors.Wrapf(err, "parse abi range %q", s)
		}
	}

	var fsys fs.FS
	if dir := c.String("dir"); dir != "" {
		fsys = os.DirFS(dir)
	}

	return host.Config{
		Bytecode: b,
		Name:     filepath.Base(path),
		Args:     c.Args().Tail(),
		Env:      c.StringSlice("env"),
		Stdin:    c.App.Reader,
		Stdout:   c.App.Writer,
		Stderr:   c.App.ErrWriter,
		FS:       fsys,
		ABI:      abi,
		Log:      slog.Default(),
	}, nil
}
