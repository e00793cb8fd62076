// Package call implements the `ec call` subcommand: invoke a single
// export with u32 arguments, print the resulting status, and exit
// with it.
package call

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

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
		Name:      "call",
		Usage:     "invoke one export and print its status",
		ArgsUsage: "<module.wasm> <export> [u32 args...]",
		Flags:     flags.GuestFlags(),
		Action:    call(),
	}
}

func call() cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < 2 {
			return errors.New("expected a wasm module and an export name")
		}

		args, err := parseArgs(c.Args().Slice()[2:])
		if err != nil {
			return err
		}

		cfg, err := configure(c)
		if err != nil {
			return err
		}

		r := wazero.NewRuntimeWithConfig(c.Context, wazero.NewRuntimeConfig().
			WithCloseOnContextDone(true))
		defer r.Close(c.Context)
		cfg.Runtime = r

		p, err := cfg.Instantiate(c.Context)
		if err != nil {
			return errors.Wrap(err, "instantiate")
		}
		defer p.Close(c.Context)

		code := p.Call(c.Context, c.Args().Get(1), args...)
		fmt.Fprintln(c.App.Writer, code)

		return code.Err()
	}
}

// parseArgs maps command-line arguments onto the wasm stack. Each must
// be a u32; strconv's base detection applies, so 0x2a works.
func parseArgs(raw []string) ([]uint64, error) {
	args := make([]uint64, 0, len(raw))
	for _, s := range raw {
		v, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %q", s)
		}
		args = append(args, v)
	}

	return args, nil
}

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
		Env:      c.StringSlice("env"),
		Stdin:    c.App.Reader,
		Stdout:   c.App.Writer,
		Stderr:   c.App.ErrWriter,
		FS:       fsys,
		ABI:      abi,
		Log:      slog.Default(),
	}, nil
}
