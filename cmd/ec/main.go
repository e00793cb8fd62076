package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"

	errcode "github.com/errcode/go"
	"github.com/errcode/go/cmd/call"
	"github.com/errcode/go/cmd/explain"
	"github.com/errcode/go/cmd/internal/serve"
	"github.com/errcode/go/cmd/run"
)

var app = &cli.App{
	Name:  "ec",
	Usage: "run WebAssembly guests that report status codes",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			EnvVars: []string{"EC_DEBUG"},
			Usage:   "enable debug logging",
		},
		&cli.BoolFlag{
			Name:    "json",
			EnvVars: []string{"EC_JSON"},
			Usage:   "write logs as json",
		},
	},
	Before: setup,
	Commands: []*cli.Command{
		run.Command(),
		call.Command(),
		serve.Command(),
		explain.Command(),
	},
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		if code, ok := errcode.As(err); ok {
			slog.Error("guest failed",
				"status", code)
			os.Exit(exitStatus(code))
		}

		slog.Error("command failed",
			"reason", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}

	var h slog.Handler
	if c.Bool("json") {
		h = slog.NewJSONHandler(c.App.ErrWriter, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		h = tint.NewHandler(c.App.ErrWriter, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}

	slog.SetDefault(slog.New(h))
	return nil
}

// exitStatus narrows a status to the shell's 8-bit convention. Codes
// past 255 saturate rather than wrap, so a failure never reaches the
// shell as 0.
func exitStatus(code errcode.Code) int {
	if code > 255 {
		return 255
	}

	return int(code)
}
