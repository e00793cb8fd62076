// Package explain implements the `ec explain` subcommand, a small
// decoder ring for status codes.
package explain

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	errcode "github.com/errcode/go"
	"github.com/errcode/go/host"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:      "explain",
		Usage:     "describe status codes",
		ArgsUsage: "<code...>",
		Action:    explain(),
	}
}

func explain() cli.ActionFunc {
	return func(c *cli.Context) error {
		if !c.Args().Present() {
			return errors.New("expected at least one status code")
		}

		for _, arg := range c.Args().Slice() {
			code, err := parse(arg)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "%s\t%d\t%s\n",
				code,
				uint32(code),
				describe(code))
		}

		return nil
	}
}

// parse accepts a status in either notation: the debug form ("E123") or
// a bare number ("123", "0x7b").
func parse(s string) (errcode.Code, error) {
	if code, err := errcode.Parse(s); err == nil {
		return code, nil
	}

	if v, err := strconv.ParseUint(s, 0, 32); err == nil {
		return errcode.Code(v), nil
	}

	return 0, errors.Errorf("not a status code: %q", s)
}

func describe(code errcode.Code) string {
	if code.IsOK() {
		return "success"
	}

	if text := host.StatusText(code); text != "" {
		return "reserved: " + text
	}

	return "application-defined failure"
}
