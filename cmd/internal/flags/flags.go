package flags

import (
	"github.com/urfave/cli/v2"
)

// GuestFlags returns the guest environment flags shared by commands
// that instantiate a module.
func GuestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "env",
			Category: "GUEST",
			Aliases:  []string{"e"},
			Usage:    "guest environment as KEY=VALUE pairs",
			EnvVars:  []string{"EC_ENV"},
		},
		&cli.StringFlag{
			Name:     "dir",
			Category: "GUEST",
			Usage:    "preopen `path` as the guest filesystem",
			EnvVars:  []string{"EC_DIR"},
		},
		&cli.StringFlag{
			Name:     "abi",
			Category: "GUEST",
			Usage:    "require the guest abi version to satisfy `range`",
			EnvVars:  []string{"EC_ABI"},
		},
	}
}

// RuntimeFlags returns the wazero tuning flags that can be shared
// across commands.
func RuntimeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     "wasm-debug",
			Category: "RUNTIME",
			Usage:    "keep dwarf debug info in compiled guests",
			EnvVars:  []string{"EC_WASM_DEBUG"},
		},
	}
}
