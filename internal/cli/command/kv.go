package command

import (
	"github.com/urfave/cli/v2"
)

// KVCommand creates the string and generic key commands.
func KVCommand() *cli.Command {
	return &cli.Command{
		Name:  "kv",
		Usage: "String and key operations",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Set a key to a string value",
				ArgsUsage: "KEY VALUE",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2, 2); err != nil {
						return err
					}
					return exec(c, argsWith("SET", c)...)
				},
			},
			{
				Name:      "get",
				Usage:     "Get the string value of a key",
				ArgsUsage: "KEY",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, 1); err != nil {
						return err
					}
					return exec(c, argsWith("GET", c)...)
				},
			},
			{
				Name:      "incr",
				Usage:     "Increment the integer value of a key by one",
				ArgsUsage: "KEY",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, 1); err != nil {
						return err
					}
					return exec(c, argsWith("INCR", c)...)
				},
			},
			{
				Name:      "del",
				Usage:     "Delete one or more keys",
				ArgsUsage: "KEY [KEY ...]",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, -1); err != nil {
						return err
					}
					return exec(c, argsWith("DEL", c)...)
				},
			},
			{
				Name:      "exists",
				Usage:     "Count how many of the given keys exist",
				ArgsUsage: "KEY [KEY ...]",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, -1); err != nil {
						return err
					}
					return exec(c, argsWith("EXISTS", c)...)
				},
			},
			{
				Name:      "type",
				Usage:     "Report the type stored at a key",
				ArgsUsage: "KEY",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, 1); err != nil {
						return err
					}
					return exec(c, argsWith("TYPE", c)...)
				},
			},
		},
	}
}
