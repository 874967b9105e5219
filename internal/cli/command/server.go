package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// PingCommand creates the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check server liveness",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 0, 0); err != nil {
				return err
			}
			return exec(c, "PING")
		},
	}
}

// ServerCommand creates the server administration commands.
func ServerCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Server administration",
		Subcommands: []*cli.Command{
			{
				Name:  "flushdb",
				Usage: "Delete every key in the keyspace",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 0, 0); err != nil {
						return err
					}
					return exec(c, "FLUSHDB")
				},
			},
			{
				Name:  "shutdown",
				Usage: "Ask the server to shut down",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 0, 0); err != nil {
						return err
					}
					// The server closes the connection without a reply;
					// a read error here means the shutdown was accepted.
					err := exec(c, "SHUTDOWN")
					if err != nil {
						if _, isExit := err.(cli.ExitCoder); isExit {
							return err
						}
						fmt.Println("server shutting down")
					}
					return nil
				},
			},
		},
	}
}

// RawCommand sends an arbitrary command verbatim, an escape hatch for
// anything without a dedicated subcommand.
func RawCommand() *cli.Command {
	return &cli.Command{
		Name:      "raw",
		Usage:     "Send a raw command to the server",
		ArgsUsage: "COMMAND [ARG ...]",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, -1); err != nil {
				return err
			}
			return exec(c, c.Args().Slice()...)
		},
	}
}
