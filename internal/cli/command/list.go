package command

import (
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
)

// ListCommand creates the list commands.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List operations",
		Subcommands: []*cli.Command{
			{
				Name:      "rpush",
				Usage:     "Append values to a list",
				ArgsUsage: "KEY VALUE [VALUE ...]",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2, -1); err != nil {
						return err
					}
					return exec(c, argsWith("RPUSH", c)...)
				},
			},
			{
				Name:      "lpush",
				Usage:     "Prepend values to a list",
				ArgsUsage: "KEY VALUE [VALUE ...]",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 2, -1); err != nil {
						return err
					}
					return exec(c, argsWith("LPUSH", c)...)
				},
			},
			{
				Name:      "llen",
				Usage:     "Report the length of a list",
				ArgsUsage: "KEY",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, 1); err != nil {
						return err
					}
					return exec(c, argsWith("LLEN", c)...)
				},
			},
			{
				Name:      "lrange",
				Usage:     "Return a range of list elements",
				ArgsUsage: "KEY START STOP",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 3, 3); err != nil {
						return err
					}
					return exec(c, argsWith("LRANGE", c)...)
				},
			},
			{
				Name:      "lpop",
				Usage:     "Remove and return elements from the head of a list",
				ArgsUsage: "KEY [COUNT]",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, 2); err != nil {
						return err
					}
					return exec(c, argsWith("LPOP", c)...)
				},
			},
			{
				Name:      "blpop",
				Usage:     "Pop from the head of a list, blocking until an element arrives",
				ArgsUsage: "KEY TIMEOUT",
				Action:    blpopAction,
			},
		},
	}
}

// blpopAction sizes the client timeout from the server-side blocking
// timeout so the connection is not torn down while the server holds the
// command. A server timeout of zero blocks forever, so the client waits
// forever too.
func blpopAction(c *cli.Context) error {
	if err := requireArgs(c, 2, 2); err != nil {
		return err
	}

	secs, err := strconv.ParseFloat(c.Args().Get(1), 64)
	if err != nil || secs < 0 {
		return fmt.Errorf("timeout is not a float or out of range")
	}

	wait := time.Duration(0)
	if secs > 0 {
		// Allow a grace period beyond the server-side timeout.
		wait = time.Duration(secs*float64(time.Second)) + time.Second
	}
	return run(c, wait, argsWith("BLPOP", c)...)
}
