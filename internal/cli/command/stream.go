package command

import (
	"github.com/urfave/cli/v2"
)

// StreamCommand creates the stream commands.
func StreamCommand() *cli.Command {
	return &cli.Command{
		Name:  "stream",
		Usage: "Stream operations",
		Subcommands: []*cli.Command{
			{
				Name:      "xadd",
				Usage:     "Append an entry to a stream",
				ArgsUsage: "KEY ID FIELD VALUE [FIELD VALUE ...]",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 4, -1); err != nil {
						return err
					}
					return exec(c, argsWith("XADD", c)...)
				},
			},
			{
				Name:      "xrange",
				Usage:     "Return stream entries within an ID range",
				ArgsUsage: "KEY START END [COUNT N]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Maximum number of entries to return",
					},
				},
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 3, 3); err != nil {
						return err
					}
					args := argsWith("XRANGE", c)
					if c.IsSet("count") {
						args = append(args, "COUNT", c.String("count"))
					}
					return exec(c, args...)
				},
			},
		},
	}
}
