package command

import (
	"github.com/urfave/cli/v2"
)

// SetCommand creates the set commands.
func SetCommand() *cli.Command {
	sub := func(name, usage, argsUsage string, min, max int) *cli.Command {
		return &cli.Command{
			Name:      name,
			Usage:     usage,
			ArgsUsage: argsUsage,
			Action: func(c *cli.Context) error {
				if err := requireArgs(c, min, max); err != nil {
					return err
				}
				return exec(c, argsWith(name, c)...)
			},
		}
	}

	return &cli.Command{
		Name:  "set",
		Usage: "Set operations",
		Subcommands: []*cli.Command{
			sub("sadd", "Add members to a set", "KEY MEMBER [MEMBER ...]", 2, -1),
			sub("srem", "Remove members from a set", "KEY MEMBER [MEMBER ...]", 2, -1),
			sub("scard", "Report the number of members in a set", "KEY", 1, 1),
			sub("smembers", "Return all members of a set", "KEY", 1, 1),
			sub("sismember", "Check whether a value is a member of a set", "KEY MEMBER", 2, 2),
			sub("smove", "Move a member between sets", "SOURCE DESTINATION MEMBER", 3, 3),
			sub("sdiff", "Difference of the first set against the rest", "KEY [KEY ...]", 1, -1),
			sub("sinter", "Intersection of the given sets", "KEY [KEY ...]", 1, -1),
			sub("sunion", "Union of the given sets", "KEY [KEY ...]", 1, -1),
			sub("sdiffstore", "Store a set difference at a destination key", "DESTINATION KEY [KEY ...]", 2, -1),
			sub("sinterstore", "Store a set intersection at a destination key", "DESTINATION KEY [KEY ...]", 2, -1),
			sub("sunionstore", "Store a set union at a destination key", "DESTINATION KEY [KEY ...]", 2, -1),
		},
	}
}
