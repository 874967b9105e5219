package command

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/voltkv-go/internal/cli/connection"
	"github.com/yndnr/voltkv-go/internal/infra/buildinfo"
	"github.com/yndnr/voltkv-go/internal/infra/tlsroots"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "voltkv-cli",
		Usage:   "VoltKV command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			KVCommand(),
			ListCommand(),
			StreamCommand(),
			SetCommand(),
			ServerCommand(),
			RawCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "VoltKV server address",
			EnvVars: []string{"VOLTKV_SERVER"},
			Value:   "localhost:6379",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Request timeout",
			Value:   connection.DefaultTimeout,
		},
		&cli.BoolFlag{
			Name:  "tls",
			Usage: "Connect over TLS",
		},
		&cli.StringFlag{
			Name:  "tls-ca",
			Usage: "PEM file with additional trusted CA certificates",
		},
	}
}

// Dial creates a client from the global flags.
func Dial(c *cli.Context) (*connection.Client, error) {
	opts := []connection.Option{
		connection.WithTimeout(c.Duration("timeout")),
	}

	if c.Bool("tls") {
		pool, err := tlsroots.NewPool()
		if err != nil {
			return nil, fmt.Errorf("load system roots: %w", err)
		}
		if ca := c.String("tls-ca"); ca != "" {
			if err := pool.AddCertFile(ca); err != nil {
				return nil, err
			}
		}
		opts = append(opts, connection.WithTLS(pool.TLSConfig()))
	}

	return connection.New(c.String("server"), opts...), nil
}

// run sends a single command and prints the reply. Error replies print
// to stderr and exit non-zero; blockingTimeout applies to the round
// trip, with zero meaning wait forever.
func run(c *cli.Context, blockingTimeout time.Duration, args ...string) error {
	client, err := Dial(c)
	if err != nil {
		return err
	}
	defer client.Close()

	timeout := c.Duration("timeout")
	if blockingTimeout >= 0 {
		timeout = blockingTimeout
	}

	v, err := client.DoWithTimeout(timeout, args...)
	if err != nil {
		return err
	}

	if v.IsError() {
		fmt.Fprintln(os.Stderr, v.Format())
		return cli.Exit("", 1)
	}
	fmt.Println(v.Format())
	return nil
}

// exec is run with the default timeout.
func exec(c *cli.Context, args ...string) error {
	return run(c, -1, args...)
}

// argsWith prepends the command name to the CLI positional arguments.
func argsWith(name string, c *cli.Context) []string {
	return append([]string{name}, c.Args().Slice()...)
}

// requireArgs enforces an argument count range; max of -1 is unbounded.
func requireArgs(c *cli.Context, min, max int) error {
	n := c.NArg()
	if n < min || (max >= 0 && n > max) {
		return fmt.Errorf("wrong number of arguments (got %d)", n)
	}
	return nil
}
