package command

import (
	"testing"

	"github.com/urfave/cli/v2"
)

func TestApp(t *testing.T) {
	app := App()

	if app.Name != "voltkv-cli" {
		t.Errorf("app name = %q, want voltkv-cli", app.Name)
	}
	if len(app.Commands) != 7 {
		t.Errorf("expected 7 top-level commands, got %d", len(app.Commands))
	}

	names := make(map[string]bool)
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"ping", "kv", "list", "stream", "set", "server", "raw"} {
		if !names[want] {
			t.Errorf("missing top-level command %q", want)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	flags := globalFlags()

	names := make(map[string]bool)
	for _, f := range flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"server", "s", "timeout", "tls", "tls-ca"} {
		if !names[want] {
			t.Errorf("missing global flag %q", want)
		}
	}
}

func TestKVCommand(t *testing.T) {
	cmd := KVCommand()

	if cmd.Name != "kv" {
		t.Errorf("name = %q, want kv", cmd.Name)
	}
	assertSubcommands(t, cmd, "set", "get", "incr", "del", "exists", "type")
}

func TestListCommand(t *testing.T) {
	cmd := ListCommand()

	if cmd.Name != "list" {
		t.Errorf("name = %q, want list", cmd.Name)
	}
	assertSubcommands(t, cmd, "rpush", "lpush", "llen", "lrange", "lpop", "blpop")
}

func TestStreamCommand(t *testing.T) {
	cmd := StreamCommand()

	if cmd.Name != "stream" {
		t.Errorf("name = %q, want stream", cmd.Name)
	}
	assertSubcommands(t, cmd, "xadd", "xrange")
}

func TestSetCommand(t *testing.T) {
	cmd := SetCommand()

	if cmd.Name != "set" {
		t.Errorf("name = %q, want set", cmd.Name)
	}
	assertSubcommands(t, cmd,
		"sadd", "srem", "scard", "smembers", "sismember", "smove",
		"sdiff", "sinter", "sunion", "sdiffstore", "sinterstore", "sunionstore")
}

func TestServerCommand(t *testing.T) {
	cmd := ServerCommand()

	if cmd.Name != "server" {
		t.Errorf("name = %q, want server", cmd.Name)
	}
	assertSubcommands(t, cmd, "flushdb", "shutdown")
}

func assertSubcommands(t *testing.T, cmd *cli.Command, want ...string) {
	t.Helper()

	if len(cmd.Subcommands) != len(want) {
		t.Errorf("%s: expected %d subcommands, got %d", cmd.Name, len(want), len(cmd.Subcommands))
	}
	names := make(map[string]bool)
	for _, sub := range cmd.Subcommands {
		names[sub.Name] = true
	}
	for _, w := range want {
		if !names[w] {
			t.Errorf("%s: missing subcommand %q", cmd.Name, w)
		}
	}
}
