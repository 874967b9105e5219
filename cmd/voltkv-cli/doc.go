// Package main provides the entry point for voltkv-cli.
//
// voltkv-cli is a command-line client for VoltKV. Each subcommand maps
// onto a server command and prints the decoded reply:
//
//	voltkv-cli kv set session:42 alice
//	voltkv-cli list blpop jobs 5
//	voltkv-cli --server 10.0.0.7:6379 raw XRANGE events - +
//
// The server address comes from --server or the VOLTKV_SERVER
// environment variable.
package main
