// Package main provides the entry point for voltkv-server.
//
// voltkv-server is an in-memory key-value server speaking the RESP2
// wire protocol. All data lives in process memory and is lost on exit.
//
// Usage:
//
//	voltkv-server [flags]
//	voltkv-server --config /path/to/config.yaml
//
// The server loads configuration from file and environment (VOLTKV_
// prefix), starts the configured listeners, and runs until a signal or
// a SHUTDOWN command arrives. When a configuration file is given, the
// log level follows edits to it without a restart.
package main
