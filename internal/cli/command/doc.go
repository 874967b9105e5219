// Package command provides CLI command definitions for voltkv-cli.
//
// Commands map one-to-one onto server commands: each dials the server,
// sends a single RESP request, and prints the decoded reply. Grouping:
//
//   - kv.go: string and key commands (SET, GET, DEL, EXISTS, TYPE, INCR)
//   - list.go: list commands (RPUSH, LPUSH, LRANGE, LLEN, LPOP, BLPOP)
//   - stream.go: stream commands (XADD, XRANGE)
//   - setops.go: set commands (SADD, SMEMBERS, SDIFF, ...)
//   - server.go: PING, FLUSHDB, SHUTDOWN, and the raw escape hatch
package command
