// Package redisserver implements the RESP2 wire protocol and the
// command surface of VoltKV.
//
// One goroutine serves each accepted connection: it decodes commands,
// executes them through the static command registry, and writes replies
// back in request order, which keeps pipelining safe. The store's own
// locking makes every command atomic; the only command that suspends
// mid-execution is BLPOP, which parks the connection on a FIFO waiter
// until a push, its timeout, or a client disconnect resolves it.
package redisserver
