//go:build !unix

package redisserver

import "net"

// peerClosed reports false on platforms without a non-consuming socket
// probe; a vanished client is then noticed when its wait resolves or
// the next read fails.
func peerClosed(net.Conn) bool {
	return false
}
