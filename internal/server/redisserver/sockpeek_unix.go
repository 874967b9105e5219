//go:build unix

package redisserver

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// peerClosed probes the socket with a non-blocking MSG_PEEK and reports
// whether the peer closed its end. The probe never consumes bytes, so
// pipelined data sitting in the kernel or in the buffered reader stays
// intact for the next command.
func peerClosed(conn net.Conn) bool {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return false
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return false
	}

	closed := false
	rerr := raw.Read(func(fd uintptr) bool {
		var buf [1]byte
		n, _, err := unix.Recvfrom(int(fd), buf[:], unix.MSG_PEEK|unix.MSG_DONTWAIT)
		switch {
		case n == 0 && err == nil:
			// Orderly shutdown from the peer.
			closed = true
		case err == unix.ECONNRESET, err == unix.EPIPE:
			closed = true
		}
		return true
	})
	if rerr != nil {
		// A closed descriptor counts as gone.
		return true
	}
	return closed
}
