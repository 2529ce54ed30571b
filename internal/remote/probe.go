package remote

import (
	"net"
	"time"
)

// Reachable reports whether a TCP connection to host:port succeeds within
// the timeout. It is a fast pre-check before authentication, not a
// substitute for it: a false result short-circuits with an actionable
// message instead of a slow ssh failure.
func Reachable(host, port string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
