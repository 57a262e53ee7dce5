package stubdns

import (
	"context"
	"net"
	"time"
)

// TCPTransport exchanges DNS messages over TCP with two-byte length
// framing. A fresh connection is dialed per exchange; recursive servers
// generally close idle TCP connections quickly, so pooling them buys
// little.
type TCPTransport struct {
	server  string
	timeout time.Duration
	dialer  net.Dialer
}

// NewTCPTransport creates a TCP transport for server ("host:port").
func NewTCPTransport(server string, timeout time.Duration) *TCPTransport {
	if timeout <= 0 {
		timeout = DefaultTCPTimeout
	}
	return &TCPTransport{server: server, timeout: timeout}
}

// Exchange dials the server, sends the framed query, and reads one
// framed response.
func (t *TCPTransport) Exchange(ctx context.Context, query []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	conn, err := t.dialer.DialContext(ctx, "tcp", t.server)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return exchangeStream(conn, query, deadlineFrom(ctx, t.timeout))
}

// Close is a no-op; TCP connections are per-exchange.
func (t *TCPTransport) Close() error { return nil }
