package stubdns

import (
	"context"
	"crypto/tls"
	"net"
	"time"
)

// TLSTransport exchanges DNS messages over TLS (DNS over TLS, RFC 7858).
// Framing on the stream is identical to plain TCP.
type TLSTransport struct {
	server  string
	timeout time.Duration
	dialer  *tls.Dialer
}

// NewTLSConfig returns the TLS configuration for DNS over TLS against
// the given server name.
func NewTLSConfig(serverName string) *tls.Config {
	return &tls.Config{
		NextProtos: []string{"dot"},
		ServerName: serverName,
	}
}

// NewTLSTransport creates a DNS-over-TLS transport for server
// ("host:port", conventionally port 853). serverName is the name
// verified against the server certificate; when empty, the host part
// of server is used.
func NewTLSTransport(server, serverName string, timeout time.Duration) *TLSTransport {
	if timeout <= 0 {
		timeout = DefaultTCPTimeout
	}
	if serverName == "" {
		if host, _, err := net.SplitHostPort(server); err == nil {
			serverName = host
		}
	}
	return &TLSTransport{
		server:  server,
		timeout: timeout,
		dialer: &tls.Dialer{
			NetDialer: &net.Dialer{},
			Config:    NewTLSConfig(serverName),
		},
	}
}

// Exchange dials a TLS session, sends the framed query, and reads one
// framed response. The handshake counts against the timeout.
func (t *TLSTransport) Exchange(ctx context.Context, query []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	conn, err := t.dialer.DialContext(ctx, "tcp", t.server)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return exchangeStream(conn, query, deadlineFrom(ctx, t.timeout))
}

// Close is a no-op; TLS sessions are per-exchange.
func (t *TLSTransport) Close() error { return nil }
