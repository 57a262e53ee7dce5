package stubdns

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/jroosing/stubdns/internal/pool"
)

// UDPTransport exchanges DNS messages over UDP with a single server.
//
// Connections are pooled so that repeated queries skip the dial. A
// broken connection is discarded rather than returned. Receive buffers
// come from a sync.Pool sized to the configured receive size, so the
// hot path does not allocate per query.
type UDPTransport struct {
	server   string
	timeout  time.Duration
	recvSize int

	bufs *pool.Pool[[]byte]

	mu     sync.Mutex
	conns  chan *net.UDPConn
	closed bool
}

// NewUDPTransport creates a UDP transport for server ("host:port").
// poolSize bounds the number of idle connections kept between queries.
func NewUDPTransport(server string, timeout time.Duration, recvSize, poolSize int) *UDPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if recvSize <= 0 {
		recvSize = DefaultRecvSize
	}
	if poolSize <= 0 {
		poolSize = DefaultUDPPoolSize
	}
	return &UDPTransport{
		server:   server,
		timeout:  timeout,
		recvSize: recvSize,
		bufs:     pool.NewBytes(recvSize),
		conns:    make(chan *net.UDPConn, poolSize),
	}
}

// Exchange sends query and returns the raw response datagram.
func (t *UDPTransport) Exchange(ctx context.Context, query []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := t.acquire()
	if err != nil {
		return nil, err
	}

	connOK := true
	defer func() { t.release(c, connOK) }()

	_ = c.SetDeadline(deadlineFrom(ctx, t.timeout))

	if _, err := c.Write(query); err != nil {
		connOK = false
		return nil, err
	}

	buf := t.bufs.Get()
	defer t.bufs.Put(buf)
	n, err := c.Read(buf)
	if err != nil {
		connOK = false
		return nil, err
	}

	// The pooled buffer outlives this call, so the response is copied out.
	resp := make([]byte, n)
	copy(resp, buf[:n])
	return resp, nil
}

// Close drains and closes all pooled connections.
func (t *UDPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.conns)
	for c := range t.conns {
		_ = c.Close()
	}
	return nil
}

func (t *UDPTransport) acquire() (*net.UDPConn, error) {
	select {
	case c, ok := <-t.conns:
		if ok {
			return c, nil
		}
	default:
	}
	addr, err := net.ResolveUDPAddr("udp", t.server)
	if err != nil {
		return nil, err
	}
	return net.DialUDP("udp", nil, addr)
}

func (t *UDPTransport) release(c *net.UDPConn, connOK bool) {
	if !connOK {
		_ = c.Close()
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		_ = c.Close()
		return
	}
	select {
	case t.conns <- c:
	default:
		_ = c.Close() // pool full
	}
}
