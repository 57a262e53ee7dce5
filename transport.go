package stubdns

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/jroosing/stubdns/internal/helpers"
	"github.com/jroosing/stubdns/wire"
)

// Transport carries one DNS exchange: it sends the serialized query and
// returns the raw response bytes. Implementations do no DNS-level
// validation; that is the resolver's job.
type Transport interface {
	// Exchange sends query and returns the response. The context bounds
	// the whole exchange, including dialing.
	Exchange(ctx context.Context, query []byte) ([]byte, error)

	// Close releases any pooled or long-lived resources.
	Close() error
}

// deadlineFrom combines a per-transport timeout with the context
// deadline, whichever comes first.
func deadlineFrom(ctx context.Context, timeout time.Duration) time.Time {
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	return deadline
}

// exchangeStream performs one framed DNS exchange over an established
// stream (TCP or TLS).
//
// Stream DNS message format (RFC 1035 section 4.2.2):
//
//	+--+--+
//	|Length| 2 bytes, big-endian message length
//	+--+--+
//	|      |
//	| DNS  | Variable length DNS message
//	|      |
//	+------+
func exchangeStream(conn net.Conn, query []byte, deadline time.Time) ([]byte, error) {
	_ = conn.SetDeadline(deadline)

	// Two writes avoid allocating a prefix+query copy.
	var prefix [2]byte
	binary.BigEndian.PutUint16(prefix[:], helpers.ClampIntToUint16(len(query)))
	if _, err := conn.Write(prefix[:]); err != nil {
		return nil, err
	}
	if _, err := conn.Write(query); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(conn, prefix[:]); err != nil {
		return nil, err
	}
	respLen := int(binary.BigEndian.Uint16(prefix[:]))
	if respLen < wire.HeaderLen {
		return nil, fmt.Errorf("%w: stream response length %d", ErrInvalidResponse, respLen)
	}

	resp := make([]byte, respLen)
	if _, err := io.ReadFull(conn, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
