package wire

import (
	"crypto/rand"
	"fmt"
	"io"
)

// QueryWriter assembles outgoing single-question query messages.
//
// The transaction ID comes from the Rand source injected at construction,
// never from a hidden global: unpredictable IDs are part of the defense
// against off-path response spoofing, and making the source explicit keeps
// that property reviewable and the output deterministic under test.
type QueryWriter struct {
	rand io.Reader
}

// NewQueryWriter returns a [QueryWriter] drawing transaction IDs from
// rng. A nil rng selects [crypto/rand].
func NewQueryWriter(rng io.Reader) QueryWriter {
	if rng == nil {
		rng = rand.Reader
	}
	return QueryWriter{rand: rng}
}

// WriteQuery serializes a complete query message into buf: a header with
// a fresh transaction ID, QDCOUNT 1 and the RD flag per recursionDesired,
// followed by the single question with an uncompressed name. It returns
// the number of bytes written.
func (qw QueryWriter) WriteQuery(buf []byte, q Question, recursionDesired bool) (int, error) {
	id, err := qw.nextID()
	if err != nil {
		return 0, err
	}
	return qw.WriteQueryID(buf, id, q, recursionDesired)
}

// WriteQueryID is [QueryWriter.WriteQuery] with a caller-chosen
// transaction ID.
func (qw QueryWriter) WriteQueryID(buf []byte, id uint16, q Question, recursionDesired bool) (int, error) {
	w := NewWriter(buf)
	h := Header{
		ID:      id,
		Flags:   NewQueryFlags(recursionDesired),
		QDCount: 1,
	}
	if err := h.WriteTo(w); err != nil {
		return 0, err
	}
	if err := q.WriteTo(w); err != nil {
		return 0, err
	}
	return w.Len(), nil
}

// nextID draws a 16-bit transaction ID from the randomness source.
func (qw QueryWriter) nextID() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(qw.rand, b[:]); err != nil {
		return 0, fmt.Errorf("drawing query id: %w", err)
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}
