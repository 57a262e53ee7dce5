package wire

import (
	"encoding/binary"
	"fmt"
)

// Reader is a bounds-checked, position-tracked view over a message buffer.
//
// Every byte of an incoming message is accessed through a Reader, so
// bounds checking is a property of this one type rather than of each call
// site. A Reader never reads past the buffer, and while an RDATA window is
// open it never reads past the window either.
type Reader struct {
	buf   []byte
	pos   int
	limit int // exclusive read bound; len(buf) unless a window is open
}

// NewReader returns a [Reader] over buf positioned at its start.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf, limit: len(buf)}
}

// need fails unless n more bytes can be read.
func (r *Reader) need(n int) error {
	if n < 0 || r.pos+n > r.limit {
		return fmt.Errorf("%w: need %d bytes at offset %d, %d remain", ErrEndOfBuffer, n, r.pos, r.limit-r.pos)
	}
	return nil
}

// U8 reads one byte.
func (r *Reader) U8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// U16 reads a big-endian 16-bit integer.
func (r *Reader) U16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// U32 reads a big-endian 32-bit integer.
func (r *Reader) U32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// Bytes reads n bytes and returns them as a subslice of the underlying
// buffer. The slice is valid only as long as the buffer is.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances the position by n bytes without interpreting them.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// Pos returns the current offset from the start of the buffer.
func (r *Reader) Pos() int { return r.pos }

// Seek moves the position to p, which must lie within the current bound.
func (r *Reader) Seek(p int) error {
	if p < 0 || p > r.limit {
		return fmt.Errorf("%w: seek to %d outside bound %d", ErrEndOfBuffer, p, r.limit)
	}
	r.pos = p
	return nil
}

// Remaining returns the number of bytes left before the current bound.
func (r *Reader) Remaining() int { return r.limit - r.pos }

// OpenWindow restricts reads to the next n bytes and returns the previous
// bound for the matching [Reader.CloseWindow] call. It is used to confine
// an RDATA decoder to its record's declared RDLENGTH.
func (r *Reader) OpenWindow(n int) (restore int, err error) {
	if err := r.need(n); err != nil {
		return 0, err
	}
	restore = r.limit
	r.limit = r.pos + n
	return restore, nil
}

// CloseWindow removes the window installed by [Reader.OpenWindow] and
// restores the previous bound. The position must sit exactly at the
// window's end: a decoder that consumed fewer or more bytes than the
// declared RDLENGTH would desynchronize every following record, so the
// mismatch is rejected here.
func (r *Reader) CloseWindow(restore int) error {
	if r.pos != r.limit {
		return fmt.Errorf("%w: %d bytes of rdata left unconsumed", ErrBadRData, r.limit-r.pos)
	}
	r.limit = restore
	return nil
}

// Writer is a bounds-checked writer into a caller-owned buffer.
//
// The buffer is never grown: a write past its capacity fails with
// [ErrBufferTooShort] and leaves the already-written prefix intact.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter returns a [Writer] over buf positioned at its start.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

func (w *Writer) need(n int) error {
	if w.pos+n > len(w.buf) {
		return fmt.Errorf("%w: need %d bytes at offset %d, %d remain", ErrBufferTooShort, n, w.pos, len(w.buf)-w.pos)
	}
	return nil
}

// U8 writes one byte.
func (w *Writer) U8(v uint8) error {
	if err := w.need(1); err != nil {
		return err
	}
	w.buf[w.pos] = v
	w.pos++
	return nil
}

// U16 writes a big-endian 16-bit integer.
func (w *Writer) U16(v uint16) error {
	if err := w.need(2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
	return nil
}

// U32 writes a big-endian 32-bit integer.
func (w *Writer) U32(v uint32) error {
	if err := w.need(4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
	return nil
}

// Bytes writes b verbatim.
func (w *Writer) Bytes(b []byte) error {
	if err := w.need(len(b)); err != nil {
		return err
	}
	copy(w.buf[w.pos:], b)
	w.pos += len(b)
	return nil
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.pos }
