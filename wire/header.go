package wire

import "fmt"

// HeaderLen is the fixed size of a DNS message header in bytes.
const HeaderLen = 12

// Header flag masks (RFC 1035 Section 4.1.1).
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|QR|   Opcode  |AA|TC|RD|RA|   Z    |   RCODE   |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	 15 14 13 12 11 10  9  8  7  6  5  4  3  2  1  0
const (
	flagQR     uint16 = 0x8000 // 0 = query, 1 = response
	maskOpcode uint16 = 0x7800 // bits 14-11
	flagAA     uint16 = 0x0400 // authoritative answer
	flagTC     uint16 = 0x0200 // truncated
	flagRD     uint16 = 0x0100 // recursion desired
	flagRA     uint16 = 0x0080 // recursion available
	maskZ      uint16 = 0x0070 // reserved, must be zero
	maskRCode  uint16 = 0x000F // bits 3-0
)

// Flags is the packed 16-bit flags field of the message header.
type Flags uint16

// NewQueryFlags returns the flags for an outgoing standard query.
func NewQueryFlags(recursionDesired bool) Flags {
	f := Flags(0)
	if recursionDesired {
		f |= Flags(flagRD)
	}
	return f
}

// Response reports whether the QR bit is set (1 = response).
func (f Flags) Response() bool { return uint16(f)&flagQR != 0 }

// Authoritative reports whether the AA bit is set.
func (f Flags) Authoritative() bool { return uint16(f)&flagAA != 0 }

// Truncated reports whether the TC bit is set. A truncated response
// signals the transport layer to retry over TCP.
func (f Flags) Truncated() bool { return uint16(f)&flagTC != 0 }

// RecursionDesired reports whether the RD bit is set.
func (f Flags) RecursionDesired() bool { return uint16(f)&flagRD != 0 }

// RecursionAvailable reports whether the RA bit is set.
func (f Flags) RecursionAvailable() bool { return uint16(f)&flagRA != 0 }

// Zero returns the reserved Z bits.
func (f Flags) Zero() uint8 { return uint8((uint16(f) & maskZ) >> 4) }

// OpCode extracts the operation code, failing with [ErrReservedOpCode]
// when the wire value lies outside the defined set.
func (f Flags) OpCode() (OpCode, error) {
	op := OpCode((uint16(f) & maskOpcode) >> 11)
	if op > OpCodeStatus {
		return 0, fmt.Errorf("%w: %d", ErrReservedOpCode, uint8(op))
	}
	return op, nil
}

// RCode extracts the response code, failing with [ErrReservedRCode] when
// the wire value lies outside the defined set.
func (f Flags) RCode() (RCode, error) {
	rc := RCode(uint16(f) & maskRCode)
	if rc > RCodeRefused {
		return 0, fmt.Errorf("%w: %d", ErrReservedRCode, uint8(rc))
	}
	return rc, nil
}

// Header is the fixed 12-byte DNS message header (RFC 1035 Section 4.1.1).
//
// The four counts declare how many entries each section carries; the
// message parser reads exactly that many and fails if the buffer runs out
// first, rather than silently returning a short list.
type Header struct {
	ID      uint16
	Flags   Flags
	QDCount uint16 // questions
	ANCount uint16 // answer records
	NSCount uint16 // authority records
	ARCount uint16 // additional records
}

// ParseHeader reads the six big-endian 16-bit header fields.
func ParseHeader(r *Reader) (Header, error) {
	var h Header
	var err error
	var flags uint16
	if h.ID, err = r.U16(); err != nil {
		return Header{}, err
	}
	if flags, err = r.U16(); err != nil {
		return Header{}, err
	}
	h.Flags = Flags(flags)
	if h.QDCount, err = r.U16(); err != nil {
		return Header{}, err
	}
	if h.ANCount, err = r.U16(); err != nil {
		return Header{}, err
	}
	if h.NSCount, err = r.U16(); err != nil {
		return Header{}, err
	}
	if h.ARCount, err = r.U16(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// WriteTo serializes the header.
func (h Header) WriteTo(w *Writer) error {
	for _, v := range [6]uint16{h.ID, uint16(h.Flags), h.QDCount, h.ANCount, h.NSCount, h.ARCount} {
		if err := w.U16(v); err != nil {
			return err
		}
	}
	return nil
}
