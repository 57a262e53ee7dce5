package wire

import (
	"errors"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		ID:      0x1234,
		Flags:   Flags(0x8180), // response, RD, RA, NOERROR
		QDCount: 1,
		ANCount: 2,
		NSCount: 3,
		ARCount: 4,
	}

	buf := make([]byte, HeaderLen)
	w := NewWriter(buf)
	if err := h.WriteTo(w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Len() != HeaderLen {
		t.Fatalf("expected %d bytes, got %d", HeaderLen, w.Len())
	}

	exp := []byte{
		0x12, 0x34,
		0x81, 0x80,
		0x00, 0x01,
		0x00, 0x02,
		0x00, 0x03,
		0x00, 0x04,
	}
	for i := range exp {
		if buf[i] != exp[i] {
			t.Errorf("byte %d: expected %02x, got %02x", i, exp[i], buf[i])
		}
	}

	parsed, err := ParseHeader(NewReader(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != h {
		t.Errorf("round trip mismatch: %+v vs %+v", parsed, h)
	}
}

func TestParseHeaderShort(t *testing.T) {
	_, err := ParseHeader(NewReader(make([]byte, HeaderLen-1)))
	if !errors.Is(err, ErrEndOfBuffer) {
		t.Fatalf("expected ErrEndOfBuffer, got %v", err)
	}
}

func TestFlagsAccessors(t *testing.T) {
	f := Flags(0x8580) // QR, AA, RD... check each bit
	if !f.Response() {
		t.Error("expected QR set")
	}
	if !f.Authoritative() {
		t.Error("expected AA set")
	}
	if f.Truncated() {
		t.Error("expected TC clear")
	}
	if !f.RecursionDesired() {
		t.Error("expected RD set")
	}
	if !f.RecursionAvailable() {
		t.Error("expected RA set")
	}
	if f.Zero() != 0 {
		t.Errorf("expected Z clear, got %d", f.Zero())
	}

	op, err := f.OpCode()
	if err != nil || op != OpCodeQuery {
		t.Errorf("expected QUERY, got %v (%v)", op, err)
	}
	rc, err := f.RCode()
	if err != nil || rc != RCodeNoError {
		t.Errorf("expected NOERROR, got %v (%v)", rc, err)
	}
}

func TestFlagsReservedOpCode(t *testing.T) {
	for op := uint16(3); op <= 15; op++ {
		f := Flags(op << 11)
		if _, err := f.OpCode(); !errors.Is(err, ErrReservedOpCode) {
			t.Errorf("opcode %d: expected ErrReservedOpCode, got %v", op, err)
		}
	}
}

func TestFlagsReservedRCode(t *testing.T) {
	for rc := uint16(6); rc <= 15; rc++ {
		f := Flags(rc)
		if _, err := f.RCode(); !errors.Is(err, ErrReservedRCode) {
			t.Errorf("rcode %d: expected ErrReservedRCode, got %v", rc, err)
		}
	}
}

func TestNewQueryFlags(t *testing.T) {
	f := NewQueryFlags(true)
	if f.Response() || !f.RecursionDesired() {
		t.Errorf("unexpected flags %04x", uint16(f))
	}
	f = NewQueryFlags(false)
	if uint16(f) != 0 {
		t.Errorf("expected zero flags, got %04x", uint16(f))
	}
}
