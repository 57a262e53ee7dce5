package wire

import (
	"fmt"
	"strings"
)

const (
	// MaxLabelLen is the maximum length of a single label (RFC 1035).
	MaxLabelLen = 63

	// MaxNameLen is the maximum encoded length of a domain name, counting
	// label bytes and length octets but not the trailing root octet.
	MaxNameLen = 255
)

// Name is a domain name as an ordered sequence of labels.
//
// The zero value is the root name. Two names are equal when their label
// sequences match ASCII case-insensitively (RFC 4343); use [Name.Equal],
// not ==.
type Name struct {
	labels []string
}

// NewName parses a dotted domain name such as "host.example.com" or
// "host.example.com.". The empty string and "." denote the root.
func NewName(s string) (Name, error) {
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return Name{}, nil
	}
	labels := strings.Split(s, ".")
	total := 0
	for _, label := range labels {
		if label == "" {
			return Name{}, fmt.Errorf("%w: empty label in %q", ErrNameMalformed, s)
		}
		if err := checkLabel(label); err != nil {
			return Name{}, err
		}
		total += 1 + len(label)
	}
	if total > MaxNameLen {
		return Name{}, fmt.Errorf("%w: %d bytes encoded", ErrNameTooLong, total)
	}
	return Name{labels: labels}, nil
}

// checkLabel validates a single label for encoding.
func checkLabel(label string) error {
	if len(label) > MaxLabelLen {
		return fmt.Errorf("%w: %q is %d bytes", ErrLabelTooLong, label, len(label))
	}
	for i := 0; i < len(label); i++ {
		if label[i] < '!' || label[i] > '~' {
			return fmt.Errorf("%w: byte 0x%02x in label %q", ErrLabelInvalidChar, label[i], label)
		}
	}
	return nil
}

// IsRoot reports whether n is the root name.
func (n Name) IsRoot() bool { return len(n.labels) == 0 }

// Labels returns the label sequence. The returned slice must not be
// modified.
func (n Name) Labels() []string { return n.labels }

// String renders the name in dotted form with a trailing dot; the root
// renders as ".".
func (n Name) String() string {
	if len(n.labels) == 0 {
		return "."
	}
	return strings.Join(n.labels, ".") + "."
}

// Equal reports whether two names have the same label sequence, compared
// ASCII case-insensitively.
func (n Name) Equal(other Name) bool {
	if len(n.labels) != len(other.labels) {
		return false
	}
	for i := range n.labels {
		if !strings.EqualFold(n.labels[i], other.labels[i]) {
			return false
		}
	}
	return true
}

// EncodedLen returns the number of bytes the uncompressed wire form of n
// occupies, including the trailing root octet.
func (n Name) EncodedLen() int {
	total := 1
	for _, label := range n.labels {
		total += 1 + len(label)
	}
	return total
}

// WriteTo encodes the name without compression: each label prefixed by its
// length octet, terminated by the root octet. Outgoing queries always use
// the expanded form.
func (n Name) WriteTo(w *Writer) error {
	for _, label := range n.labels {
		if err := checkLabel(label); err != nil {
			return err
		}
		if err := w.U8(uint8(len(label))); err != nil {
			return err
		}
		if err := w.Bytes([]byte(label)); err != nil {
			return err
		}
	}
	return w.U8(0)
}

// Label-octet control bits (RFC 1035 Section 4.1.4). The top two bits of a
// length octet select between a plain label (00) and a compression pointer
// (11); the patterns 01 and 10 are reserved.
const (
	labelControlMask = 0xC0
	labelPointer     = 0xC0
)

// ParseName decodes a possibly-compressed domain name at the reader's
// position, leaving the reader just past the name's in-place bytes (for a
// compressed name, just past the two pointer octets).
//
// A compression pointer is followed on a local cursor over the full
// message: pointer targets may legitimately precede the current RDATA
// window, so the chase is bounded not by the window but by the rule that
// every target must be strictly lower than the lowest offset already
// visited during this decode. That monotonic descent guarantees
// termination on any input without visited-set bookkeeping.
func ParseName(r *Reader) (Name, error) {
	var labels []string
	total := 0

	// lowest offset visited so far; only a pointer may lower it
	lowest := r.Pos()

	// off < 0 means we are still reading sequentially through r;
	// afterwards we walk the raw message at off.
	msg := r.buf
	off := -1

	readByte := func() (byte, error) {
		if off < 0 {
			return r.U8()
		}
		if off >= len(msg) {
			return 0, fmt.Errorf("%w: name runs past message end", ErrEndOfBuffer)
		}
		b := msg[off]
		off++
		return b, nil
	}

	for {
		b, err := readByte()
		if err != nil {
			return Name{}, err
		}

		switch {
		case b == 0:
			return Name{labels: labels}, nil

		case b&labelControlMask == 0:
			n := int(b)
			total += 1 + n
			if total > MaxNameLen {
				return Name{}, fmt.Errorf("%w: exceeds %d bytes before root", ErrNameTooLong, MaxNameLen)
			}
			var raw []byte
			if off < 0 {
				raw, err = r.Bytes(n)
				if err != nil {
					return Name{}, err
				}
			} else {
				if off+n > len(msg) {
					return Name{}, fmt.Errorf("%w: label runs past message end", ErrEndOfBuffer)
				}
				raw = msg[off : off+n]
				off += n
			}
			for _, c := range raw {
				if c < '!' || c > '~' {
					return Name{}, fmt.Errorf("%w: byte 0x%02x", ErrLabelInvalidChar, c)
				}
			}
			labels = append(labels, string(raw))

		case b&labelControlMask == labelPointer:
			lo, err := readByte()
			if err != nil {
				return Name{}, err
			}
			target := int(b&^labelControlMask)<<8 | int(lo)
			if target >= lowest {
				return Name{}, fmt.Errorf("%w: pointer to %d does not point backwards (lowest visited %d)", ErrNameMalformed, target, lowest)
			}
			lowest = target
			off = target

		default:
			return Name{}, fmt.Errorf("%w: reserved label bits 0x%02x", ErrNameMalformed, b&labelControlMask)
		}
	}
}
