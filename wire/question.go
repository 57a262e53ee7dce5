package wire

import "fmt"

// Question is a single question-section entry (RFC 1035 Section 4.1.2).
type Question struct {
	Name  Name
	Type  QType
	Class QClass
}

// ParseQuestion reads one question at the reader's position. QTYPE and
// QCLASS are validated against their defined value sets; out-of-range
// values fail with the raw value in the error.
func ParseQuestion(r *Reader) (Question, error) {
	name, err := ParseName(r)
	if err != nil {
		return Question{}, err
	}
	qt, err := r.U16()
	if err != nil {
		return Question{}, err
	}
	if !QType(qt).Known() {
		return Question{}, fmt.Errorf("%w: %d", ErrUnknownQType, qt)
	}
	qc, err := r.U16()
	if err != nil {
		return Question{}, err
	}
	if !QClass(qc).Known() {
		return Question{}, fmt.Errorf("%w: %d", ErrUnknownQClass, qc)
	}
	return Question{Name: name, Type: QType(qt), Class: QClass(qc)}, nil
}

// skipQuestion advances past one question without validating its
// enumerated fields, for scans that only care about record sections.
func skipQuestion(r *Reader) error {
	if _, err := ParseName(r); err != nil {
		return err
	}
	return r.Skip(4) // QTYPE + QCLASS
}

// WriteTo serializes the question with an uncompressed name.
func (q Question) WriteTo(w *Writer) error {
	if err := q.Name.WriteTo(w); err != nil {
		return err
	}
	if err := w.U16(uint16(q.Type)); err != nil {
		return err
	}
	return w.U16(uint16(q.Class))
}
