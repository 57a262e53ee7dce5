package wire

import "fmt"

// TypedRecord is a resource record whose RDATA has the concrete type T.
type TypedRecord[T RData] struct {
	Name  Name
	Class Class
	TTL   uint32
	Data  T
}

// RecordsOf parses the message in buf and extracts, in on-wire order, the
// records of every section whose type code matches T.
//
// Records of other types are stepped over using their declared RDLENGTH;
// their RDATA bytes are never interpreted, so a message carrying exotic or
// unsupported record types still yields its records of type T. The scan
// still enforces the structural rules: section order, declared counts, and
// exact RDATA windows for the matching records.
func RecordsOf[T RData](buf []byte) ([]TypedRecord[T], error) {
	var zero T
	want := zero.Type()

	r := NewReader(buf)
	h, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}

	for i := uint16(0); i < h.QDCount; i++ {
		if err := skipQuestion(r); err != nil {
			return nil, err
		}
	}

	var out []TypedRecord[T]
	tracker := NewSectionTracker(h)
	for {
		s, ok := tracker.Next()
		if !ok {
			break
		}
		rec, matched, err := parseRecordOf[T](r, want)
		if err != nil {
			return nil, fmt.Errorf("%v section: %w", s, err)
		}
		if err := tracker.Read(s); err != nil {
			return nil, err
		}
		if matched {
			out = append(out, rec)
		}
	}
	return out, nil
}

// parseRecordOf reads one record, decoding its RDATA only when the type
// code matches want.
func parseRecordOf[T RData](r *Reader, want Type) (rec TypedRecord[T], matched bool, err error) {
	name, err := ParseName(r)
	if err != nil {
		return rec, false, err
	}
	rtype, err := r.U16()
	if err != nil {
		return rec, false, err
	}
	class, err := r.U16()
	if err != nil {
		return rec, false, err
	}
	ttl, err := r.U32()
	if err != nil {
		return rec, false, err
	}
	rdlen, err := r.U16()
	if err != nil {
		return rec, false, err
	}

	if Type(rtype) != want {
		return rec, false, r.Skip(int(rdlen))
	}

	restore, err := r.OpenWindow(int(rdlen))
	if err != nil {
		return rec, false, err
	}
	data, err := decodeRData(want, r)
	if err != nil {
		return rec, false, err
	}
	if err := r.CloseWindow(restore); err != nil {
		return rec, false, err
	}

	rec = TypedRecord[T]{
		Name:  name,
		Class: Class(class),
		TTL:   ttl,
		Data:  data.(T),
	}
	return rec, true, nil
}
