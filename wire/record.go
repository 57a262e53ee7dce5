package wire

import "fmt"

// ResourceRecord is one decoded entry of an answer, authority, or
// additional section.
//
// Records whose type or class lies outside the supported set are retained
// with their RDATA as [Raw]: the declared RDLENGTH lets the parser step
// over them structurally, so an exotic record never aborts the parse of
// the records that follow it.
type ResourceRecord struct {
	Name  Name
	Class Class
	TTL   uint32 // seconds; 0 means do not cache
	Data  RData
}

// ParseRecord reads one resource record at the reader's position.
//
// The RDATA body is decoded inside an exact RDLENGTH window: a decoder
// that consumes a different number of bytes than declared fails the record
// with [ErrBadRData] instead of desynchronizing every following offset.
func ParseRecord(r *Reader) (ResourceRecord, error) {
	name, err := ParseName(r)
	if err != nil {
		return ResourceRecord{}, err
	}
	rtype, err := r.U16()
	if err != nil {
		return ResourceRecord{}, err
	}
	class, err := r.U16()
	if err != nil {
		return ResourceRecord{}, err
	}
	ttl, err := r.U32()
	if err != nil {
		return ResourceRecord{}, err
	}
	rdlen, err := r.U16()
	if err != nil {
		return ResourceRecord{}, err
	}

	rr := ResourceRecord{Name: name, Class: Class(class), TTL: ttl}

	// Unknown types and classes are structurally skipped: their bytes are
	// kept but never interpreted. EDNS OPT pseudo-records land here too,
	// since OPT reuses the class field for payload size.
	if !Type(rtype).Known() || !Class(class).Known() {
		body, err := r.Bytes(int(rdlen))
		if err != nil {
			return ResourceRecord{}, err
		}
		rr.Data = Raw{RType: Type(rtype), Data: cloneBytes(body)}
		return rr, nil
	}

	restore, err := r.OpenWindow(int(rdlen))
	if err != nil {
		return ResourceRecord{}, err
	}
	data, err := decodeRData(Type(rtype), r)
	if err != nil {
		return ResourceRecord{}, fmt.Errorf("decoding %v rdata for %v: %w", Type(rtype), name, err)
	}
	if err := r.CloseWindow(restore); err != nil {
		return ResourceRecord{}, fmt.Errorf("%v record for %v: %w", Type(rtype), name, err)
	}
	rr.Data = data
	return rr, nil
}

// skipRecord advances past one record, decoding only its name and fixed
// fields and stepping over the RDATA by its declared length.
func skipRecord(r *Reader) error {
	if _, err := ParseName(r); err != nil {
		return err
	}
	if err := r.Skip(8); err != nil { // TYPE + CLASS + TTL
		return err
	}
	rdlen, err := r.U16()
	if err != nil {
		return err
	}
	return r.Skip(int(rdlen))
}
