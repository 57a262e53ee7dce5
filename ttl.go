package stubdns

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/jroosing/stubdns/wire"
)

// Negative caching per RFC 2308: when a response carries no usable TTL
// of its own, these bounds apply.
const (
	negativeCacheTTL = 300 * time.Second
	servfailCacheTTL = 30 * time.Second
)

// cacheTTL decides how long a validated response may be served from
// cache. Zero means the response must not be cached.
func cacheTTL(msg *wire.Message) time.Duration {
	rcode, err := msg.Header.Flags.RCode()
	if err != nil {
		return 0
	}
	switch rcode {
	case wire.RCodeServFail:
		return servfailCacheTTL
	case wire.RCodeNXDomain:
		return negativeTTL(msg)
	case wire.RCodeNoError:
		if len(msg.Answers) == 0 {
			return negativeTTL(msg)
		}
		return time.Duration(minimumTTL(msg.Answers)) * time.Second
	default:
		return 0
	}
}

// negativeTTL takes the SOA MINIMUM from the authority section, falling
// back to the RFC 2308 default when no SOA is present.
func negativeTTL(msg *wire.Message) time.Duration {
	for _, rr := range msg.Authorities {
		if soa, ok := rr.Data.(wire.SOA); ok {
			ttl := min(soa.Minimum, rr.TTL)
			if ttl > 0 {
				return time.Duration(ttl) * time.Second
			}
		}
	}
	return negativeCacheTTL
}

// minimumTTL returns the smallest non-zero TTL among the records, or 0
// when none qualifies.
func minimumTTL(records []wire.ResourceRecord) uint32 {
	minTTL := uint32(math.MaxUint32)
	found := false
	for _, rr := range records {
		if rr.TTL == 0 {
			continue
		}
		if rr.TTL < minTTL {
			minTTL = rr.TTL
			found = true
		}
	}
	if !found {
		return 0
	}
	return minTTL
}

// adjustTTLs returns a copy of a cached response with every record TTL
// decremented by the time spent in cache, floored at 1 second. The walk
// stays on the raw bytes so the cached encoding, compression pointers
// included, survives intact. A response that no longer parses is
// returned unmodified and the caller's validation will reject it.
func adjustTTLs(resp []byte, age time.Duration) []byte {
	ageSecs := uint32(age.Seconds())
	if ageSecs == 0 || len(resp) < wire.HeaderLen {
		return resp
	}

	out := make([]byte, len(resp))
	copy(out, resp)

	r := wire.NewReader(out)
	h, err := wire.ParseHeader(r)
	if err != nil {
		return resp
	}
	for i := uint16(0); i < h.QDCount; i++ {
		if _, err := wire.ParseName(r); err != nil {
			return resp
		}
		if err := r.Skip(4); err != nil { // QTYPE + QCLASS
			return resp
		}
	}

	total := int(h.ANCount) + int(h.NSCount) + int(h.ARCount)
	for i := 0; i < total; i++ {
		if _, err := wire.ParseName(r); err != nil {
			return resp
		}
		if err := r.Skip(4); err != nil { // TYPE + CLASS
			return resp
		}
		ttlPos := r.Pos()
		ttl, err := r.U32()
		if err != nil {
			return resp
		}
		newTTL := uint32(1)
		if ttl > ageSecs {
			newTTL = ttl - ageSecs
		}
		binary.BigEndian.PutUint32(out[ttlPos:ttlPos+4], newTTL)

		rdlen, err := r.U16()
		if err != nil {
			return resp
		}
		if err := r.Skip(int(rdlen)); err != nil {
			return resp
		}
	}
	return out
}

// patchTransactionID overwrites the message ID in place. Cached
// responses are stored with ID 0 and re-stamped with the live query's
// ID before validation.
func patchTransactionID(resp []byte, id uint16) []byte {
	if len(resp) >= 2 {
		binary.BigEndian.PutUint16(resp[0:2], id)
	}
	return resp
}
