package wire

import (
	"fmt"
	"net/netip"
)

// RData is the type-specific payload of a resource record. Each supported
// record type has its own variant; [Raw] carries the undecoded bytes of
// every other type.
type RData interface {
	// Type returns the wire type code of this variant.
	Type() Type
}

// A is an IPv4 host address (RFC 1035 Section 3.4.1).
type A struct {
	Addr netip.Addr
}

func (A) Type() Type { return TypeA }

// AAAA is an IPv6 host address (RFC 3596).
type AAAA struct {
	Addr netip.Addr
}

func (AAAA) Type() Type { return TypeAAAA }

// NS names the authoritative name server for a zone.
type NS struct {
	Host Name
}

func (NS) Type() Type { return TypeNS }

// MD names a mail destination (obsolete, RFC 1035 Section 3.3.4).
type MD struct {
	Host Name
}

func (MD) Type() Type { return TypeMD }

// MF names a mail forwarder (obsolete, RFC 1035 Section 3.3.5).
type MF struct {
	Host Name
}

func (MF) Type() Type { return TypeMF }

// CNAME names the canonical name for an alias.
type CNAME struct {
	Target Name
}

func (CNAME) Type() Type { return TypeCNAME }

// SOA marks the start of a zone of authority (RFC 1035 Section 3.3.13).
type SOA struct {
	MName   Name   // primary name server
	RName   Name   // responsible person's mailbox
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32 // negative-caching TTL bound (RFC 2308)
}

func (SOA) Type() Type { return TypeSOA }

// MB names a host holding a mailbox (experimental).
type MB struct {
	Host Name
}

func (MB) Type() Type { return TypeMB }

// MG names a mailbox that is a member of a mail group (experimental).
type MG struct {
	Mailbox Name
}

func (MG) Type() Type { return TypeMG }

// MR names the proper rename of a mailbox (experimental).
type MR struct {
	NewName Name
}

func (MR) Type() Type { return TypeMR }

// NULL carries uninterpreted bytes (experimental).
type NULL struct {
	Data []byte
}

func (NULL) Type() Type { return TypeNULL }

// WKS describes well-known services of an IPv4 host
// (RFC 1035 Section 3.4.2).
type WKS struct {
	Addr     netip.Addr
	Protocol uint8
	Bitmap   []byte // one bit per port
}

func (WKS) Type() Type { return TypeWKS }

// PTR points to another location in the domain space.
type PTR struct {
	Target Name
}

func (PTR) Type() Type { return TypePTR }

// HINFO describes host CPU and OS (RFC 1035 Section 3.3.2).
type HINFO struct {
	CPU string
	OS  string
}

func (HINFO) Type() Type { return TypeHINFO }

// MINFO names the mailboxes responsible for a mailing list
// (RFC 1035 Section 3.3.7).
type MINFO struct {
	RMailbox Name // requests
	EMailbox Name // errors
}

func (MINFO) Type() Type { return TypeMINFO }

// MX names a mail exchange with its preference (RFC 1035 Section 3.3.9).
type MX struct {
	Preference uint16
	Exchange   Name
}

func (MX) Type() Type { return TypeMX }

// TXT carries one or more character-strings (RFC 1035 Section 3.3.14).
type TXT struct {
	Strings []string
}

func (TXT) Type() Type { return TypeTXT }

// Raw holds the undecoded RDATA of a record whose type or class lies
// outside the supported set. The bytes are copied out of the message and
// never interpreted.
type Raw struct {
	RType Type
	Data  []byte
}

func (rd Raw) Type() Type { return rd.RType }

// decodeRData dispatches to the reader for t. The caller has already
// opened the RDLENGTH window on r, so every read here is confined to the
// record's declared body; the window-close check afterwards rejects
// decoders that consume too little.
func decodeRData(t Type, r *Reader) (RData, error) {
	switch t {
	case TypeA:
		b, err := r.Bytes(4)
		if err != nil {
			return nil, err
		}
		return A{Addr: netip.AddrFrom4([4]byte(b))}, nil

	case TypeAAAA:
		b, err := r.Bytes(16)
		if err != nil {
			return nil, err
		}
		return AAAA{Addr: netip.AddrFrom16([16]byte(b))}, nil

	case TypeNS:
		n, err := ParseName(r)
		return NS{Host: n}, err

	case TypeMD:
		n, err := ParseName(r)
		return MD{Host: n}, err

	case TypeMF:
		n, err := ParseName(r)
		return MF{Host: n}, err

	case TypeCNAME:
		n, err := ParseName(r)
		return CNAME{Target: n}, err

	case TypeSOA:
		return decodeSOA(r)

	case TypeMB:
		n, err := ParseName(r)
		return MB{Host: n}, err

	case TypeMG:
		n, err := ParseName(r)
		return MG{Mailbox: n}, err

	case TypeMR:
		n, err := ParseName(r)
		return MR{NewName: n}, err

	case TypeNULL:
		b, err := r.Bytes(r.Remaining())
		if err != nil {
			return nil, err
		}
		return NULL{Data: cloneBytes(b)}, nil

	case TypeWKS:
		return decodeWKS(r)

	case TypePTR:
		n, err := ParseName(r)
		return PTR{Target: n}, err

	case TypeHINFO:
		cpu, err := decodeCharacterString(r)
		if err != nil {
			return nil, err
		}
		osName, err := decodeCharacterString(r)
		if err != nil {
			return nil, err
		}
		return HINFO{CPU: cpu, OS: osName}, nil

	case TypeMINFO:
		rm, err := ParseName(r)
		if err != nil {
			return nil, err
		}
		em, err := ParseName(r)
		if err != nil {
			return nil, err
		}
		return MINFO{RMailbox: rm, EMailbox: em}, nil

	case TypeMX:
		pref, err := r.U16()
		if err != nil {
			return nil, err
		}
		n, err := ParseName(r)
		if err != nil {
			return nil, err
		}
		return MX{Preference: pref, Exchange: n}, nil

	case TypeTXT:
		return decodeTXT(r)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownRRType, uint16(t))
}

func decodeSOA(r *Reader) (SOA, error) {
	var soa SOA
	var err error
	if soa.MName, err = ParseName(r); err != nil {
		return SOA{}, err
	}
	if soa.RName, err = ParseName(r); err != nil {
		return SOA{}, err
	}
	for _, field := range []*uint32{&soa.Serial, &soa.Refresh, &soa.Retry, &soa.Expire, &soa.Minimum} {
		if *field, err = r.U32(); err != nil {
			return SOA{}, err
		}
	}
	return soa, nil
}

func decodeWKS(r *Reader) (WKS, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return WKS{}, err
	}
	proto, err := r.U8()
	if err != nil {
		return WKS{}, err
	}
	// the port bitmap runs to the end of the rdata window
	bitmap, err := r.Bytes(r.Remaining())
	if err != nil {
		return WKS{}, err
	}
	return WKS{
		Addr:     netip.AddrFrom4([4]byte(b)),
		Protocol: proto,
		Bitmap:   cloneBytes(bitmap),
	}, nil
}

// decodeTXT reads length-prefixed character-strings until the rdata
// window is exhausted. At least one string is required (RFC 1035).
func decodeTXT(r *Reader) (TXT, error) {
	var txt TXT
	for {
		s, err := decodeCharacterString(r)
		if err != nil {
			return TXT{}, err
		}
		txt.Strings = append(txt.Strings, s)
		if r.Remaining() == 0 {
			return txt, nil
		}
	}
}

// decodeCharacterString reads one <character-string>: a length octet
// followed by that many bytes.
func decodeCharacterString(r *Reader) (string, error) {
	n, err := r.U8()
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
