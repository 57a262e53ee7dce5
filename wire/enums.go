package wire

import "fmt"

// Type identifies a resource record type (RFC 1035 Section 3.2.2,
// RFC 3596 for AAAA).
type Type uint16

const (
	TypeA     Type = 1  // host address
	TypeNS    Type = 2  // authoritative name server
	TypeMD    Type = 3  // mail destination (obsolete, use MX)
	TypeMF    Type = 4  // mail forwarder (obsolete, use MX)
	TypeCNAME Type = 5  // canonical name for an alias
	TypeSOA   Type = 6  // start of a zone of authority
	TypeMB    Type = 7  // mailbox domain name
	TypeMG    Type = 8  // mail group member
	TypeMR    Type = 9  // mail rename domain name
	TypeNULL  Type = 10 // null record
	TypeWKS   Type = 11 // well known service description
	TypePTR   Type = 12 // domain name pointer
	TypeHINFO Type = 13 // host information
	TypeMINFO Type = 14 // mailbox or mail list information
	TypeMX    Type = 15 // mail exchange
	TypeTXT   Type = 16 // text strings
	TypeAAAA  Type = 28 // IPv6 host address (RFC 3596)
)

// Known reports whether t has a registered RDATA decoder.
func (t Type) Known() bool {
	return (t >= TypeA && t <= TypeTXT) || t == TypeAAAA
}

func (t Type) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeNS:
		return "NS"
	case TypeMD:
		return "MD"
	case TypeMF:
		return "MF"
	case TypeCNAME:
		return "CNAME"
	case TypeSOA:
		return "SOA"
	case TypeMB:
		return "MB"
	case TypeMG:
		return "MG"
	case TypeMR:
		return "MR"
	case TypeNULL:
		return "NULL"
	case TypeWKS:
		return "WKS"
	case TypePTR:
		return "PTR"
	case TypeHINFO:
		return "HINFO"
	case TypeMINFO:
		return "MINFO"
	case TypeMX:
		return "MX"
	case TypeTXT:
		return "TXT"
	case TypeAAAA:
		return "AAAA"
	}
	return fmt.Sprintf("TYPE%d", uint16(t))
}

// Class identifies a resource record class (RFC 1035 Section 3.2.4).
type Class uint16

const (
	ClassIN Class = 1 // Internet
	ClassCS Class = 2 // CSNET (obsolete)
	ClassCH Class = 3 // Chaos
	ClassHS Class = 4 // Hesiod
)

// Known reports whether c is one of the defined record classes.
func (c Class) Known() bool {
	return c >= ClassIN && c <= ClassHS
}

func (c Class) String() string {
	switch c {
	case ClassIN:
		return "IN"
	case ClassCS:
		return "CS"
	case ClassCH:
		return "CH"
	case ClassHS:
		return "HS"
	}
	return fmt.Sprintf("CLASS%d", uint16(c))
}

// QType identifies a question type: any record [Type] plus the QTYPE-only
// codes (RFC 1035 Section 3.2.3).
type QType uint16

const (
	QTypeA     = QType(TypeA)
	QTypeNS    = QType(TypeNS)
	QTypeMD    = QType(TypeMD)
	QTypeMF    = QType(TypeMF)
	QTypeCNAME = QType(TypeCNAME)
	QTypeSOA   = QType(TypeSOA)
	QTypeMB    = QType(TypeMB)
	QTypeMG    = QType(TypeMG)
	QTypeMR    = QType(TypeMR)
	QTypeNULL  = QType(TypeNULL)
	QTypeWKS   = QType(TypeWKS)
	QTypePTR   = QType(TypePTR)
	QTypeHINFO = QType(TypeHINFO)
	QTypeMINFO = QType(TypeMINFO)
	QTypeMX    = QType(TypeMX)
	QTypeTXT   = QType(TypeTXT)
	QTypeAAAA  = QType(TypeAAAA)

	QTypeAXFR  QType = 252 // transfer of an entire zone
	QTypeMAILB QType = 253 // mailbox-related records (MB, MG, MR)
	QTypeMAILA QType = 254 // mail agent records (obsolete, see MX)
	QTypeANY   QType = 255 // all records
)

// Known reports whether t is a defined QTYPE value.
func (t QType) Known() bool {
	return Type(t).Known() || (t >= QTypeAXFR && t <= QTypeANY)
}

func (t QType) String() string {
	if t >= QTypeAXFR && t <= QTypeANY {
		switch t {
		case QTypeAXFR:
			return "AXFR"
		case QTypeMAILB:
			return "MAILB"
		case QTypeMAILA:
			return "MAILA"
		default:
			return "ANY"
		}
	}
	return Type(t).String()
}

// QClass identifies a question class: any record [Class] plus the ANY
// wildcard (RFC 1035 Section 3.2.5).
type QClass uint16

const (
	QClassIN  = QClass(ClassIN)
	QClassCS  = QClass(ClassCS)
	QClassCH  = QClass(ClassCH)
	QClassHS  = QClass(ClassHS)
	QClassANY QClass = 255 // any class
)

// Known reports whether c is a defined QCLASS value.
func (c QClass) Known() bool {
	return Class(c).Known() || c == QClassANY
}

func (c QClass) String() string {
	if c == QClassANY {
		return "ANY"
	}
	return Class(c).String()
}

// OpCode is the 4-bit operation code in the header flags
// (RFC 1035 Section 4.1.1).
type OpCode uint8

const (
	OpCodeQuery  OpCode = 0 // standard query
	OpCodeIQuery OpCode = 1 // inverse query (obsolete)
	OpCodeStatus OpCode = 2 // server status request
)

func (o OpCode) String() string {
	switch o {
	case OpCodeQuery:
		return "QUERY"
	case OpCodeIQuery:
		return "IQUERY"
	case OpCodeStatus:
		return "STATUS"
	}
	return fmt.Sprintf("OPCODE%d", uint8(o))
}

// RCode is the 4-bit response code in the header flags
// (RFC 1035 Section 4.1.1).
type RCode uint8

const (
	RCodeNoError  RCode = 0 // no error
	RCodeFormErr  RCode = 1 // format error: server could not interpret the query
	RCodeServFail RCode = 2 // server failure
	RCodeNXDomain RCode = 3 // name error: domain does not exist
	RCodeNotImp   RCode = 4 // not implemented
	RCodeRefused  RCode = 5 // refused by policy
)

func (rc RCode) String() string {
	switch rc {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormErr:
		return "FORMERR"
	case RCodeServFail:
		return "SERVFAIL"
	case RCodeNXDomain:
		return "NXDOMAIN"
	case RCodeNotImp:
		return "NOTIMP"
	case RCodeRefused:
		return "REFUSED"
	}
	return fmt.Sprintf("RCODE%d", uint8(rc))
}
