package wire

import "errors"

// Sentinel errors returned by the codec. Callers match them with
// [errors.Is]; the wrapped message carries the offending value.
var (
	// ErrEndOfBuffer indicates a read past the remaining bytes of the
	// message (or past the current RDATA window).
	ErrEndOfBuffer = errors.New("dns: end of buffer")

	// ErrBufferTooShort indicates a write past the remaining capacity of
	// the caller-supplied buffer.
	ErrBufferTooShort = errors.New("dns: buffer too short")

	// ErrNameMalformed indicates a domain name that violates the wire
	// layout: reserved label bits, or a compression pointer that does not
	// point strictly backwards.
	ErrNameMalformed = errors.New("dns: malformed domain name")

	// ErrNameTooLong indicates a domain name whose encoded form exceeds
	// 255 bytes.
	ErrNameTooLong = errors.New("dns: domain name too long")

	// ErrLabelTooLong indicates a label longer than 63 bytes.
	ErrLabelTooLong = errors.New("dns: label too long")

	// ErrLabelInvalidChar indicates a label byte outside printable ASCII.
	ErrLabelInvalidChar = errors.New("dns: invalid character in label")

	// ErrUnknownRRType indicates a resource record type outside the
	// supported set.
	ErrUnknownRRType = errors.New("dns: unknown resource record type")

	// ErrUnknownQType indicates a question type outside the defined set.
	ErrUnknownQType = errors.New("dns: unknown question type")

	// ErrUnknownRRClass indicates a resource record class outside the
	// defined set.
	ErrUnknownRRClass = errors.New("dns: unknown resource record class")

	// ErrUnknownQClass indicates a question class outside the defined set.
	ErrUnknownQClass = errors.New("dns: unknown question class")

	// ErrReservedOpCode indicates an opcode outside {QUERY, IQUERY, STATUS}.
	ErrReservedOpCode = errors.New("dns: reserved opcode")

	// ErrReservedRCode indicates a response code outside {0..5}.
	ErrReservedRCode = errors.New("dns: reserved response code")

	// ErrBadSection indicates a record section read out of order or past
	// its declared count.
	ErrBadSection = errors.New("dns: bad record section")

	// ErrBadQuestionsCount indicates a response whose question count is
	// not exactly one.
	ErrBadQuestionsCount = errors.New("dns: bad questions count")

	// ErrBadRData indicates an RDATA body whose decoding consumed a
	// different number of bytes than its declared RDLENGTH.
	ErrBadRData = errors.New("dns: rdata length mismatch")
)
