// Package wire implements the DNS wire format (RFC 1035, RFC 3596).
//
// The package is a pure codec: it decodes raw DNS messages received from a
// network into structured headers, questions, and resource records, and it
// serializes outgoing query messages into caller-supplied buffers. It performs
// no I/O, no caching, and no retries.
//
// All input is treated as untrusted. Every read goes through a bounds-checked
// [Reader], compression pointers are required to point strictly backwards so
// that name decoding always terminates, and each record's RDATA is decoded
// inside a window that must be consumed exactly. No input can cause a read
// past the buffer or a non-terminating loop.
//
// Standards implemented:
//
//   - RFC 1035: core protocol, all RFC 1035 RDATA types
//   - RFC 3596: AAAA records
//   - RFC 4343: case-insensitive name comparison
package wire
