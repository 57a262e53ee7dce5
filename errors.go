package stubdns

import "errors"

// Resolution errors. The messages reuse the suffixes the Go standard
// library resolver produces, so callers matching on error strings keep
// working when they swap resolvers.
var (
	// ErrNoName indicates the server answered NXDOMAIN.
	ErrNoName = errors.New("no such host")

	// ErrNoData indicates a clean response with no usable answer for
	// the question that was asked.
	ErrNoData = errors.New("no answer from DNS server")

	// ErrServerMisbehaving indicates a response code that is neither
	// NOERROR, NXDOMAIN, nor SERVFAIL.
	ErrServerMisbehaving = errors.New("server misbehaving")

	// ErrServerTemporarilyMisbehaving indicates SERVFAIL. Same message
	// as ErrServerMisbehaving, matching the standard library.
	ErrServerTemporarilyMisbehaving = errors.New("server misbehaving")

	// ErrInvalidResponse indicates the response failed validation
	// against the query: wrong ID, wrong question, or not a response.
	ErrInvalidResponse = errors.New("invalid DNS response")

	// ErrNoServers indicates that no nameserver could be reached.
	ErrNoServers = errors.New("no nameservers available")
)
