// Package stubdns is a DNS stub resolver.
//
// A stub resolver forwards queries to configured recursive nameservers
// rather than resolving iteratively itself. This package joins the wire
// codec in [github.com/jroosing/stubdns/wire] with pluggable transports
// (UDP, TCP, DNS over TLS), nameserver discovery from resolv.conf and the
// environment, response validation, and TTL-aware caching.
//
// The zero-configuration path:
//
//	r, err := stubdns.New(stubdns.DefaultConfig())
//	if err != nil { ... }
//	defer r.Close()
//	addrs, err := r.LookupA(ctx, "example.com")
//
// All policy that the codec deliberately does not own lives here: retrying
// a truncated UDP response over TCP, matching responses to queries, and
// mapping response codes to errors.
package stubdns
