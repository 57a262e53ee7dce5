package stubdns

import (
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/stubdns/wire"
)

// packResponse builds a compressed response for the TTL walk tests.
func packResponse(t *testing.T, mutate func(*dns.Msg)) []byte {
	t.Helper()
	m := new(dns.Msg)
	m.Id = 0x7777
	m.Response = true
	m.Question = []dns.Question{{Name: "example.com.", Qtype: dns.TypeA, Qclass: dns.ClassINET}}
	if mutate != nil {
		mutate(m)
	}
	b, err := m.Pack()
	require.NoError(t, err)
	return b
}

func TestAdjustTTLsDecrements(t *testing.T) {
	raw := packResponse(t, func(m *dns.Msg) {
		m.Answer = []dns.RR{
			&dns.A{Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 300},
				A: net.IPv4(192, 0, 2, 1).To4()},
		}
		m.Ns = []dns.RR{
			&dns.NS{Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: 3600},
				Ns: "ns1.example.com."},
		}
	})

	adjusted := adjustTTLs(raw, 100*time.Second)
	msg, err := wire.ParseResponse(adjusted)
	require.NoError(t, err)
	assert.Equal(t, uint32(200), msg.Answers[0].TTL)
	assert.Equal(t, uint32(3500), msg.Authorities[0].TTL)

	// the original bytes stay untouched
	orig, err := wire.ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, uint32(300), orig.Answers[0].TTL)
}

func TestAdjustTTLsFloorsAtOne(t *testing.T) {
	raw := packResponse(t, func(m *dns.Msg) {
		m.Answer = []dns.RR{
			&dns.A{Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 30},
				A: net.IPv4(192, 0, 2, 1).To4()},
		}
	})

	adjusted := adjustTTLs(raw, time.Hour)
	msg, err := wire.ParseResponse(adjusted)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), msg.Answers[0].TTL)
}

func TestAdjustTTLsZeroAgeIsNoop(t *testing.T) {
	raw := packResponse(t, nil)
	assert.Equal(t, raw, adjustTTLs(raw, 0))
	assert.Equal(t, raw, adjustTTLs(raw, 500*time.Millisecond))
}

func TestAdjustTTLsDamagedInputReturnedVerbatim(t *testing.T) {
	raw := packResponse(t, func(m *dns.Msg) {
		m.Answer = []dns.RR{
			&dns.A{Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 300},
				A: net.IPv4(192, 0, 2, 1).To4()},
		}
	})
	truncated := raw[:len(raw)-3]
	assert.Equal(t, truncated, adjustTTLs(truncated, 10*time.Second))
}

func TestPatchTransactionID(t *testing.T) {
	raw := packResponse(t, nil)
	patched := patchTransactionID(raw, 0xBEEF)
	msg, err := wire.ParseResponse(patched)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), msg.Header.ID)
}

func TestCacheTTLPositiveUsesMinimum(t *testing.T) {
	raw := packResponse(t, func(m *dns.Msg) {
		m.Answer = []dns.RR{
			&dns.A{Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 300},
				A: net.IPv4(192, 0, 2, 1).To4()},
			&dns.A{Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
				A: net.IPv4(192, 0, 2, 2).To4()},
		}
	})
	msg, err := wire.ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cacheTTL(msg))
}

func TestCacheTTLNXDomainUsesSOAMinimum(t *testing.T) {
	raw := packResponse(t, func(m *dns.Msg) {
		m.Rcode = dns.RcodeNameError
		m.Ns = []dns.RR{&dns.SOA{
			Hdr:     dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeSOA, Class: dns.ClassINET, Ttl: 900},
			Ns:      "ns1.example.com.",
			Mbox:    "hostmaster.example.com.",
			Serial:  1,
			Refresh: 7200,
			Retry:   3600,
			Expire:  1209600,
			Minttl:  120,
		}}
	})
	msg, err := wire.ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, cacheTTL(msg))
}

func TestCacheTTLNXDomainWithoutSOA(t *testing.T) {
	raw := packResponse(t, func(m *dns.Msg) { m.Rcode = dns.RcodeNameError })
	msg, err := wire.ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, negativeCacheTTL, cacheTTL(msg))
}

func TestCacheTTLNoDataUsesNegativeTTL(t *testing.T) {
	raw := packResponse(t, nil)
	msg, err := wire.ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, negativeCacheTTL, cacheTTL(msg))
}

func TestCacheTTLServFail(t *testing.T) {
	raw := packResponse(t, func(m *dns.Msg) { m.Rcode = dns.RcodeServerFailure })
	msg, err := wire.ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, servfailCacheTTL, cacheTTL(msg))
}

func TestCacheTTLRefusedNotCached(t *testing.T) {
	raw := packResponse(t, func(m *dns.Msg) { m.Rcode = dns.RcodeRefused })
	msg, err := wire.ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cacheTTL(msg))
}
