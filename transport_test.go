package stubdns

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startUDPEcho runs a UDP server answering every datagram with respond(req).
func startUDPEcho(t *testing.T, respond func([]byte) []byte) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	go func() {
		buf := make([]byte, 4096)
		for {
			n, addr, err := pc.ReadFrom(buf)
			if err != nil {
				return
			}
			if resp := respond(buf[:n]); resp != nil {
				_, _ = pc.WriteTo(resp, addr)
			}
		}
	}()
	return pc.LocalAddr().String()
}

func TestUDPTransportExchange(t *testing.T) {
	want := []byte{0xAB, 0xCD, 0x81, 0x80, 0, 0, 0, 0, 0, 0, 0, 0}
	addr := startUDPEcho(t, func(req []byte) []byte { return want })

	tr := NewUDPTransport(addr, time.Second, 512, 2)
	defer tr.Close()

	got, err := tr.Exchange(context.Background(), []byte{0xAB, 0xCD})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUDPTransportReusesConnections(t *testing.T) {
	addr := startUDPEcho(t, func(req []byte) []byte { return req })

	tr := NewUDPTransport(addr, time.Second, 512, 2)
	defer tr.Close()

	for i := 0; i < 5; i++ {
		payload := []byte{byte(i), 0x01}
		got, err := tr.Exchange(context.Background(), payload)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	}
}

func TestUDPTransportTimeout(t *testing.T) {
	// server that never answers
	addr := startUDPEcho(t, func([]byte) []byte { return nil })

	tr := NewUDPTransport(addr, 50*time.Millisecond, 512, 1)
	defer tr.Close()

	_, err := tr.Exchange(context.Background(), []byte{0x00, 0x01})
	require.Error(t, err)
	assert.True(t, isTimeout(err))
}

func TestUDPTransportContextDeadline(t *testing.T) {
	addr := startUDPEcho(t, func([]byte) []byte { return nil })

	tr := NewUDPTransport(addr, time.Minute, 512, 1)
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := tr.Exchange(ctx, []byte{0x00, 0x01})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestUDPTransportCloseIdempotent(t *testing.T) {
	tr := NewUDPTransport("127.0.0.1:53", time.Second, 512, 1)
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
}

// startTCPFramed runs a TCP server speaking RFC 1035 4.2.2 framing,
// answering each request with respond(req).
func startTCPFramed(t *testing.T, respond func([]byte) []byte) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				var prefix [2]byte
				if _, err := io.ReadFull(conn, prefix[:]); err != nil {
					return
				}
				req := make([]byte, binary.BigEndian.Uint16(prefix[:]))
				if _, err := io.ReadFull(conn, req); err != nil {
					return
				}
				resp := respond(req)
				binary.BigEndian.PutUint16(prefix[:], uint16(len(resp)))
				_, _ = conn.Write(prefix[:])
				_, _ = conn.Write(resp)
			}(conn)
		}
	}()
	return ln.Addr().String()
}

func TestTCPTransportExchange(t *testing.T) {
	want := make([]byte, 16)
	want[2] = 0x81
	addr := startTCPFramed(t, func(req []byte) []byte { return want })

	tr := NewTCPTransport(addr, time.Second)
	defer tr.Close()

	got, err := tr.Exchange(context.Background(), []byte{0x12, 0x34})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTCPTransportEchoesLargeMessage(t *testing.T) {
	// larger than any UDP receive buffer, exercising framed reads
	addr := startTCPFramed(t, func(req []byte) []byte { return req })

	tr := NewTCPTransport(addr, time.Second)
	defer tr.Close()

	big := make([]byte, 32*1024)
	for i := range big {
		big[i] = byte(i)
	}
	got, err := tr.Exchange(context.Background(), big)
	require.NoError(t, err)
	assert.Equal(t, big, got)
}

func TestTCPTransportRejectsRuntFrame(t *testing.T) {
	// a framed response shorter than a DNS header is never valid
	addr := startTCPFramed(t, func([]byte) []byte { return []byte{0x00, 0x01} })

	tr := NewTCPTransport(addr, time.Second)
	defer tr.Close()

	_, err := tr.Exchange(context.Background(), []byte{0x12, 0x34})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestTCPTransportDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close()) // nothing listens here anymore

	tr := NewTCPTransport(addr, 200*time.Millisecond)
	defer tr.Close()

	_, err = tr.Exchange(context.Background(), []byte{0x12, 0x34})
	assert.Error(t, err)
}

func TestNewTLSConfig(t *testing.T) {
	cfg := NewTLSConfig("dns.example.net")
	assert.Equal(t, []string{"dot"}, cfg.NextProtos)
	assert.Equal(t, "dns.example.net", cfg.ServerName)
}

func TestNewTLSTransportDefaultsServerName(t *testing.T) {
	tr := NewTLSTransport("9.9.9.9:853", "", time.Second)
	assert.Equal(t, "9.9.9.9", tr.dialer.Config.ServerName)

	tr = NewTLSTransport("dns.example.net:853", "override.example.net", time.Second)
	assert.Equal(t, "override.example.net", tr.dialer.Config.ServerName)
}
