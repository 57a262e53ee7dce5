package stubdns

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/idna"

	"github.com/jroosing/stubdns/internal/cachedb"
	"github.com/jroosing/stubdns/wire"
)

// Resolver is a caching DNS stub resolver.
//
// Resolution strategy per query:
//  1. Serve from the in-memory cache, then the persistent cache.
//  2. Query the configured servers in order, retrying timeouts.
//  3. Validate the response against the query before trusting it.
//  4. Retry truncated UDP responses over TCP.
//  5. Cache the validated response, keyed by question, never by ID.
//
// All methods are safe for concurrent use.
type Resolver struct {
	cfg   Config
	log   *slog.Logger
	qw    wire.QueryWriter
	cache *answerCache
	store *cachedb.Store // nil unless CachePath is set
	stats Stats

	mu         sync.Mutex
	transports map[string]Transport
	closed     bool

	// Overridable for tests.
	newTransport func(server string) Transport
	newFallback  func(server string) Transport
}

// New creates a Resolver. The configuration is validated and normalized;
// rng seeds query transaction IDs and is nil for crypto/rand.
func New(cfg Config, rng io.Reader) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Resolver{
		cfg:        cfg,
		log:        cfg.Logger,
		qw:         wire.NewQueryWriter(rng),
		transports: map[string]Transport{},
	}
	if cfg.CacheEntries > 0 {
		r.cache = newAnswerCache(cfg.CacheEntries)
	}
	if cfg.CachePath != "" {
		store, err := cachedb.Open(cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("opening persistent cache: %w", err)
		}
		r.store = store
	}

	r.newTransport = func(server string) Transport {
		switch cfg.Protocol {
		case ProtocolTCP:
			return NewTCPTransport(server, cfg.TCPTimeout)
		case ProtocolTLS:
			return NewTLSTransport(server, cfg.TLSServerName, cfg.TCPTimeout)
		default:
			return NewUDPTransport(server, cfg.Timeout, cfg.RecvSize, cfg.UDPPoolSize)
		}
	}
	r.newFallback = func(server string) Transport {
		return NewTCPTransport(server, cfg.TCPTimeout)
	}
	return r, nil
}

// Close releases transports and the persistent cache.
func (r *Resolver) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	transports := r.transports
	r.transports = map[string]Transport{}
	r.mu.Unlock()

	var errs []error
	for _, t := range transports {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stats returns a snapshot of the resolver counters.
func (r *Resolver) Stats() StatsSnapshot {
	return r.stats.Snapshot()
}

// Query resolves name with the given question type and returns the full
// parsed response. The name may be a Unicode domain; it is IDNA-encoded
// before hitting the wire. Negative results surface as errors: ErrNoName
// for NXDOMAIN, ErrServerMisbehaving variants for server failures.
func (r *Resolver) Query(ctx context.Context, name string, qtype wire.QType) (*wire.Message, error) {
	q, err := r.question(name, qtype)
	if err != nil {
		return nil, err
	}
	msg, _, err := r.exchange(ctx, q)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// LookupA returns the IPv4 addresses for name.
func (r *Resolver) LookupA(ctx context.Context, name string) ([]netip.Addr, error) {
	raw, err := r.lookupRaw(ctx, name, wire.QTypeA)
	if err != nil {
		return nil, err
	}
	recs, err := wire.RecordsOf[wire.A](raw)
	if err != nil {
		return nil, err
	}
	addrs := make([]netip.Addr, 0, len(recs))
	for _, rec := range recs {
		addrs = append(addrs, rec.Data.Addr)
	}
	if len(addrs) == 0 {
		return nil, ErrNoData
	}
	return addrs, nil
}

// LookupAAAA returns the IPv6 addresses for name.
func (r *Resolver) LookupAAAA(ctx context.Context, name string) ([]netip.Addr, error) {
	raw, err := r.lookupRaw(ctx, name, wire.QTypeAAAA)
	if err != nil {
		return nil, err
	}
	recs, err := wire.RecordsOf[wire.AAAA](raw)
	if err != nil {
		return nil, err
	}
	addrs := make([]netip.Addr, 0, len(recs))
	for _, rec := range recs {
		addrs = append(addrs, rec.Data.Addr)
	}
	if len(addrs) == 0 {
		return nil, ErrNoData
	}
	return addrs, nil
}

// LookupCNAME returns the canonical name for name.
func (r *Resolver) LookupCNAME(ctx context.Context, name string) (string, error) {
	raw, err := r.lookupRaw(ctx, name, wire.QTypeCNAME)
	if err != nil {
		return "", err
	}
	recs, err := wire.RecordsOf[wire.CNAME](raw)
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return "", ErrNoData
	}
	return recs[0].Data.Target.String(), nil
}

// LookupTXT returns the text records for name, one string per record
// with its character-strings concatenated, in wire order.
func (r *Resolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	raw, err := r.lookupRaw(ctx, name, wire.QTypeTXT)
	if err != nil {
		return nil, err
	}
	recs, err := wire.RecordsOf[wire.TXT](raw)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(recs))
	for _, rec := range recs {
		texts = append(texts, strings.Join(rec.Data.Strings, ""))
	}
	if len(texts) == 0 {
		return nil, ErrNoData
	}
	return texts, nil
}

// LookupMX returns the mail exchangers for name sorted by preference.
func (r *Resolver) LookupMX(ctx context.Context, name string) ([]wire.MX, error) {
	raw, err := r.lookupRaw(ctx, name, wire.QTypeMX)
	if err != nil {
		return nil, err
	}
	recs, err := wire.RecordsOf[wire.MX](raw)
	if err != nil {
		return nil, err
	}
	mxs := make([]wire.MX, 0, len(recs))
	for _, rec := range recs {
		mxs = append(mxs, rec.Data)
	}
	if len(mxs) == 0 {
		return nil, ErrNoData
	}
	sort.SliceStable(mxs, func(i, j int) bool { return mxs[i].Preference < mxs[j].Preference })
	return mxs, nil
}

// lookupRaw resolves a question and returns the validated raw response.
func (r *Resolver) lookupRaw(ctx context.Context, name string, qtype wire.QType) ([]byte, error) {
	q, err := r.question(name, qtype)
	if err != nil {
		return nil, err
	}
	_, raw, err := r.exchange(ctx, q)
	return raw, err
}

// question builds the wire question for a lookup name, applying IDNA.
func (r *Resolver) question(name string, qtype wire.QType) (wire.Question, error) {
	ascii, err := idna.Lookup.ToASCII(strings.TrimSuffix(name, "."))
	if err != nil {
		return wire.Question{}, fmt.Errorf("invalid lookup name %q: %w", name, err)
	}
	n, err := wire.NewName(ascii)
	if err != nil {
		return wire.Question{}, err
	}
	return wire.Question{Name: n, Type: qtype, Class: wire.QClassIN}, nil
}

// exchange resolves one question, consulting caches before the network.
func (r *Resolver) exchange(ctx context.Context, q wire.Question) (*wire.Message, []byte, error) {
	r.stats.queries.Add(1)
	key := newCacheKey(q)

	if msg, raw, ok := r.fromCache(key, q); ok {
		r.stats.cacheHits.Add(1)
		if err := responseError(msg); err != nil {
			return nil, nil, err
		}
		return msg, raw, nil
	}

	msg, raw, err := r.queryServers(ctx, q)
	if err != nil {
		r.stats.failures.Add(1)
		return nil, nil, err
	}

	r.storeInCache(key, msg, raw)

	if err := responseError(msg); err != nil {
		r.stats.failures.Add(1)
		return nil, nil, err
	}
	return msg, raw, nil
}

// fromCache consults the in-memory cache first, then the persistent
// one. Hits are re-aged and re-validated; anything stale or damaged is
// treated as a miss.
func (r *Resolver) fromCache(key cacheKey, q wire.Question) (*wire.Message, []byte, bool) {
	if r.cache != nil {
		if resp, age, ok := r.cache.Get(key); ok {
			if msg, raw, ok := r.reviveCached(q, resp, age); ok {
				return msg, raw, true
			}
		}
	}
	if r.store != nil {
		resp, age, ok, err := r.store.Get(key.String())
		if err != nil {
			r.log.Warn("persistent cache read failed", "err", err)
			return nil, nil, false
		}
		if ok {
			if msg, raw, ok := r.reviveCached(q, resp, age); ok {
				return msg, raw, true
			}
		}
	}
	return nil, nil, false
}

// reviveCached ages a cached response and checks it still answers the
// question.
func (r *Resolver) reviveCached(q wire.Question, resp []byte, age time.Duration) (*wire.Message, []byte, bool) {
	raw := adjustTTLs(resp, age)
	msg, err := wire.ParseResponse(raw)
	if err != nil {
		return nil, nil, false
	}
	if !questionMatches(q, msg.Question()) {
		return nil, nil, false
	}
	return msg, raw, true
}

// storeInCache caches a validated response with its ID normalized to 0
// so hits are shared regardless of the original transaction ID.
func (r *Resolver) storeInCache(key cacheKey, msg *wire.Message, raw []byte) {
	ttl := cacheTTL(msg)
	if ttl <= 0 {
		return
	}
	norm := make([]byte, len(raw))
	copy(norm, raw)
	patchTransactionID(norm, 0)

	if r.cache != nil {
		r.cache.Put(key, norm, ttl)
	}
	if r.store != nil {
		if err := r.store.Put(key.String(), norm, ttl); err != nil {
			r.log.Warn("persistent cache write failed", "err", err)
		}
	}
}

// queryServers tries each configured server in order until one returns
// a validated response.
func (r *Resolver) queryServers(ctx context.Context, q wire.Question) (*wire.Message, []byte, error) {
	query := make([]byte, wire.HeaderLen+q.Name.EncodedLen()+4)
	n, err := r.qw.WriteQuery(query, q, true)
	if err != nil {
		return nil, nil, err
	}
	query = query[:n]
	queryID := binary.BigEndian.Uint16(query[0:2])

	var lastErr error
	for _, server := range r.cfg.Servers {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		msg, raw, err := r.queryOne(ctx, server, query, queryID, q)
		if err != nil {
			r.log.Debug("nameserver query failed", "server", server, "err", err)
			lastErr = err
			continue
		}
		return msg, raw, nil
	}
	if lastErr != nil {
		return nil, nil, lastErr
	}
	return nil, nil, ErrNoServers
}

// queryOne sends the query to a single server, retrying timeouts and
// falling back to TCP on truncation.
func (r *Resolver) queryOne(ctx context.Context, server string, query []byte, queryID uint16, q wire.Question) (*wire.Message, []byte, error) {
	t, err := r.transportFor(server)
	if err != nil {
		return nil, nil, err
	}

	var lastErr error
	for i := 0; i < r.cfg.MaxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		raw, err := t.Exchange(ctx, query)
		if err != nil {
			lastErr = err
			if !isTimeout(err) {
				return nil, nil, err
			}
			continue
		}

		msg, err := r.validate(raw, queryID, q)
		if err != nil {
			return nil, nil, err
		}

		if msg.Header.Flags.Truncated() && r.cfg.TCPFallback && r.cfg.Protocol == ProtocolUDP {
			r.stats.truncationRetries.Add(1)
			return r.retryTCP(ctx, server, query, queryID, q)
		}
		return msg, raw, nil
	}
	return nil, nil, lastErr
}

// retryTCP repeats a truncated exchange over a one-shot TCP transport.
func (r *Resolver) retryTCP(ctx context.Context, server string, query []byte, queryID uint16, q wire.Question) (*wire.Message, []byte, error) {
	t := r.newFallback(server)
	defer t.Close()

	raw, err := t.Exchange(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	msg, err := r.validate(raw, queryID, q)
	if err != nil {
		return nil, nil, err
	}
	return msg, raw, nil
}

// validate parses a raw response and checks it belongs to our query.
// A mismatched ID or question means the datagram is not the answer to
// what we asked, spoofed or stale, and must not be used.
func (r *Resolver) validate(raw []byte, queryID uint16, q wire.Question) (*wire.Message, error) {
	msg, err := wire.ParseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if !msg.Header.Flags.Response() {
		return nil, fmt.Errorf("%w: not a response", ErrInvalidResponse)
	}
	if msg.Header.ID != queryID {
		return nil, fmt.Errorf("%w: ID %#04x, want %#04x", ErrInvalidResponse, msg.Header.ID, queryID)
	}
	if !questionMatches(q, msg.Question()) {
		return nil, fmt.Errorf("%w: question mismatch", ErrInvalidResponse)
	}
	return msg, nil
}

// questionMatches compares questions with a case-insensitive name.
func questionMatches(want, got wire.Question) bool {
	return want.Type == got.Type &&
		want.Class == got.Class &&
		want.Name.Equal(got.Name)
}

// transportFor returns the cached transport for a server, creating it
// on first use.
func (r *Resolver) transportFor(server string) (Transport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, errors.New("resolver is closed")
	}
	if t, ok := r.transports[server]; ok {
		return t, nil
	}
	t := r.newTransport(server)
	r.transports[server] = t
	return t, nil
}

// responseError maps the response code of a validated response to an
// error, using the standard library's error strings.
func responseError(msg *wire.Message) error {
	rcode, err := msg.Header.Flags.RCode()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	switch rcode {
	case wire.RCodeNoError:
		return nil
	case wire.RCodeNXDomain:
		return ErrNoName
	case wire.RCodeServFail:
		return ErrServerTemporarilyMisbehaving
	default:
		return ErrServerMisbehaving
	}
}

// isTimeout reports whether err is a network timeout worth retrying.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
