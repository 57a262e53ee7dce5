package stubdns

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

// Default configuration values.
const (
	DefaultTimeout      = 3 * time.Second // per UDP query attempt
	DefaultTCPTimeout   = 5 * time.Second // per TCP/TLS exchange
	DefaultRecvSize     = 4096            // UDP receive buffer size
	DefaultUDPPoolSize  = 8               // idle UDP connections per server
	DefaultMaxRetries   = 3               // attempts per server on timeout
	DefaultCacheEntries = 4096            // in-memory cached responses

	maxServers     = 3 // strict-order failover
	resolvConfPath = "/etc/resolv.conf"
	defaultDNSPort = "53"
	defaultDoTPort = "853"
	fallbackServer = "8.8.8.8:53"
)

// Supported transport protocols for Config.Protocol.
const (
	ProtocolUDP = "udp"
	ProtocolTCP = "tcp"
	ProtocolTLS = "tls"
)

// Config configures a Resolver.
type Config struct {
	// Servers lists nameservers as "host:port". A bare host gets the
	// protocol's default port appended by Validate.
	Servers []string `env:"STUBDNS_SERVERS" envSeparator:","`

	// Protocol selects the primary transport: udp, tcp, or tls.
	Protocol string `env:"STUBDNS_PROTOCOL"`

	// Timeout bounds each UDP query attempt.
	Timeout time.Duration `env:"STUBDNS_TIMEOUT"`

	// TCPTimeout bounds each TCP or TLS exchange.
	TCPTimeout time.Duration `env:"STUBDNS_TCP_TIMEOUT"`

	// TCPFallback retries over TCP when a UDP response is truncated.
	TCPFallback bool `env:"STUBDNS_TCP_FALLBACK"`

	// RecvSize is the UDP receive buffer size.
	RecvSize int `env:"STUBDNS_RECV_SIZE"`

	// UDPPoolSize bounds idle UDP connections kept per server.
	UDPPoolSize int `env:"STUBDNS_UDP_POOL_SIZE"`

	// MaxRetries is the number of attempts per server on timeout.
	MaxRetries int `env:"STUBDNS_MAX_RETRIES"`

	// CacheEntries bounds the in-memory answer cache. Zero uses the
	// default; negative disables caching.
	CacheEntries int `env:"STUBDNS_CACHE_ENTRIES"`

	// CachePath, when set, enables the persistent SQLite answer cache.
	CachePath string `env:"STUBDNS_CACHE_PATH"`

	// TLSServerName overrides the name verified against the server
	// certificate for the tls protocol.
	TLSServerName string `env:"STUBDNS_TLS_SERVER_NAME"`

	// Logger receives resolver diagnostics. Nil means slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns a configuration seeded from /etc/resolv.conf.
// When no nameservers can be discovered it falls back to a public one.
func DefaultConfig() Config {
	cfg := Config{
		Protocol:    ProtocolUDP,
		TCPFallback: true,
	}
	if servers, err := NameserversFromResolvConf(resolvConfPath); err == nil {
		cfg.Servers = servers
	}
	return cfg
}

// ConfigFromEnv returns DefaultConfig overridden by STUBDNS_* variables.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// Validate normalizes the configuration in place and reports settings
// that cannot be repaired.
func (cfg *Config) Validate() error {
	switch cfg.Protocol {
	case "":
		cfg.Protocol = ProtocolUDP
	case ProtocolUDP, ProtocolTCP, ProtocolTLS:
	default:
		return fmt.Errorf("protocol must be udp, tcp, or tls, got %q", cfg.Protocol)
	}

	if len(cfg.Servers) == 0 {
		cfg.Servers = []string{fallbackServer}
	}
	if len(cfg.Servers) > maxServers {
		cfg.Servers = cfg.Servers[:maxServers]
	}
	port := defaultDNSPort
	if cfg.Protocol == ProtocolTLS {
		port = defaultDoTPort
	}
	for i, s := range cfg.Servers {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("servers[%d] is empty", i)
		}
		cfg.Servers[i] = ensurePort(s, port)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.TCPTimeout <= 0 {
		cfg.TCPTimeout = DefaultTCPTimeout
	}
	if cfg.RecvSize <= 0 {
		cfg.RecvSize = DefaultRecvSize
	}
	if cfg.UDPPoolSize <= 0 {
		cfg.UDPPoolSize = DefaultUDPPoolSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.CacheEntries == 0 {
		cfg.CacheEntries = DefaultCacheEntries
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return nil
}

// ensurePort appends the default port when addr carries none. IPv6
// literals without a port must be bracketed by the caller.
func ensurePort(addr, port string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(strings.Trim(addr, "[]"), port)
}

// NameserversFromResolvConf extracts the nameserver entries from a
// resolv.conf-format file, with the default DNS port appended.
func NameserversFromResolvConf(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var servers []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "nameserver" {
			continue
		}
		if net.ParseIP(fields[1]) == nil {
			continue
		}
		servers = append(servers, ensurePort(fields[1], defaultDNSPort))
		if len(servers) == maxServers {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return servers, nil
}
