// Command dnsquery resolves a name against a recursive nameserver and
// prints the answers in zone-file-like lines.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jroosing/stubdns"
	"github.com/jroosing/stubdns/internal/logging"
	"github.com/jroosing/stubdns/wire"
)

func main() {
	var (
		server    = flag.String("server", "", "DNS server HOST:PORT (default: resolv.conf)")
		name      = flag.String("name", "example.com", "Query name")
		qtype     = flag.String("qtype", "A", "Query type (A, AAAA, CNAME, MX, TXT, ... or numeric)")
		transport = flag.String("transport", "udp", "Transport: udp, tcp, or tls")
		timeout   = flag.Duration("timeout", 3*time.Second, "Per-attempt timeout")
		cachePath = flag.String("cache", "", "Path to a persistent answer cache (optional)")
		verbose   = flag.Bool("verbose", false, "Enable debug logging")
		quiet     = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
	)
	flag.Parse()

	level := "WARN"
	if *verbose {
		level = "DEBUG"
	}
	logger := logging.Configure(logging.Config{Level: level})

	cfg, err := stubdns.ConfigFromEnv()
	if err != nil {
		fatal(*quiet, err)
	}
	cfg.Protocol = *transport
	cfg.Timeout = *timeout
	cfg.TCPTimeout = *timeout
	cfg.Logger = logger
	if *server != "" {
		cfg.Servers = []string{*server}
	}
	if *cachePath != "" {
		cfg.CachePath = *cachePath
	}

	r, err := stubdns.New(cfg, nil)
	if err != nil {
		fatal(*quiet, err)
	}
	defer r.Close()

	qt, err := parseQType(*qtype)
	if err != nil {
		fatal(*quiet, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3**timeout)
	defer cancel()

	msg, err := r.Query(ctx, *name, qt)
	if err != nil {
		fatal(*quiet, err)
	}
	if *quiet {
		return
	}

	rcode, _ := msg.Header.Flags.RCode()
	fmt.Printf(";; id=%d rcode=%s answers=%d authorities=%d additionals=%d\n",
		msg.Header.ID, rcode, len(msg.Answers), len(msg.Authorities), len(msg.Additionals))
	for _, rr := range msg.Answers {
		fmt.Println(formatRR(rr))
	}
}

func fatal(quiet bool, err error) {
	if !quiet {
		fmt.Fprintf(os.Stderr, "dnsquery error: %v\n", err)
	}
	os.Exit(1)
}

// parseQType accepts a mnemonic like "AAAA" or a raw numeric value.
func parseQType(s string) (wire.QType, error) {
	mnemonics := map[string]wire.QType{
		"A": wire.QTypeA, "NS": wire.QTypeNS, "MD": wire.QTypeMD,
		"MF": wire.QTypeMF, "CNAME": wire.QTypeCNAME, "SOA": wire.QTypeSOA,
		"MB": wire.QTypeMB, "MG": wire.QTypeMG, "MR": wire.QTypeMR,
		"NULL": wire.QTypeNULL, "WKS": wire.QTypeWKS, "PTR": wire.QTypePTR,
		"HINFO": wire.QTypeHINFO, "MINFO": wire.QTypeMINFO, "MX": wire.QTypeMX,
		"TXT": wire.QTypeTXT, "AAAA": wire.QTypeAAAA, "ANY": wire.QTypeANY,
	}
	if qt, ok := mnemonics[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return qt, nil
	}
	var n uint16
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("unknown query type %q", s)
	}
	return wire.QType(n), nil
}

func formatRR(rr wire.ResourceRecord) string {
	prefix := fmt.Sprintf("%s\t%d\t%s", rr.Name, rr.TTL, rr.Class)
	switch data := rr.Data.(type) {
	case wire.A:
		return fmt.Sprintf("%s\tA\t%s", prefix, data.Addr)
	case wire.AAAA:
		return fmt.Sprintf("%s\tAAAA\t%s", prefix, data.Addr)
	case wire.CNAME:
		return fmt.Sprintf("%s\tCNAME\t%s", prefix, data.Target)
	case wire.NS:
		return fmt.Sprintf("%s\tNS\t%s", prefix, data.Host)
	case wire.PTR:
		return fmt.Sprintf("%s\tPTR\t%s", prefix, data.Target)
	case wire.MX:
		return fmt.Sprintf("%s\tMX\t%d %s", prefix, data.Preference, data.Exchange)
	case wire.TXT:
		return fmt.Sprintf("%s\tTXT\t%q", prefix, strings.Join(data.Strings, ""))
	case wire.SOA:
		return fmt.Sprintf("%s\tSOA\t%s %s %d %d %d %d %d", prefix,
			data.MName, data.RName, data.Serial, data.Refresh, data.Retry, data.Expire, data.Minimum)
	case wire.HINFO:
		return fmt.Sprintf("%s\tHINFO\t%q %q", prefix, data.CPU, data.OS)
	case wire.WKS:
		return fmt.Sprintf("%s\tWKS\t%s %d", prefix, data.Addr, data.Protocol)
	case wire.Raw:
		return fmt.Sprintf("%s\t%s\t\\# %d", prefix, data.Type(), len(data.Data))
	default:
		return fmt.Sprintf("%s\t%s\t(unformatted)", prefix, data.Type())
	}
}
