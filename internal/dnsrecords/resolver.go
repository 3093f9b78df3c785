// Package dnsrecords enumerates the common DNS resource records of a hostname.
package dnsrecords

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/theopenlane/secdash/internal/checkerr"
)

const (
	// fallbackServer is the DNS resolver used when none is configured or discoverable
	fallbackServer = "8.8.8.8:53"
	// defaultTimeout is the per-query timeout for DNS lookups
	defaultTimeout = 5 * time.Second
)

// resolvConfPath is where the system resolver configuration is read from
var resolvConfPath = "/etc/resolv.conf"

// queryTypes lists the record types queried, in the order they are reported
var queryTypes = []uint16{
	dns.TypeA,
	dns.TypeAAAA,
	dns.TypeCNAME,
	dns.TypeMX,
	dns.TypeNS,
	dns.TypeTXT,
	dns.TypeSOA,
}

// Resolver queries a single DNS server for every supported record type
type Resolver struct {
	udp    *dns.Client
	tcp    *dns.Client
	server string
}

// Option configures the Resolver
type Option func(*Resolver)

// WithServer overrides the DNS server used for lookups
func WithServer(server string) Option {
	return func(r *Resolver) {
		if server != "" {
			r.server = server
		}
	}
}

// WithTimeout overrides the per-query DNS timeout
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		if timeout > 0 {
			r.udp.Timeout = timeout
			r.tcp.Timeout = timeout
		}
	}
}

// New creates a DNS record resolver
func New(opts ...Option) *Resolver {
	r := &Resolver{
		udp:    &dns.Client{Net: "udp", Timeout: defaultTimeout},
		tcp:    &dns.Client{Net: "tcp", Timeout: defaultTimeout},
		server: DefaultServer(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Server returns the address of the DNS server queried
func (r *Resolver) Server() string {
	return r.server
}

// DefaultServer returns the first nameserver of the system resolver configuration,
// falling back to a public resolver when none is found
func DefaultServer() string {
	cfg, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil || len(cfg.Servers) == 0 {
		return fallbackServer
	}

	port := cfg.Port
	if port == "" {
		port = "53"
	}

	return net.JoinHostPort(cfg.Servers[0], port)
}

// Resolve returns every A, AAAA, CNAME, MX, NS, TXT and SOA record of host.
// A host without any of those records yields an empty, non-nil slice.
// NXDOMAIN is only reported when no query returned records, so a dangling
// CNAME is still listed.
func (r *Resolver) Resolve(ctx context.Context, host string) ([]Record, error) {
	answers := make([][]dns.RR, len(queryTypes))
	failures := make([]error, len(queryTypes))

	var g errgroup.Group

	for idx, qtype := range queryTypes {
		g.Go(func() error {
			answers[idx], failures[idx] = r.query(ctx, host, qtype)

			return nil
		})
	}

	_ = g.Wait()

	records := make([]Record, 0)
	failed := 0
	nxdomain := false

	for idx, qtype := range queryTypes {
		if failures[idx] != nil {
			failed++
			nxdomain = nxdomain || errors.Is(failures[idx], ErrNXDomain)

			log.Debug().Err(failures[idx]).Str("host", host).Str("type", dns.TypeToString[qtype]).Msg("dns query failed")

			continue
		}

		records = append(records, lo.FilterMap(answers[idx], func(rr dns.RR, _ int) (Record, bool) {
			return toRecord(rr)
		})...)
	}

	switch {
	case len(records) > 0:
		return records, nil
	case nxdomain:
		return nil, checkerr.New(checkerr.KindNotFound, host, ErrNXDomain)
	case failed == len(queryTypes):
		return nil, aggregateFailure(host, failures)
	}

	return records, nil
}

// query performs one exchange, retrying over TCP when the UDP answer is truncated,
// and keeps only the answers of the requested type
func (r *Resolver) query(ctx context.Context, host string, qtype uint16) ([]dns.RR, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)
	msg.RecursionDesired = true

	resp, _, err := r.udp.ExchangeContext(ctx, msg, r.server)
	if err == nil && resp != nil && resp.Truncated {
		resp, _, err = r.tcp.ExchangeContext(ctx, msg, r.server)
	}

	if err != nil {
		return nil, err
	}

	if resp == nil {
		return nil, ErrNoResponse
	}

	switch resp.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, ErrNXDomain
	default:
		return nil, fmt.Errorf("%w: %s", ErrServerFailure, dns.RcodeToString[resp.Rcode])
	}

	return lo.Filter(resp.Answer, func(rr dns.RR, _ int) bool {
		return rr.Header().Rrtype == qtype
	}), nil
}

// aggregateFailure classifies the outcome when every query failed; transport
// failures take precedence over server failures
func aggregateFailure(host string, failures []error) error {
	var first error

	for _, err := range failures {
		classified := checkerr.Classify(host, err)
		if checkerr.KindOf(classified) == checkerr.KindNetwork {
			return classified
		}

		if first == nil {
			first = classified
		}
	}

	return first
}
