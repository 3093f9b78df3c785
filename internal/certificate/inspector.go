// Package certificate inspects the leaf TLS certificate served by a host.
package certificate

import (
	"context"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"github.com/projectdiscovery/tlsx/pkg/tlsx/clients"
	"github.com/rs/zerolog/log"

	"github.com/theopenlane/secdash/internal/checkerr"
)

const (
	// defaultPort is the port certificates are fetched from
	defaultPort = "443"
	// defaultTimeout bounds resolution and handshake together
	defaultTimeout = 10 * time.Second
	// hoursPerDay is used to convert durations to whole days
	hoursPerDay = 24
)

// Result describes the leaf certificate of a host
type Result struct {
	// Issuer is the issuer distinguished name
	Issuer string `json:"issuer"`
	// Subject is the subject distinguished name
	Subject string `json:"subject"`
	// ValidFrom is the start of the validity window
	ValidFrom time.Time `json:"validFrom"`
	// ValidTo is the end of the validity window
	ValidTo time.Time `json:"validTo"`
	// DaysRemaining is the number of whole days until ValidTo, negative once expired
	DaysRemaining int `json:"daysRemaining"`
	// Valid reports whether the current time falls inside the validity window
	Valid bool `json:"valid"`
	// ValidFor lists the DNS names the certificate covers
	ValidFor []string `json:"validFor"`
}

// Resolver looks up the addresses of a host
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Inspector fetches and evaluates TLS certificates
type Inspector struct {
	resolver  Resolver
	connector Connector
	port      string
	timeout   time.Duration
	strict    bool
	now       func() time.Time
}

// Option configures the Inspector
type Option func(*Inspector)

// WithPort overrides the port certificates are fetched from
func WithPort(port string) Option {
	return func(i *Inspector) {
		if port != "" {
			i.port = port
		}
	}
}

// WithTimeout overrides the time allowed for resolution and handshake
func WithTimeout(timeout time.Duration) Option {
	return func(i *Inspector) {
		if timeout > 0 {
			i.timeout = timeout
		}
	}
}

// WithStrict rejects self-signed, mismatched, expired and revoked certificates
func WithStrict(strict bool) Option {
	return func(i *Inspector) {
		i.strict = strict
	}
}

// WithResolver overrides the resolver used to find the host's address
func WithResolver(resolver Resolver) Option {
	return func(i *Inspector) {
		if resolver != nil {
			i.resolver = resolver
		}
	}
}

// WithConnector overrides the TLS connector
func WithConnector(connector Connector) Option {
	return func(i *Inspector) {
		if connector != nil {
			i.connector = connector
		}
	}
}

// New creates a certificate inspector
func New(opts ...Option) (*Inspector, error) {
	i := &Inspector{
		resolver: net.DefaultResolver,
		port:     defaultPort,
		timeout:  defaultTimeout,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.connector == nil {
		connector, err := newTLSXConnector(i.timeout, i.strict)
		if err != nil {
			return nil, err
		}

		i.connector = connector
	}

	return i, nil
}

// Inspect resolves host, performs a TLS handshake and summarizes the leaf certificate
func (i *Inspector) Inspect(ctx context.Context, host string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	addrs, err := i.resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, resolutionError(host, err)
	}

	if len(addrs) == 0 {
		return nil, checkerr.New(checkerr.KindResolution, host, ErrNoAddresses)
	}

	log.Debug().Str("host", host).Str("ip", addrs[0]).Str("port", i.port).Msg("fetching certificate")

	resp, err := i.connector.Connect(ctx, host, addrs[0], i.port)
	if err != nil {
		return nil, connectError(host, err)
	}

	if resp == nil || resp.CertificateResponse == nil {
		return nil, checkerr.New(checkerr.KindUpstream, host, ErrNoCertificate)
	}

	if i.strict {
		if problems := trustProblems(resp.CertificateResponse); len(problems) > 0 {
			return nil, checkerr.New(checkerr.KindCertificate, host,
				fmt.Errorf("%w: %s", ErrUntrustedCertificate, strings.Join(problems, ", ")))
		}
	}

	return summarize(resp.CertificateResponse, i.now()), nil
}

// summarize computes the validity fields for a certificate at the given instant
func summarize(cert *clients.CertificateResponse, now time.Time) *Result {
	validFor := cert.SubjectAN
	if validFor == nil {
		validFor = []string{}
	}

	return &Result{
		Issuer:        cert.IssuerDN,
		Subject:       cert.SubjectDN,
		ValidFrom:     cert.NotBefore.UTC(),
		ValidTo:       cert.NotAfter.UTC(),
		DaysRemaining: daysUntil(cert.NotAfter, now),
		Valid:         !now.Before(cert.NotBefore) && !now.After(cert.NotAfter),
		ValidFor:      validFor,
	}
}

// daysUntil returns whole days from now until t, rounding toward negative infinity
func daysUntil(t, now time.Time) int {
	return int(math.Floor(t.Sub(now).Hours() / hoursPerDay))
}

// trustProblems lists the reasons a strict client would refuse the certificate
func trustProblems(cert *clients.CertificateResponse) []string {
	var problems []string

	if cert.Expired {
		problems = append(problems, "expired")
	}

	if cert.SelfSigned {
		problems = append(problems, "self-signed")
	}

	if cert.Untrusted {
		problems = append(problems, "untrusted CA")
	}

	if cert.MisMatched {
		problems = append(problems, "hostname mismatch")
	}

	if cert.Revoked {
		problems = append(problems, "revoked")
	}

	return problems
}

// resolutionError classifies a lookup failure; timeouts are network failures
func resolutionError(host string, err error) error {
	if checkerr.IsTimeout(err) {
		return &checkerr.Error{Kind: checkerr.KindNetwork, Target: host, Err: err, Timeout: true}
	}

	return checkerr.New(checkerr.KindResolution, host, err)
}

// connectError classifies a handshake failure; anything unrecognized is a network failure
func connectError(host string, err error) error {
	classified := checkerr.Classify(host, err)
	if checkerr.KindOf(classified) == checkerr.KindUpstream {
		return &checkerr.Error{Kind: checkerr.KindNetwork, Target: host, Err: err, Timeout: checkerr.IsTimeout(err)}
	}

	return classified
}
