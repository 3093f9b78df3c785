// Package headers audits the security-relevant response headers of a URL.
package headers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/theopenlane/httpsling"

	"github.com/theopenlane/secdash/internal/checkerr"
)

const (
	// defaultTimeout bounds the whole request including redirects
	defaultTimeout = 10 * time.Second
	// userAgent identifies the auditor to the target server
	userAgent = "Mozilla/5.0 (compatible; secdash/1.0)"
	// valueSeparator joins repeated header values
	valueSeparator = ", "
)

// Tracked security headers
const (
	HeaderHSTS               = "Strict-Transport-Security"
	HeaderCSP                = "Content-Security-Policy"
	HeaderFrameOptions       = "X-Frame-Options"
	HeaderContentTypeOptions = "X-Content-Type-Options"
	HeaderXSSProtection      = "X-XSS-Protection"
)

// TrackedHeaders lists every header reported by the auditor
var TrackedHeaders = []string{
	HeaderHSTS,
	HeaderCSP,
	HeaderFrameOptions,
	HeaderContentTypeOptions,
	HeaderXSSProtection,
}

// Report maps each tracked header to its value, nil when the response omits it
type Report struct {
	StrictTransportSecurity *string `json:"Strict-Transport-Security"`
	ContentSecurityPolicy   *string `json:"Content-Security-Policy"`
	XFrameOptions           *string `json:"X-Frame-Options"`
	XContentTypeOptions     *string `json:"X-Content-Type-Options"`
	XXSSProtection          *string `json:"X-XSS-Protection"`
}

// Auditor fetches a URL and extracts its security headers
type Auditor struct {
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures the Auditor
type Option func(*Auditor)

// WithHTTPClient sets a custom HTTP client for the auditor
func WithHTTPClient(client *http.Client) Option {
	return func(a *Auditor) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// WithTimeout overrides the time allowed for the request, redirects included
func WithTimeout(timeout time.Duration) Option {
	return func(a *Auditor) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// New creates a header auditor
func New(opts ...Option) *Auditor {
	a := &Auditor{
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Audit issues a single GET to target and reports its security headers.
// The status code is not evaluated and the response body is never read.
func (a *Auditor) Audit(ctx context.Context, target *url.URL) (*Report, error) {
	raw := target.String()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	requester := httpsling.MustNew(
		httpsling.URL(raw),
		httpsling.Method(http.MethodGet),
		httpsling.Header("User-Agent", userAgent),
		httpsling.WithHTTPClient(a.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return nil, requestError(ctx, raw, err)
	}
	defer resp.Body.Close() //nolint:errcheck // body is discarded unread

	log.Debug().Str("url", raw).Int("status", resp.StatusCode).Msg("header audit response received")

	return NewReport(resp.Header), nil
}

// NewReport builds a report from response headers, matching names case-insensitively
func NewReport(h http.Header) *Report {
	return &Report{
		StrictTransportSecurity: headerValue(h, HeaderHSTS),
		ContentSecurityPolicy:   headerValue(h, HeaderCSP),
		XFrameOptions:           headerValue(h, HeaderFrameOptions),
		XContentTypeOptions:     headerValue(h, HeaderContentTypeOptions),
		XXSSProtection:          headerValue(h, HeaderXSSProtection),
	}
}

// headerValue joins every value of a header, returning nil when it is absent
func headerValue(h http.Header, name string) *string {
	values := h.Values(name)
	if len(values) == 0 {
		values = valuesFolded(h, name)
	}

	if len(values) == 0 {
		return nil
	}

	return lo.ToPtr(strings.Join(values, valueSeparator))
}

// valuesFolded finds header values stored under a non-canonical key
func valuesFolded(h http.Header, name string) []string {
	for key, values := range h {
		if strings.EqualFold(key, name) {
			return values
		}
	}

	return nil
}

// requestError classifies a failed request; failures without a recognizable cause are network failures
func requestError(ctx context.Context, target string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &checkerr.Error{Kind: checkerr.KindNetwork, Target: target, Err: err, Timeout: true}
	}

	classified := checkerr.Classify(target, err)
	if checkerr.KindOf(classified) == checkerr.KindUpstream {
		return &checkerr.Error{Kind: checkerr.KindNetwork, Target: target, Err: err, Timeout: checkerr.IsTimeout(err)}
	}

	return classified
}
