package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/theopenlane/secdash/internal/certificate"
	"github.com/theopenlane/secdash/internal/dnsrecords"
	"github.com/theopenlane/secdash/internal/headers"
	"github.com/theopenlane/secdash/internal/slack"
)

const (
	// serviceName is reported by the health endpoint
	serviceName = "secdash"
	// defaultCheckTimeout bounds a single check when none is configured
	defaultCheckTimeout = 10 * time.Second
	// defaultAlertDays is the expiry threshold used when none is configured
	defaultAlertDays = 30
	// alertTimeout bounds a single expiry notification
	alertTimeout = 10 * time.Second
)

// CertificateInspector fetches the leaf certificate of a host
type CertificateInspector interface {
	Inspect(ctx context.Context, host string) (*certificate.Result, error)
}

// RecordResolver enumerates the DNS records of a host
type RecordResolver interface {
	Resolve(ctx context.Context, host string) ([]dnsrecords.Record, error)
}

// HeaderAuditor reports the security headers returned by a URL
type HeaderAuditor interface {
	Audit(ctx context.Context, target *url.URL) (*headers.Report, error)
}

// Notifier delivers messages to an external channel
type Notifier interface {
	Send(ctx context.Context, msg slack.Message) error
}

// Handler serves the check endpoints
type Handler struct {
	inspector      CertificateInspector
	resolver       RecordResolver
	auditor        HeaderAuditor
	notifier       Notifier
	maxBodySize    int64
	checkTimeout   time.Duration
	detailedErrors bool
	alertDays      int
	now            func() time.Time
}

// CheckRequest is the body accepted by the check endpoints
type CheckRequest struct {
	// Domain is the hostname to check, used by check-ssl and check-dns
	Domain string `json:"domain,omitempty"`
	// URL is the absolute URL to audit, used by check-headers
	URL string `json:"url,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	// Status is always "healthy" while the process serves requests
	Status string `json:"status"`
	// Service is the name of the service
	Service string `json:"service"`
	// Timestamp is the current server time
	Timestamp time.Time `json:"timestamp"`
}

// handleHealth reports liveness
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: h.now().UTC(),
	})
}
