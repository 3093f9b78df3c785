package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig holds the dependencies and settings for the API router
type RouterConfig struct {
	// Inspector serves check-ssl
	Inspector CertificateInspector
	// Resolver serves check-dns
	Resolver RecordResolver
	// Auditor serves check-headers
	Auditor HeaderAuditor
	// Notifier receives certificate expiry alerts, nil disables alerts
	Notifier Notifier
	// MaxBodySize caps request bodies in bytes, 0 disables the cap
	MaxBodySize int64
	// CheckTimeout bounds a single check
	CheckTimeout time.Duration
	// DetailedErrors maps failure kinds to distinct status codes instead of 500
	DetailedErrors bool
	// AlertDays is the expiry threshold for certificate alerts
	AlertDays int
	// RateLimit is the sustained number of check requests per second, 0 disables limiting
	RateLimit float64
	// RateBurst is the number of check requests allowed in a burst
	RateBurst int
}

// NewRouter creates a new chi router with all endpoints and middleware
func NewRouter(cfg RouterConfig) http.Handler {
	h := newHandler(cfg)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(requestLogFormatter{}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.Get("/", h.handleDashboard)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(rateLimit(cfg.RateLimit, cfg.RateBurst))

			r.Post("/check-ssl", h.handleCheckSSL)
			r.Post("/check-dns", h.handleCheckDNS)
			r.Post("/check-headers", h.handleCheckHeaders)
		})
	})

	return r
}

// newHandler applies defaults to the router configuration
func newHandler(cfg RouterConfig) *Handler {
	h := &Handler{
		inspector:      cfg.Inspector,
		resolver:       cfg.Resolver,
		auditor:        cfg.Auditor,
		notifier:       cfg.Notifier,
		maxBodySize:    cfg.MaxBodySize,
		checkTimeout:   cfg.CheckTimeout,
		detailedErrors: cfg.DetailedErrors,
		alertDays:      cfg.AlertDays,
		now:            time.Now,
	}

	if h.checkTimeout <= 0 {
		h.checkTimeout = defaultCheckTimeout
	}

	if h.alertDays <= 0 {
		h.alertDays = defaultAlertDays
	}

	return h
}
