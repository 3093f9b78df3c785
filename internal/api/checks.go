package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/theopenlane/secdash/internal/certificate"
	"github.com/theopenlane/secdash/internal/checkerr"
	"github.com/theopenlane/secdash/internal/domain"
	"github.com/theopenlane/secdash/internal/slack"
)

// handleCheckSSL inspects the TLS certificate of {"domain"}
func (h *Handler) handleCheckSSL(w http.ResponseWriter, r *http.Request) {
	dispatch(h, w, r, check[string]{
		name:     "ssl",
		input:    func(req CheckRequest) string { return req.Domain },
		validate: validHostname,
		run: func(ctx context.Context, host string) (any, error) {
			if h.inspector == nil {
				return nil, checkerr.New(checkerr.KindUpstream, host, ErrCheckerNotConfigured)
			}

			result, err := h.inspector.Inspect(ctx, host)
			if err != nil {
				return nil, err
			}

			h.alertExpiry(ctx, host, result)

			return result, nil
		},
	})
}

// handleCheckDNS enumerates the DNS records of {"domain"}
func (h *Handler) handleCheckDNS(w http.ResponseWriter, r *http.Request) {
	dispatch(h, w, r, check[string]{
		name:     "dns",
		input:    func(req CheckRequest) string { return req.Domain },
		validate: validHostname,
		run: func(ctx context.Context, host string) (any, error) {
			if h.resolver == nil {
				return nil, checkerr.New(checkerr.KindUpstream, host, ErrCheckerNotConfigured)
			}

			return h.resolver.Resolve(ctx, host)
		},
	})
}

// handleCheckHeaders audits the security headers returned by {"url"}
func (h *Handler) handleCheckHeaders(w http.ResponseWriter, r *http.Request) {
	dispatch(h, w, r, check[*url.URL]{
		name:     "headers",
		input:    func(req CheckRequest) string { return req.URL },
		validate: domain.URL,
		run: func(ctx context.Context, target *url.URL) (any, error) {
			if h.auditor == nil {
				return nil, checkerr.New(checkerr.KindUpstream, target.String(), ErrCheckerNotConfigured)
			}

			return h.auditor.Audit(ctx, target)
		},
	})
}

// validHostname returns the normalized hostname
func validHostname(raw string) (string, error) {
	info, err := domain.Hostname(raw)
	if err != nil {
		return "", err
	}

	return info.Domain, nil
}

// alertExpiry notifies when the certificate is expired or inside the alert window.
// Delivery happens in the background and failures are only logged.
func (h *Handler) alertExpiry(ctx context.Context, host string, result *certificate.Result) {
	if h.notifier == nil || result.DaysRemaining >= h.alertDays {
		return
	}

	alert := slack.CertificateAlert{
		Host:          host,
		Issuer:        result.Issuer,
		ValidTo:       result.ValidTo,
		DaysRemaining: result.DaysRemaining,
	}

	base := context.WithoutCancel(ctx)

	go func() {
		sendCtx, cancel := context.WithTimeout(base, alertTimeout)
		defer cancel()

		if err := h.notifier.Send(sendCtx, alert.Message()); err != nil {
			log.Warn().Err(err).Str("target", host).Msg("certificate expiry alert failed")
			return
		}

		log.Info().Str("target", host).Int("days_remaining", alert.DaysRemaining).Msg("certificate expiry alert sent")
	}()
}
