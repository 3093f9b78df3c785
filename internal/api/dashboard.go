package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// dashboardCheck describes one form rendered on the dashboard
type dashboardCheck struct {
	ID          string
	Title       string
	Endpoint    string
	Field       string
	Placeholder string
}

// dashboardChecks lists the forms in display order
var dashboardChecks = []dashboardCheck{
	{ID: "ssl", Title: "SSL Certificate Checker", Endpoint: "/api/check-ssl", Field: "domain", Placeholder: "example.com"},
	{ID: "dns", Title: "DNS Record Analyzer", Endpoint: "/api/check-dns", Field: "domain", Placeholder: "example.com"},
	{ID: "headers", Title: "HTTP Security Headers", Endpoint: "/api/check-headers", Field: "url", Placeholder: "https://example.com"},
}

// handleDashboard renders the operator page
func (h *Handler) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, map[string]any{
		"Service": serviceName,
		"Checks":  dashboardChecks,
	}); err != nil {
		log.Error().Err(err).Msg("failed to render dashboard")
		writeError(w, http.StatusInternalServerError, "failed to render dashboard")

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("failed to write dashboard")
	}
}
