package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/projectdiscovery/tlsx/pkg/tlsx/clients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theopenlane/secdash/internal/certificate"
	"github.com/theopenlane/secdash/internal/dnsrecords"
	"github.com/theopenlane/secdash/internal/headers"
)

type staticResolver []string

func (s staticResolver) LookupHost(_ context.Context, _ string) ([]string, error) {
	return s, nil
}

type staticConnector struct {
	cert clients.CertificateResponse
}

func (s staticConnector) Connect(_ context.Context, host, _, port string) (*clients.Response, error) {
	cert := s.cert

	return &clients.Response{Host: host, Port: port, CertificateResponse: &cert}, nil
}

// startNXDomainServer runs a local DNS server that denies every name
func startNXDomainServer(t *testing.T) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &dns.Server{
		PacketConn: pc,
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			msg := new(dns.Msg)
			msg.SetRcode(r, dns.RcodeNameError)
			_ = w.WriteMsg(msg)
		}),
	}

	go func() { _ = server.ActivateAndServe() }()

	t.Cleanup(func() { _ = server.Shutdown() })

	return pc.LocalAddr().String()
}

func newEndToEndRouter(t *testing.T) http.Handler {
	t.Helper()

	now := time.Now().UTC()

	inspector, err := certificate.New(
		certificate.WithResolver(staticResolver{"192.0.2.10"}),
		certificate.WithConnector(staticConnector{cert: clients.CertificateResponse{
			NotBefore: now.AddDate(0, -1, 0),
			NotAfter:  now.AddDate(0, 2, 0),
			SubjectDN: "CN=example.com",
			IssuerDN:  "CN=Test CA",
			SubjectAN: []string{"example.com"},
		}}),
	)
	require.NoError(t, err)

	return NewRouter(RouterConfig{
		Inspector:    inspector,
		Resolver:     dnsrecords.New(dnsrecords.WithServer(startNXDomainServer(t)), dnsrecords.WithTimeout(time.Second)),
		Auditor:      headers.New(),
		MaxBodySize:  4096,
		CheckTimeout: 5 * time.Second,
	})
}

func TestEndToEndCheckSSL(t *testing.T) {
	router := newEndToEndRouter(t)

	w := postJSON(t, router, "/api/check-ssl", `{"domain":"example.com"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var result certificate.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.True(t, result.Valid)
	assert.GreaterOrEqual(t, result.DaysRemaining, 0)
	assert.Equal(t, "CN=Test CA", result.Issuer)
	assert.Equal(t, []string{"example.com"}, result.ValidFor)
}

func TestEndToEndCheckDNSNonexistentDomain(t *testing.T) {
	router := newEndToEndRouter(t)

	w := postJSON(t, router, "/api/check-dns", `{"domain":"nonexistent-domain-xyz.invalid"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeError(t, w), "resolution failed")
}

func TestEndToEndCheckHeaders(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("x-content-type-options", "nosniff")
		w.WriteHeader(http.StatusOK)
	}))
	defer site.Close()

	router := newEndToEndRouter(t)

	w := postJSON(t, router, "/api/check-headers", `{"url":"`+site.URL+`"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]*string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	require.Len(t, body, len(headers.TrackedHeaders))

	for _, name := range headers.TrackedHeaders {
		assert.Contains(t, body, name)
	}

	require.NotNil(t, body["X-Frame-Options"])
	assert.Equal(t, "DENY", *body["X-Frame-Options"])
	require.NotNil(t, body["X-Content-Type-Options"])
	assert.Equal(t, "nosniff", *body["X-Content-Type-Options"])
	assert.Nil(t, body["Strict-Transport-Security"])
}
