package certificate

import (
	"context"
	"fmt"
	"time"

	"github.com/projectdiscovery/tlsx/pkg/tlsx"
	"github.com/projectdiscovery/tlsx/pkg/tlsx/clients"
)

const (
	// defaultTLSTimeout is the fallback timeout in seconds for TLS connections
	defaultTLSTimeout = 10
)

// Connector retrieves the TLS handshake details presented by a host
type Connector interface {
	Connect(ctx context.Context, host, ip, port string) (*clients.Response, error)
}

// tlsxConnector performs the handshake with the tlsx library
type tlsxConnector struct {
	service *tlsx.Service
}

// newTLSXConnector builds a tlsx service; revocation lookups are only enabled in strict mode
func newTLSXConnector(timeout time.Duration, strict bool) (*tlsxConnector, error) {
	seconds := int(timeout.Seconds())
	if seconds <= 0 {
		seconds = defaultTLSTimeout
	}

	options := &clients.Options{
		Timeout:    seconds,
		Expired:    true,
		SelfSigned: true,
		MisMatched: true,
		Revoked:    strict,
		MinVersion: "tls10",
		MaxVersion: "tls13",
	}

	service, err := tlsx.New(options)
	if err != nil {
		return nil, fmt.Errorf("initializing tlsx: %w", err)
	}

	return &tlsxConnector{service: service}, nil
}

// Connect runs the tlsx handshake, returning early when ctx is done
func (c *tlsxConnector) Connect(ctx context.Context, host, ip, port string) (*clients.Response, error) {
	type outcome struct {
		resp *clients.Response
		err  error
	}

	done := make(chan outcome, 1)

	go func() {
		resp, err := c.service.Connect(host, ip, port)
		done <- outcome{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		return o.resp, o.err
	}
}
