package certificate

import "errors"

var (
	// ErrNoCertificate is returned when the server completes the connection without presenting a certificate
	ErrNoCertificate = errors.New("server presented no certificate")
	// ErrNoAddresses is returned when the resolver answers without any address
	ErrNoAddresses = errors.New("host resolved to no addresses")
	// ErrUntrustedCertificate is returned in strict mode when the leaf certificate fails a trust check
	ErrUntrustedCertificate = errors.New("certificate is not trusted")
)
