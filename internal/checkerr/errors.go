package checkerr

import "errors"

var (
	// ErrValidation is returned when the check target is missing or malformed
	ErrValidation = errors.New("validation failed")
	// ErrResolution is returned when a hostname cannot be resolved
	ErrResolution = errors.New("resolution failed")
	// ErrNetwork is returned when a connection cannot be established or times out
	ErrNetwork = errors.New("network failure")
	// ErrCertificate is returned when the TLS handshake or certificate trust check fails
	ErrCertificate = errors.New("certificate error")
	// ErrNotFound is returned when the queried domain does not exist
	ErrNotFound = errors.New("domain not found")
	// ErrUpstream is returned for unexpected failures from an underlying library or server
	ErrUpstream = errors.New("upstream error")
)
