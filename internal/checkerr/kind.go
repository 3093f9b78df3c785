// Package checkerr defines the failure taxonomy shared by every checker and the
// classification helpers that map library errors onto it.
package checkerr

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Kind identifies a class of check failure
type Kind string

const (
	// KindValidation marks bad or missing input
	KindValidation Kind = "validation"
	// KindResolution marks a hostname that could not be resolved
	KindResolution Kind = "resolution"
	// KindNetwork marks connection and timeout failures
	KindNetwork Kind = "network"
	// KindCertificate marks TLS handshake and certificate trust failures
	KindCertificate Kind = "certificate"
	// KindNotFound marks a domain that does not exist
	KindNotFound Kind = "not_found"
	// KindUpstream marks any other library or server failure
	KindUpstream Kind = "upstream"
)

var kindSentinels = map[Kind]error{
	KindValidation:  ErrValidation,
	KindResolution:  ErrResolution,
	KindNetwork:     ErrNetwork,
	KindCertificate: ErrCertificate,
	KindNotFound:    ErrNotFound,
	KindUpstream:    ErrUpstream,
}

// Error is a classified check failure
type Error struct {
	// Kind is the failure class
	Kind Kind
	// Target is the hostname or URL being checked
	Target string
	// Err is the underlying cause
	Err error
	// Timeout reports whether the failure was caused by a deadline
	Timeout bool
}

// Error implements the error interface
func (e *Error) Error() string {
	sentinel := kindSentinels[e.Kind]
	if sentinel == nil {
		sentinel = ErrUpstream
	}

	switch {
	case e.Target != "" && e.Err != nil:
		return fmt.Sprintf("%s for %s: %v", sentinel, e.Target, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", sentinel, e.Err)
	case e.Target != "":
		return fmt.Sprintf("%s for %s", sentinel, e.Target)
	default:
		return sentinel.Error()
	}
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel belonging to the error's kind
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// New returns a classified error of the given kind
func New(kind Kind, target string, err error) *Error {
	return &Error{Kind: kind, Target: target, Err: err}
}

// KindOf returns the failure class of err, defaulting to KindUpstream
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}

	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}

	return KindUpstream
}

// IsTimeout reports whether err was caused by an expired deadline
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}

	var ce *Error
	if errors.As(err, &ce) && ce.Timeout {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

// Classify maps an error returned by a network library onto the taxonomy.
// Errors that are already classified are returned unchanged.
func Classify(target string, err error) error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return err
	}

	classified := &Error{Target: target, Err: err, Timeout: IsTimeout(err)}

	var (
		dnsErr    *net.DNSError
		opErr     *net.OpError
		unknownCA x509.UnknownAuthorityError
		hostErr   x509.HostnameError
		certErr   x509.CertificateInvalidError
		recordErr tls.RecordHeaderError
		verifyErr *tls.CertificateVerificationError
		urlErr    *url.Error
	)

	switch {
	case errors.As(err, &dnsErr) && !dnsErr.IsTimeout:
		classified.Kind = KindResolution
	case errors.As(err, &unknownCA), errors.As(err, &hostErr), errors.As(err, &certErr),
		errors.As(err, &verifyErr), errors.As(err, &recordErr):
		classified.Kind = KindCertificate
	case classified.Timeout, errors.Is(err, context.Canceled):
		classified.Kind = KindNetwork
	case errors.As(err, &opErr):
		classified.Kind = KindNetwork
	case errors.As(err, &urlErr):
		classified.Kind = KindNetwork
	default:
		classified.Kind = KindUpstream
	}

	return classified
}
