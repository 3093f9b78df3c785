package dnsrecords

import "errors"

var (
	// ErrNXDomain is returned when the authoritative answer says the domain does not exist
	ErrNXDomain = errors.New("resolution failed: no such domain (NXDOMAIN)")
	// ErrServerFailure is returned when the resolver answers with a failure rcode
	ErrServerFailure = errors.New("resolver returned a failure response")
	// ErrNoResponse is returned when an exchange completes without a message
	ErrNoResponse = errors.New("resolver returned no response")
)
