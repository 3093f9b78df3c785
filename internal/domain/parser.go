// Package domain validates and normalizes the hostnames and URLs submitted to the checkers.
// Validation is purely syntactic and never touches the network.
package domain

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

const (
	// MaxHostnameLength is the longest hostname accepted, per RFC 1035
	MaxHostnameLength = 253
	// MaxURLLength is the longest URL accepted by the header auditor
	MaxURLLength = 2048
	// maxLabelLength is the longest single DNS label
	maxLabelLength = 63
	// minLabels is the number of labels needed for a name with a top-level domain
	minLabels = 2
)

// Info contains parsed domain information
type Info struct {
	Domain    string `json:"domain"`
	Subdomain string `json:"subdomain,omitempty"`
	TLD       string `json:"tld"`
	SLD       string `json:"sld"`
}

// Hostname validates a bare hostname such as "www.example.com" and splits it
// into its public suffix parts
func Hostname(input string) (*Info, error) {
	input = strings.ToLower(strings.TrimSpace(input))

	if input == "" {
		return nil, ErrEmptyInput
	}

	if !isASCII(input) {
		ascii, err := idna.Lookup.ToASCII(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDomainFormat, err)
		}

		input = ascii
	}

	if len(input) > MaxHostnameLength {
		return nil, ErrInputTooLong
	}

	if strings.ContainsAny(input, "/:@?#") {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDomainFormat, errHostnameHasURLParts)
	}

	input = strings.TrimSuffix(input, ".")

	if net.ParseIP(input) != nil {
		return nil, fmt.Errorf("%w: IP addresses are not hostnames", ErrInvalidDomainFormat)
	}

	labels := strings.Split(input, ".")
	if len(labels) < minLabels {
		return nil, fmt.Errorf("%w: %q has no top-level domain", ErrInvalidDomainFormat, input)
	}

	for _, label := range labels {
		if err := validateLabel(label); err != nil {
			return nil, err
		}
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDomainFormat, err)
	}

	tld, _ := publicsuffix.PublicSuffix(input)
	sld := strings.TrimSuffix(etld1, "."+tld)
	subdomain := ""
	if etld1 != input {
		subdomain = strings.TrimSuffix(input, "."+etld1)
	}

	return &Info{
		Domain:    input,
		Subdomain: subdomain,
		TLD:       tld,
		SLD:       sld,
	}, nil
}

// isASCII reports whether s needs no IDNA conversion
func isASCII(s string) bool {
	for i := range len(s) {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}

// validateLabel checks a single DNS label for length and allowed characters
func validateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidDomainFormat)
	}

	if len(label) > maxLabelLength {
		return fmt.Errorf("%w: label %q exceeds %d characters", ErrInvalidDomainFormat, label, maxLabelLength)
	}

	if label[0] == '-' || label[len(label)-1] == '-' {
		return fmt.Errorf("%w: label %q starts or ends with a hyphen", ErrInvalidDomainFormat, label)
	}

	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: label %q contains invalid character %q", ErrInvalidDomainFormat, label, r)
		}
	}

	return nil
}

// URL validates an absolute http or https URL for the header auditor
func URL(input string) (*url.URL, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return nil, ErrEmptyInput
	}

	if len(input) > MaxURLLength {
		return nil, ErrInputTooLong
	}

	if strings.ContainsAny(input, " \t\r\n") {
		return nil, fmt.Errorf("%w: URL contains whitespace", ErrInvalidURLFormat)
	}

	u, err := url.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURLFormat, err)
	}

	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidURLFormat, input)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedScheme, u.Scheme)
	}

	if u.User != nil {
		return nil, fmt.Errorf("%w: credentials are not allowed in the URL", ErrInvalidURLFormat)
	}

	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURLFormat)
	}

	return u, nil
}
