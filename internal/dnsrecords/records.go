package dnsrecords

import (
	"strings"

	"github.com/miekg/dns"
)

// Record is a single DNS resource record in its JSON shape
type Record interface {
	// RecordType returns the record type mnemonic, such as "MX"
	RecordType() string
}

// AddressRecord is an A or AAAA record
type AddressRecord struct {
	Type    string `json:"type"`
	Address string `json:"address"`
	TTL     uint32 `json:"ttl"`
}

// RecordType implements Record
func (r AddressRecord) RecordType() string { return r.Type }

// NameRecord is a CNAME or NS record pointing at another name
type NameRecord struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	TTL   uint32 `json:"ttl"`
}

// RecordType implements Record
func (r NameRecord) RecordType() string { return r.Type }

// MXRecord is a mail exchanger record
type MXRecord struct {
	Type     string `json:"type"`
	Exchange string `json:"exchange"`
	Priority uint16 `json:"priority"`
	TTL      uint32 `json:"ttl"`
}

// RecordType implements Record
func (r MXRecord) RecordType() string { return r.Type }

// TXTRecord holds the character strings of a TXT record
type TXTRecord struct {
	Type    string   `json:"type"`
	Entries []string `json:"entries"`
	TTL     uint32   `json:"ttl"`
}

// RecordType implements Record
func (r TXTRecord) RecordType() string { return r.Type }

// SOARecord is the start-of-authority record of a zone
type SOARecord struct {
	Type       string `json:"type"`
	Nsname     string `json:"nsname"`
	Hostmaster string `json:"hostmaster"`
	Serial     uint32 `json:"serial"`
	Refresh    uint32 `json:"refresh"`
	Retry      uint32 `json:"retry"`
	Expire     uint32 `json:"expire"`
	Minttl     uint32 `json:"minttl"`
	TTL        uint32 `json:"ttl"`
}

// RecordType implements Record
func (r SOARecord) RecordType() string { return r.Type }

// toRecord converts a resource record into its JSON shape, reporting false for unsupported types
func toRecord(rr dns.RR) (Record, bool) {
	ttl := rr.Header().Ttl

	switch v := rr.(type) {
	case *dns.A:
		return AddressRecord{Type: "A", Address: v.A.String(), TTL: ttl}, true
	case *dns.AAAA:
		return AddressRecord{Type: "AAAA", Address: v.AAAA.String(), TTL: ttl}, true
	case *dns.CNAME:
		return NameRecord{Type: "CNAME", Value: trimDot(v.Target), TTL: ttl}, true
	case *dns.NS:
		return NameRecord{Type: "NS", Value: trimDot(v.Ns), TTL: ttl}, true
	case *dns.MX:
		return MXRecord{Type: "MX", Exchange: trimDot(v.Mx), Priority: v.Preference, TTL: ttl}, true
	case *dns.TXT:
		entries := make([]string, len(v.Txt))
		copy(entries, v.Txt)

		return TXTRecord{Type: "TXT", Entries: entries, TTL: ttl}, true
	case *dns.SOA:
		return SOARecord{
			Type:       "SOA",
			Nsname:     trimDot(v.Ns),
			Hostmaster: trimDot(v.Mbox),
			Serial:     v.Serial,
			Refresh:    v.Refresh,
			Retry:      v.Retry,
			Expire:     v.Expire,
			Minttl:     v.Minttl,
			TTL:        ttl,
		}, true
	default:
		return nil, false
	}
}

func trimDot(name string) string {
	return strings.TrimSuffix(name, ".")
}
