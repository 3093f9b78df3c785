package slack

import (
	"fmt"
	"time"
)

// Message represents a Slack webhook message payload
type Message struct {
	// Text is the fallback text for the notification
	Text string `json:"text"`
	// Blocks holds the rich layout blocks for the message
	Blocks []Block `json:"blocks,omitempty"`
}

// Block represents a Slack Block Kit block
type Block struct {
	Type   string       `json:"type"`
	Text   *TextObject  `json:"text,omitempty"`
	Fields []TextObject `json:"fields,omitempty"`
}

// TextObject represents a Slack text object
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CertificateAlert describes a certificate that is expired or close to expiry
type CertificateAlert struct {
	Host          string
	Issuer        string
	ValidTo       time.Time
	DaysRemaining int
}

// Expired reports whether the certificate is already past its validity window
func (a CertificateAlert) Expired() bool {
	return a.DaysRemaining < 0
}

// headline summarizes the alert in one line
func (a CertificateAlert) headline() string {
	switch {
	case a.Expired():
		return fmt.Sprintf("TLS certificate for %s has expired", a.Host)
	case a.DaysRemaining == 0:
		return fmt.Sprintf("TLS certificate for %s expires today", a.Host)
	case a.DaysRemaining == 1:
		return fmt.Sprintf("TLS certificate for %s expires in 1 day", a.Host)
	default:
		return fmt.Sprintf("TLS certificate for %s expires in %d days", a.Host, a.DaysRemaining)
	}
}

// Message renders the alert as a Block Kit message
func (a CertificateAlert) Message() Message {
	headline := a.headline()

	fields := []TextObject{
		{Type: "mrkdwn", Text: fmt.Sprintf("*Host:*\n%s", a.Host)},
		{Type: "mrkdwn", Text: fmt.Sprintf("*Valid until:*\n%s", a.ValidTo.UTC().Format(time.RFC1123))},
	}

	if a.Issuer != "" {
		fields = append(fields, TextObject{Type: "mrkdwn", Text: fmt.Sprintf("*Issuer:*\n%s", a.Issuer)})
	}

	return Message{
		Text: headline,
		Blocks: []Block{
			{
				Type: "header",
				Text: &TextObject{Type: "plain_text", Text: headline},
			},
			{
				Type:   "section",
				Fields: fields,
			},
		},
	}
}
