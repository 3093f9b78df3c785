package slack

import "errors"

var (
	// ErrMissingWebhookURL is returned when no webhook URL is configured
	ErrMissingWebhookURL = errors.New("slack webhook URL is required")
	// ErrInvalidWebhookURL is returned when the webhook URL is not an absolute http(s) URL
	ErrInvalidWebhookURL = errors.New("slack webhook URL must be an absolute http or https URL")
	// ErrNotificationFailed is returned when the alert could not be delivered
	ErrNotificationFailed = errors.New("certificate alert delivery failed")
	// ErrUnexpectedStatus is returned when the webhook answers with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected slack webhook response status")
)
