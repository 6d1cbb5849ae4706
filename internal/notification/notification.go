// Package notification provides the outbound channels used to deliver
// one-time codes: transactional email and an SMS gateway. Senders are
// fire-and-forget; a failed send surfaces as an error to the caller.
package notification

import (
	"context"
	"errors"
)

// ErrSendFailed indicates an outbound message could not be delivered.
var ErrSendFailed = errors.New("failed to send notification")

// EmailMessage is a plain-text transactional email.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// SMSMessage is a short text message to an E.164 phone number.
type SMSMessage struct {
	To   string
	Body string
}

// EmailSender delivers transactional email.
type EmailSender interface {
	SendEmail(ctx context.Context, message EmailMessage) error
}

// SMSSender delivers text messages.
type SMSSender interface {
	SendSMS(ctx context.Context, message SMSMessage) error
}
