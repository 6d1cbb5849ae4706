package notification

import (
	"context"
	"log/slog"
)

// DevEmailSender logs emails instead of sending them, for local development
// and tests. Message bodies carry one-time codes so they are logged at debug
// level only.
type DevEmailSender struct {
	logger *slog.Logger
}

// NewDevEmailSender creates a logging EmailSender.
func NewDevEmailSender(logger *slog.Logger) *DevEmailSender {
	return &DevEmailSender{logger: logger}
}

// SendEmail logs the message.
func (d *DevEmailSender) SendEmail(ctx context.Context, message EmailMessage) error {
	d.logger.Info("dev email sender",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
	)
	d.logger.Debug("dev email body", slog.String("body", message.Body))
	return nil
}

// DevSMSSender logs text messages instead of sending them.
type DevSMSSender struct {
	logger *slog.Logger
}

// NewDevSMSSender creates a logging SMSSender.
func NewDevSMSSender(logger *slog.Logger) *DevSMSSender {
	return &DevSMSSender{logger: logger}
}

// SendSMS logs the message.
func (d *DevSMSSender) SendSMS(ctx context.Context, message SMSMessage) error {
	d.logger.Info("dev sms sender", slog.String("to", message.To))
	d.logger.Debug("dev sms body", slog.String("body", message.Body))
	return nil
}
