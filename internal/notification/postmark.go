package notification

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"

	apperrors "github.com/glowdesk/securekit/internal/errors"
)

// PostmarkEmailSender delivers email through Postmark's transactional API.
type PostmarkEmailSender struct {
	client *postmark.Client
	from   string
}

// NewPostmarkEmailSender creates a Postmark-backed EmailSender. Tokens and
// the sender address are required so a misconfigured deployment fails at
// startup instead of at first send.
func NewPostmarkEmailSender(serverToken, accountToken, from string) (*PostmarkEmailSender, error) {
	if serverToken == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "postmark server token is required")
	}
	if accountToken == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "postmark account token is required")
	}
	if from == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "email sender address is required")
	}

	return &PostmarkEmailSender{
		client: postmark.NewClient(serverToken, accountToken),
		from:   from,
	}, nil
}

// SendEmail sends a plain-text transactional email.
func (p *PostmarkEmailSender) SendEmail(ctx context.Context, message EmailMessage) error {
	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:     p.from,
		To:       message.To,
		Subject:  message.Subject,
		TextBody: message.Body,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: postmark error %d: %s", ErrSendFailed, resp.ErrorCode, resp.Message)
	}
	return nil
}
