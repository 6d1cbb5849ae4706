package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/glowdesk/securekit/internal/errors"
)

// HTTPSMSSender delivers text messages through a JSON-over-HTTP SMS gateway.
// The gateway accepts POST {"to": "...", "body": "..."} with bearer auth.
type HTTPSMSSender struct {
	client     *http.Client
	gatewayURL string
	token      string
}

// NewHTTPSMSSender creates an SMSSender backed by an HTTP gateway.
func NewHTTPSMSSender(gatewayURL, token string) (*HTTPSMSSender, error) {
	if gatewayURL == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "sms gateway url is required")
	}

	return &HTTPSMSSender{
		client:     &http.Client{Timeout: 10 * time.Second},
		gatewayURL: gatewayURL,
		token:      token,
	}, nil
}

// SendSMS posts the message to the gateway.
func (h *HTTPSMSSender) SendSMS(ctx context.Context, message SMSMessage) error {
	body, err := json.Marshal(map[string]string{
		"to":   message.To,
		"body": message.Body,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: sms gateway returned status %d", ErrSendFailed, resp.StatusCode)
	}
	return nil
}
