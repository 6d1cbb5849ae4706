// Package service implements the MFA primitives: RFC 6238 time-based
// one-time passwords with provisioning URIs and QR codes, and random numeric
// codes for SMS/email delivery.
package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	apperrors "github.com/glowdesk/securekit/internal/errors"
)

const (
	totpDigits = 6
	totpPeriod = 30
	// 160-bit secrets per RFC 4226.
	totpSecretSize = 20
)

// secretRegex matches base32 without padding.
var secretRegex = regexp.MustCompile(`^[A-Z2-7]+$`)

// TOTPService generates and verifies RFC 6238 time-based one-time passwords.
type TOTPService struct {
	issuer string
	now    func() time.Time
}

// NewTOTPService creates a TOTPService. The issuer is displayed by
// authenticator apps next to the account name.
func NewTOTPService(issuer string) *TOTPService {
	return &TOTPService{issuer: issuer, now: time.Now}
}

// GenerateSecret returns a new base32-encoded shared secret.
func (t *TOTPService) GenerateSecret() (string, error) {
	secret := make([]byte, totpSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return "", apperrors.Wrap(err, "failed to generate totp secret")
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(secret), nil
}

// ProvisioningURI builds the otpauth:// URI consumed by authenticator apps.
// Format: https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func (t *TOTPService) ProvisioningURI(secret, accountName string) string {
	label := fmt.Sprintf("%s:%s", url.PathEscape(t.issuer), url.PathEscape(accountName))

	query := url.Values{}
	query.Set("secret", secret)
	query.Set("issuer", t.issuer)
	query.Set("algorithm", "SHA1")
	query.Set("digits", fmt.Sprintf("%d", totpDigits))
	query.Set("period", fmt.Sprintf("%d", totpPeriod))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode())
}

// QRCodePNG renders a provisioning URI as a PNG image.
func (t *TOTPService) QRCodePNG(uri string, size int) ([]byte, error) {
	png, err := qrcode.Encode(uri, qrcode.Medium, size)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode qr code")
	}
	return png, nil
}

// Validate checks a 6-digit code against the secret, accepting the previous,
// current, and next 30-second windows to tolerate clock drift.
func (t *TOTPService) Validate(secret, code string) bool {
	key, ok := decodeSecret(secret)
	if !ok {
		return false
	}

	code = strings.TrimSpace(code)
	if len(code) != totpDigits {
		return false
	}

	counter := t.now().Unix() / totpPeriod
	valid := false
	for i := int64(-1); i <= 1; i++ {
		candidate := fmt.Sprintf("%06d", hotp(key, counter+i))
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(code)) == 1 {
			valid = true
		}
	}
	return valid
}

// CodeAt returns the code for the window containing the given time.
func (t *TOTPService) CodeAt(secret string, at time.Time) (string, error) {
	key, ok := decodeSecret(secret)
	if !ok {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "malformed totp secret")
	}
	return fmt.Sprintf("%06d", hotp(key, at.Unix()/totpPeriod)), nil
}

func decodeSecret(secret string) ([]byte, bool) {
	secret = strings.TrimSpace(strings.ToUpper(secret))
	if !secretRegex.MatchString(secret) {
		return nil, false
	}
	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	if err != nil {
		return nil, false
	}
	return key, true
}

// hotp implements the RFC 4226 HMAC-based one-time password algorithm with
// HMAC-SHA1 and dynamic truncation.
func hotp(key []byte, counter int64) int {
	counterBytes := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		counterBytes[i] = byte(counter & 0xff)
		counter >>= 8
	}

	mac := hmac.New(sha1.New, key)
	mac.Write(counterBytes)
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	code := (int(sum[offset]&0x7f) << 24) |
		(int(sum[offset+1]) << 16) |
		(int(sum[offset+2]) << 8) |
		int(sum[offset+3])

	return code % 1000000
}
