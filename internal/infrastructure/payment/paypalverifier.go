// Package payment holds the payment processor integrations.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"hash/crc32"
	"strconv"
	"time"

	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/shared/biztime"
)

// PayPalVerifier checks the HMAC-SHA256 signature of a webhook delivery.
// The signed message follows the processor layout:
// transmissionId|transmissionTime|webhookId|crc32(body).
type PayPalVerifier struct {
	secret    []byte
	webhookID string
	tolerance time.Duration
	now       func() time.Time
}

var _ webhook.SignatureVerifier = (*PayPalVerifier)(nil)

// NewPayPalVerifier builds a verifier. An empty secret rejects every delivery;
// a zero tolerance disables the transmission time check.
func NewPayPalVerifier(secret, webhookID string, tolerance time.Duration) *PayPalVerifier {
	return &PayPalVerifier{
		secret:    []byte(secret),
		webhookID: webhookID,
		tolerance: tolerance,
		now:       biztime.NowUTC,
	}
}

func (v *PayPalVerifier) Verify(headers webhook.SignatureHeaders, body []byte) error {
	if len(v.secret) == 0 {
		return fmt.Errorf("%w: webhook secret is not configured", webhook.ErrInvalidSignature)
	}
	if headers.TransmissionID == "" || headers.TransmissionTime == "" || headers.TransmissionSig == "" {
		return fmt.Errorf("%w: missing signature headers", webhook.ErrInvalidSignature)
	}

	given, err := base64.StdEncoding.DecodeString(headers.TransmissionSig)
	if err != nil {
		return fmt.Errorf("%w: signature is not base64", webhook.ErrInvalidSignature)
	}

	expected := v.sign(headers.TransmissionID, headers.TransmissionTime, body)
	if !hmac.Equal(given, expected) {
		return fmt.Errorf("%w: signature mismatch", webhook.ErrInvalidSignature)
	}

	if v.tolerance > 0 {
		sentAt, err := time.Parse(time.RFC3339Nano, headers.TransmissionTime)
		if err != nil {
			return fmt.Errorf("%w: invalid transmission time", webhook.ErrInvalidSignature)
		}
		if skew := v.now().Sub(sentAt); skew > v.tolerance || skew < -v.tolerance {
			return fmt.Errorf("%w: transmission time outside tolerance", webhook.ErrInvalidSignature)
		}
	}

	return nil
}

func (v *PayPalVerifier) sign(transmissionID, transmissionTime string, body []byte) []byte {
	message := transmissionID + "|" + transmissionTime + "|" + v.webhookID + "|" +
		strconv.FormatUint(uint64(crc32.ChecksumIEEE(body)), 10)

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(message))
	return mac.Sum(nil)
}

// Sign produces the signature header value for a delivery. Tests and local
// tooling use it to forge valid deliveries.
func Sign(secret, webhookID, transmissionID, transmissionTime string, body []byte) string {
	v := NewPayPalVerifier(secret, webhookID, 0)
	return base64.StdEncoding.EncodeToString(v.sign(transmissionID, transmissionTime, body))
}
