// Package pix implements the Pix charge provider: txid generation, the
// copy-paste payload with its QR code, and webhook signature handling.
package pix

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

var (
	ErrConfigInvalid    = errors.New("pix config invalid")
	ErrSignatureInvalid = errors.New("pix signature invalid")
)

// Config holds provider settings.
type Config struct {
	WebhookSecret string
	ExpireMinutes int
}

// Charge is a created Pix charge.
type Charge struct {
	TxID          string
	CopyPaste     string
	QRCodeDataURL string
	ExpiresAt     time.Time
}

// Client creates charges and verifies webhook signatures.
type Client struct {
	cfg Config
}

// NewClient builds a provider client.
func NewClient(cfg Config) *Client {
	if cfg.ExpireMinutes <= 0 {
		cfg.ExpireMinutes = 30
	}
	return &Client{cfg: cfg}
}

// GenerateTxID returns a fresh Pix transaction id. Pix requires 26-35
// characters; a hyphenless UUID gives 32.
func GenerateTxID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CreateCharge builds a charge for the given txid and amount. The
// payload format is stable so paid webhooks can be replayed in tests.
func (c *Client) CreateCharge(txid string, amount decimal.Decimal) (*Charge, error) {
	if txid == "" {
		return nil, ErrConfigInvalid
	}
	copyPaste := fmt.Sprintf("000201|MIXCAMPEAO|TXID:%s|AMOUNT:%s", txid, amount.Round(2).StringFixed(2))

	png, err := qrcode.Encode(copyPaste, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("pix qrcode encode failed: %w", err)
	}

	return &Charge{
		TxID:          txid,
		CopyPaste:     copyPaste,
		QRCodeDataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		ExpiresAt:     time.Now().Add(time.Duration(c.cfg.ExpireMinutes) * time.Minute),
	}, nil
}

// SignPayload computes the webhook signature over the raw body.
func (c *Client) SignPayload(body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.cfg.WebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature in constant time.
func (c *Client) VerifySignature(body []byte, signature string) error {
	if c.cfg.WebhookSecret == "" {
		return ErrConfigInvalid
	}
	expected := c.SignPayload(body)
	if !hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature))) {
		return ErrSignatureInvalid
	}
	return nil
}
