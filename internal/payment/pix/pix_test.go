package pix

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestGenerateTxID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		txid := GenerateTxID()
		// Pix accepts 26-35 characters.
		if len(txid) < 26 || len(txid) > 35 {
			t.Fatalf("txid length out of range: %d (%s)", len(txid), txid)
		}
		if strings.Contains(txid, "-") {
			t.Fatalf("txid must not contain hyphens: %s", txid)
		}
		if seen[txid] {
			t.Fatalf("duplicate txid: %s", txid)
		}
		seen[txid] = true
	}
}

func TestCreateCharge(t *testing.T) {
	client := NewClient(Config{WebhookSecret: "s3cret", ExpireMinutes: 30})
	amount, _ := decimal.NewFromString("49.9")

	charge, err := client.CreateCharge("abc123abc123abc123abc123abc123", amount)
	if err != nil {
		t.Fatalf("create charge failed: %v", err)
	}
	want := "000201|MIXCAMPEAO|TXID:abc123abc123abc123abc123abc123|AMOUNT:49.90"
	if charge.CopyPaste != want {
		t.Fatalf("copy-paste payload: got %q expected %q", charge.CopyPaste, want)
	}
	if !strings.HasPrefix(charge.QRCodeDataURL, "data:image/png;base64,") {
		t.Fatalf("expected PNG data URL, got %q", charge.QRCodeDataURL[:32])
	}
	now := time.Now()
	if charge.ExpiresAt.Before(now.Add(29*time.Minute)) || charge.ExpiresAt.After(now.Add(31*time.Minute)) {
		t.Fatalf("expiry not ~30min out: %v", charge.ExpiresAt)
	}
}

func TestCreateChargeRequiresTxID(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.CreateCharge("", decimal.NewFromInt(10)); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestWebhookSignature(t *testing.T) {
	client := NewClient(Config{WebhookSecret: "s3cret"})
	body := []byte(`{"txid":"abc","status":"PAID"}`)

	sig := client.SignPayload(body)
	if err := client.VerifySignature(body, sig); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	if err := client.VerifySignature(body, sig+"00"); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
	if err := client.VerifySignature([]byte("tampered"), sig); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid for tampered body, got %v", err)
	}
}

func TestVerifySignatureWithoutSecret(t *testing.T) {
	client := NewClient(Config{})
	if err := client.VerifySignature([]byte("x"), "y"); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}
