package portal

import (
	"testing"
	"time"
)

func TestMintAndVerifyLinkToken(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	tok, err := MintLinkToken(42, "secret", 72*time.Hour, now)
	if err != nil {
		t.Fatalf("MintLinkToken: %v", err)
	}

	customerID, err := VerifyLinkToken(tok, "secret", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("VerifyLinkToken: %v", err)
	}
	if customerID != 42 {
		t.Fatalf("expected customer 42, got %d", customerID)
	}
}

func TestVerifyLinkToken_Expired(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	tok, err := MintLinkToken(42, "secret", time.Hour, now)
	if err != nil {
		t.Fatalf("MintLinkToken: %v", err)
	}

	if _, err := VerifyLinkToken(tok, "secret", now.Add(2*time.Hour)); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestVerifyLinkToken_WrongSecret(t *testing.T) {
	now := time.Now()

	tok, err := MintLinkToken(42, "secret", time.Hour, now)
	if err != nil {
		t.Fatalf("MintLinkToken: %v", err)
	}

	if _, err := VerifyLinkToken(tok, "other-secret", now); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
}

func TestMintLinkToken_RequiresSecret(t *testing.T) {
	if _, err := MintLinkToken(42, "", time.Hour, time.Now()); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
