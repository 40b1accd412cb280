package auth

import (
	"testing"
	"time"
)

func testTokenService(secret string, ttl time.Duration) *TokenService {
	return NewTokenService(Config{Secret: secret, TokenTTL: ttl})
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := testTokenService("super-secret", time.Hour)

	tok, err := svc.Issue("alice", "alice@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if tok == "" {
		t.Fatal("Issue returned empty token")
	}

	claims, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("username mismatch: got %q want %q", claims.Username, "alice")
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("email mismatch: got %q want %q", claims.Email, "alice@example.com")
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	t.Parallel()

	svc := testTokenService("super-secret", time.Hour)

	tok, err := svc.Issue("bob", "bob@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// mutate the final signature character
	last := tok[len(tok)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := tok[:len(tok)-1] + string(flipped)

	if _, err := svc.Verify(tampered); err == nil {
		t.Fatal("expected error for tampered token, got nil")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := testTokenService("right-secret", time.Hour).Issue("u", "u@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := testTokenService("wrong-secret", time.Hour).Verify(tok); err == nil {
		t.Fatal("expected error for wrong secret, got nil")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(Config{Secret: "k", TokenTTL: time.Hour})
	svc.ttl = -time.Second

	tok, err := svc.Issue("u", "u@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := svc.Verify(tok); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := testTokenService("k", time.Hour).Verify("not.a.jwt"); err == nil {
		t.Fatal("expected error for malformed token, got nil")
	}
}

func TestDecodeUnverified(t *testing.T) {
	t.Parallel()

	issuer := testTokenService("issuer-secret", time.Hour)
	tok, err := issuer.Issue("carol", "carol@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// a service holding a different secret can still read the identity
	reader := testTokenService("other-secret", time.Hour)
	uc, err := reader.DecodeUnverified(tok)
	if err != nil {
		t.Fatalf("DecodeUnverified error: %v", err)
	}
	if uc.Email != "carol@example.com" || uc.Username != "carol" {
		t.Fatalf("unexpected claims: %+v", uc)
	}

	if _, err := reader.DecodeUnverified("garbage"); err == nil {
		t.Fatal("expected error for malformed token, got nil")
	}
}
