package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected mismatched password to fail")
	}
}

func TestTokenIssueVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	tok, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	uid, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if uid != "user-123" {
		t.Errorf("subject = %q, want user-123", uid)
	}
}

func TestTokenVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := NewTokenIssuer("secret-a").Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokenIssuer("secret-b").Verify(tok); err == nil {
		t.Error("expected verification with wrong secret to fail")
	}
}

func TestTokenVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	for _, tok := range []string{"", "not.a.token", "a.b"} {
		if _, err := issuer.Verify(tok); err == nil {
			t.Errorf("Verify(%q): expected error", tok)
		}
	}
}
