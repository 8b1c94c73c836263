package auth

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-key", time.Hour)

	token, err := m.Generate(42, "alice")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want %q", claims.Username, "alice")
	}
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("test-secret-key", -time.Minute)

	token, err := m.Generate(1, "bob")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := m.Verify(token); err == nil {
		t.Error("Verify() on expired token should fail")
	}
}

func TestJWTWrongSecret(t *testing.T) {
	m1 := NewJWTManager("secret-one", time.Hour)
	m2 := NewJWTManager("secret-two", time.Hour)

	token, err := m1.Generate(1, "carol")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := m2.Verify(token); err == nil {
		t.Error("Verify() with wrong secret should fail")
	}
}

func TestJWTGarbage(t *testing.T) {
	m := NewJWTManager("test-secret-key", time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(tok); err == nil {
			t.Errorf("Verify(%q) should fail", tok)
		}
	}
}
