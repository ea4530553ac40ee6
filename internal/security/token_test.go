package security

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	signed, expiry, err := SignToken("test-secret", "admin", 30*time.Minute)
	if err != nil {
		t.Fatalf("SignToken error: %v", err)
	}
	if until := time.Until(expiry); until < 29*time.Minute || until > 31*time.Minute {
		t.Errorf("unexpected expiry %v", expiry)
	}

	subject, err := ParseToken("test-secret", signed)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if subject != "admin" {
		t.Errorf("expected subject admin, got %q", subject)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	signed, _, err := SignToken("test-secret", "admin", time.Minute)
	if err != nil {
		t.Fatalf("SignToken error: %v", err)
	}
	if _, err := ParseToken("other-secret", signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	signed, _, err := SignToken("test-secret", "admin", -time.Minute)
	if err != nil {
		t.Fatalf("SignToken error: %v", err)
	}
	if _, err := ParseToken("test-secret", signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "not.a.token", "a.b"} {
		if _, err := ParseToken("test-secret", input); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("ParseToken(%q): expected ErrInvalidToken, got %v", input, err)
		}
	}
}

func TestSignTokenRejectsNobody(t *testing.T) {
	signed, _, err := SignToken("test-secret", "", time.Minute)
	if err != nil {
		t.Fatalf("SignToken error: %v", err)
	}
	if _, err := ParseToken("test-secret", signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for empty subject, got %v", err)
	}
}
