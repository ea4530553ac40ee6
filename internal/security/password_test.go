package security

import (
	"strings"
	"testing"
)

func TestGenerateSalt(t *testing.T) {
	salt, err := GenerateSalt(12)
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	if len(salt) != 12 {
		t.Errorf("expected 12 chars, got %d", len(salt))
	}
	for _, r := range salt {
		if !strings.ContainsRune(saltChars, r) {
			t.Errorf("unexpected salt character %q", r)
		}
	}

	other, err := GenerateSalt(12)
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	if salt == other {
		t.Error("two salts should not be equal")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	salt, err := GenerateSalt(12)
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}

	hash, err := HashPassword(salt, "hunter2!")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if !VerifyPassword(salt, "hunter2!", hash) {
		t.Error("correct password should verify")
	}
	if VerifyPassword(salt, "hunter3!", hash) {
		t.Error("wrong password should not verify")
	}
	if VerifyPassword("WRONGSALT000", "hunter2!", hash) {
		t.Error("wrong salt should not verify")
	}
}

func TestHashPasswordDiffersPerSalt(t *testing.T) {
	h1, err := HashPassword("SALTAAAAAAAA", "same-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("SALTBBBBBBBB", "same-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Error("hashes under different salts should differ")
	}
}
