package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func TestNewPKCE(t *testing.T) {
	pkce, err := NewPKCE()
	if err != nil {
		t.Fatalf("NewPKCE() error = %v", err)
	}

	if len(pkce.Verifier) != CodeVerifierLength {
		t.Errorf("Verifier length = %d, want %d", len(pkce.Verifier), CodeVerifierLength)
	}
	if len(pkce.State) != StateLength {
		t.Errorf("State length = %d, want %d", len(pkce.State), StateLength)
	}

	sum := sha256.Sum256([]byte(pkce.Verifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])
	if pkce.Challenge != want {
		t.Errorf("Challenge = %q, want %q", pkce.Challenge, want)
	}

	// Two generations must not collide.
	pkce2, err := NewPKCE()
	if err != nil {
		t.Fatalf("NewPKCE() second call error = %v", err)
	}
	if pkce.Verifier == pkce2.Verifier {
		t.Error("two PKCE instances share a verifier")
	}
	if pkce.State == pkce2.State {
		t.Error("two PKCE instances share a state")
	}
}

func TestRandomString(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"short", 16},
		{"medium", 64},
		{"long", 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := randomString(tt.length)
			if err != nil {
				t.Fatalf("randomString(%d) error = %v", tt.length, err)
			}
			if len(s) != tt.length {
				t.Errorf("length = %d, want %d", len(s), tt.length)
			}

			for _, c := range s {
				if !isURLSafeBase64Char(c) {
					t.Errorf("invalid character %q in random string", c)
				}
			}
		})
	}
}

func isURLSafeBase64Char(c rune) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_'
}

func TestS256Challenge(t *testing.T) {
	challenge := s256Challenge("test_verifier_string")

	decoded, err := base64.RawURLEncoding.DecodeString(challenge)
	if err != nil {
		t.Fatalf("challenge is not valid base64url: %v", err)
	}

	if len(decoded) != sha256.Size {
		t.Errorf("decoded challenge length = %d, want %d", len(decoded), sha256.Size)
	}
}
