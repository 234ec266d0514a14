package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

const (
	// CodeVerifierLength is the length of the PKCE code verifier.
	// Spotify accepts 43-128 characters.
	CodeVerifierLength = 64

	// StateLength is the length of the CSRF state parameter.
	StateLength = 32
)

// PKCE holds the verifier, its S256 challenge, and the CSRF state for one
// authorization attempt.
type PKCE struct {
	Verifier  string
	Challenge string
	State     string
}

// NewPKCE generates a fresh verifier, challenge, and state.
func NewPKCE() (*PKCE, error) {
	verifier, err := randomString(CodeVerifierLength)
	if err != nil {
		return nil, err
	}

	state, err := randomString(StateLength)
	if err != nil {
		return nil, err
	}

	return &PKCE{
		Verifier:  verifier,
		Challenge: s256Challenge(verifier),
		State:     state,
	}, nil
}

// randomString returns length cryptographically random characters from the
// base64url alphabet (A-Z, a-z, 0-9, -, _).
func randomString(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	// base64 expands the input, so trim back to the requested length.
	encoded := base64.RawURLEncoding.EncodeToString(buf)
	if len(encoded) > length {
		encoded = encoded[:length]
	}
	return encoded, nil
}

// s256Challenge computes base64url(sha256(verifier)).
func s256Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
