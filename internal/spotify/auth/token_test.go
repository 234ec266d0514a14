package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tempoerrors "github.com/soverby/tempo/internal/errors"
)

// withTokenServer points the token endpoint at a local server for the
// duration of the test.
func withTokenServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	orig := tokenURL
	tokenURL = server.URL
	t.Cleanup(func() { tokenURL = orig })
}

func TestToken_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "expired",
			expiresAt: time.Now().Add(-1 * time.Hour),
			want:      true,
		},
		{
			name:      "expires within refresh buffer",
			expiresAt: time.Now().Add(2 * time.Minute),
			want:      true,
		},
		{
			name:      "valid well past buffer",
			expiresAt: time.Now().Add(10 * time.Minute),
			want:      false,
		},
		{
			name:      "valid",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &Token{ExpiresAt: tt.expiresAt}
			if got := token.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExchangeCode(t *testing.T) {
	withTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}

		form := map[string]string{
			"grant_type":    "authorization_code",
			"code":          "test_code",
			"redirect_uri":  "http://127.0.0.1:8888/callback",
			"client_id":     "test_client",
			"code_verifier": "test_verifier",
		}
		for key, want := range form {
			if got := r.FormValue(key); got != want {
				t.Errorf("form %s = %q, want %q", key, got, want)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken:  "access_token_123",
			TokenType:    "Bearer",
			Scope:        "user-read-playback-state",
			ExpiresIn:    3600,
			RefreshToken: "refresh_token_456",
		})
	})

	token, err := ExchangeCode(context.Background(),
		"test_client", "test_code", "http://127.0.0.1:8888/callback", "test_verifier")
	if err != nil {
		t.Fatalf("ExchangeCode() error = %v", err)
	}

	if token.AccessToken != "access_token_123" {
		t.Errorf("AccessToken = %q", token.AccessToken)
	}
	if token.RefreshToken != "refresh_token_456" {
		t.Errorf("RefreshToken = %q", token.RefreshToken)
	}
	if remaining := time.Until(token.ExpiresAt); remaining < 59*time.Minute {
		t.Errorf("ExpiresAt only %v away, want about an hour", remaining)
	}
}

func TestExchangeCodeError(t *testing.T) {
	withTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(tokenResponse{
			Error:     "invalid_grant",
			ErrorDesc: "Authorization code expired",
		})
	})

	_, err := ExchangeCode(context.Background(),
		"test_client", "stale_code", "http://127.0.0.1:8888/callback", "test_verifier")
	if err == nil {
		t.Fatal("ExchangeCode() error = nil, want token error")
	}
	if got := tempoerrors.KindOf(err); got != tempoerrors.KindAuth {
		t.Errorf("KindOf() = %v, want KindAuth", got)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	withTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		if got := r.FormValue("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", got)
		}
		if got := r.FormValue("refresh_token"); got != "old_refresh" {
			t.Errorf("refresh_token = %q, want old_refresh", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{
			AccessToken:  "new_access_token",
			TokenType:    "Bearer",
			ExpiresIn:    3600,
			RefreshToken: "new_refresh_token",
		})
	})

	token, err := RefreshAccessToken(context.Background(), "test_client", "old_refresh")
	if err != nil {
		t.Fatalf("RefreshAccessToken() error = %v", err)
	}

	if token.AccessToken != "new_access_token" {
		t.Errorf("AccessToken = %q, want new_access_token", token.AccessToken)
	}
	if token.RefreshToken != "new_refresh_token" {
		t.Errorf("RefreshToken = %q, want new_refresh_token", token.RefreshToken)
	}
}

func TestRequestTokenContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExchangeCode(ctx, "client", "code", "http://127.0.0.1/callback", "verifier")
	if err == nil {
		t.Error("ExchangeCode() error = nil with cancelled context")
	}
}
