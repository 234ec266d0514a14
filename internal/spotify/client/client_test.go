package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	tempoerrors "github.com/soverby/tempo/internal/errors"
	"github.com/soverby/tempo/internal/spotify/auth"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	storage, err := auth.NewTokenStorage(filepath.Join(t.TempDir(), "token.json"))
	if err != nil {
		t.Fatalf("NewTokenStorage() error = %v", err)
	}

	c := New("test-client-id", storage)
	c.baseURL = server.URL
	if err := c.SetToken(&auth.Token{
		AccessToken: "test-token",
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	return c
}

func TestClientDecodesPlaybackState(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"is_playing": true,
			"progress_ms": 5000,
			"item": {"id": "abc", "name": "One More Time", "duration_ms": 200000}
		}`))
	}))

	state, err := c.GetPlaybackState(context.Background())
	if err != nil {
		t.Fatalf("GetPlaybackState() error = %v", err)
	}
	if !state.IsPlaying || state.ProgressMS != 5000 {
		t.Errorf("state = %+v", state)
	}
	if state.Item == nil || state.Item.ID != "abc" {
		t.Errorf("item = %+v", state.Item)
	}
}

func TestClientErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		path   string
		body   string
		want   tempoerrors.Kind
	}{
		{
			name:   "401 is auth",
			status: http.StatusUnauthorized,
			path:   "/me",
			body:   `{"error":{"status":401,"message":"Invalid access token"}}`,
			want:   tempoerrors.KindAuth,
		},
		{
			name:   "404 on player endpoint is no device",
			status: http.StatusNotFound,
			path:   "/me/player/play",
			body:   `{"error":{"status":404,"message":"Device not found"}}`,
			want:   tempoerrors.KindNoDevice,
		},
		{
			name:   "404 elsewhere is input",
			status: http.StatusNotFound,
			path:   "/audio-features/nope",
			body:   `{"error":{"status":404,"message":"Not found"}}`,
			want:   tempoerrors.KindInput,
		},
		{
			name:   "429 is throttled",
			status: http.StatusTooManyRequests,
			path:   "/me",
			body:   `{"error":{"status":429,"message":"Rate limit exceeded"}}`,
			want:   tempoerrors.KindThrottled,
		},
		{
			name:   "403 is input",
			status: http.StatusForbidden,
			path:   "/me/player/play",
			body:   `{"error":{"status":403,"message":"Player command failed: Restriction violated"}}`,
			want:   tempoerrors.KindInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			err := c.Get(context.Background(), tt.path, nil)
			if err == nil {
				t.Fatal("Get() error = nil, want API failure")
			}
			if got := tempoerrors.KindOf(err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error chain lost APIError: %v", err)
			}
			if apiErr.ErrorInfo.Status != tt.status {
				t.Errorf("APIError status = %d, want %d", apiErr.ErrorInfo.Status, tt.status)
			}
		})
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":{"status":502,"message":"Bad gateway"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"devices":[{"id":"a","name":"Desk","is_active":true}]}`))
	}))

	devices, err := c.GetDevices(context.Background())
	if err != nil {
		t.Fatalf("GetDevices() error = %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "a" {
		t.Errorf("devices = %+v", devices)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("requests = %d, want 2 (one retry)", got)
	}
}

func TestClientNoContent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	state, err := c.GetPlaybackState(context.Background())
	if err != nil {
		t.Fatalf("GetPlaybackState() error = %v", err)
	}
	if state.Item != nil || state.IsPlaying {
		t.Errorf("state = %+v, want zero value for empty response", state)
	}
}

func TestClientParseFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))

	_, err := c.GetPlaybackState(context.Background())
	if err == nil {
		t.Fatal("GetPlaybackState() error = nil, want parse failure")
	}
	if got := tempoerrors.KindOf(err); got != tempoerrors.KindTransient {
		t.Errorf("KindOf() = %v, want KindTransient", got)
	}
}

func TestClientNotAuthenticated(t *testing.T) {
	storage, err := auth.NewTokenStorage(filepath.Join(t.TempDir(), "token.json"))
	if err != nil {
		t.Fatalf("NewTokenStorage() error = %v", err)
	}
	c := New("test-client-id", storage)

	getErr := c.Get(context.Background(), "/me", nil)
	if !errors.Is(getErr, tempoerrors.ErrNotAuthenticated) {
		t.Fatalf("Get() error = %v, want ErrNotAuthenticated", getErr)
	}
	if c.IsAuthenticated() {
		t.Error("IsAuthenticated() = true without a token")
	}
	if c.HasToken() {
		t.Error("HasToken() = true without a token")
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		params map[string]string
		want   string
	}{
		{
			name:   "no params",
			path:   "/me",
			params: nil,
			want:   "/me",
		},
		{
			name:   "empty params",
			path:   "/me",
			params: map[string]string{},
			want:   "/me",
		},
		{
			name:   "single param",
			path:   "/search",
			params: map[string]string{"q": "test"},
			want:   "/search?q=test",
		},
		{
			name:   "multiple params",
			path:   "/search",
			params: map[string]string{"q": "test", "type": "track"},
			want:   "/search?q=test&type=track",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildURL(tt.path, tt.params); got != tt.want {
				t.Errorf("BuildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	err := &APIError{}
	err.ErrorInfo.Status = 401
	err.ErrorInfo.Message = "Invalid access token"

	expected := "Spotify API error 401: Invalid access token"
	if got := err.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
}
