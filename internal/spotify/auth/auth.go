// Package auth implements the Spotify authorization code flow with PKCE
// for a public client: no secret, loopback redirect, JSON token storage.
package auth

import (
	"net/url"
	"strings"
)

const (
	// SpotifyAuthURL is the Spotify authorization endpoint.
	SpotifyAuthURL = "https://accounts.spotify.com/authorize"

	// SpotifyTokenURL is the Spotify token endpoint.
	SpotifyTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultRedirectURI is the default callback URI for the local server.
	DefaultRedirectURI = "http://127.0.0.1:8888/callback"
)

// DefaultScopes are the Spotify scopes tempo needs: playback state for the
// poller, playback modification for commands, recently-played for history,
// and the user profile for `auth status`.
var DefaultScopes = []string{
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"user-read-recently-played",
	"user-read-private",
}

// Config holds the OAuth configuration.
type Config struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
}

// NewConfig creates an OAuth configuration with defaults.
func NewConfig(clientID string) *Config {
	return &Config{
		ClientID:    clientID,
		RedirectURI: DefaultRedirectURI,
		Scopes:      DefaultScopes,
	}
}

// AuthURLParams contains the parameters for building an authorization URL.
type AuthURLParams struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
}

// BuildAuthURL constructs the Spotify authorization URL carrying the PKCE
// challenge and CSRF state.
func BuildAuthURL(params AuthURLParams, pkce *PKCE) string {
	u, _ := url.Parse(SpotifyAuthURL)

	q := u.Query()
	q.Set("client_id", params.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", params.RedirectURI)
	q.Set("code_challenge_method", "S256")
	q.Set("code_challenge", pkce.Challenge)
	q.Set("state", pkce.State)
	if len(params.Scopes) > 0 {
		q.Set("scope", strings.Join(params.Scopes, " "))
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// BuildAuthURL builds an authorization URL from the config.
func (c *Config) BuildAuthURL(pkce *PKCE) string {
	return BuildAuthURL(AuthURLParams{
		ClientID:    c.ClientID,
		RedirectURI: c.RedirectURI,
		Scopes:      c.Scopes,
	}, pkce)
}
