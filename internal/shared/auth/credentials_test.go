package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func validCredentials() *Credentials {
	return &Credentials{
		Token:        "access",
		RefreshToken: "refresh",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientID:     "client",
		ClientSecret: "secret",
		Scopes:       []string{DriveFileScope},
	}
}

func TestCredentialsValidate(t *testing.T) {
	if err := validCredentials().Validate(); err != nil {
		t.Fatalf("expected valid credentials, got %v", err)
	}

	var nilCreds *Credentials
	if err := nilCreds.Validate(); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for nil, got %v", err)
	}

	c := validCredentials()
	c.Token = ""
	c.RefreshToken = ""
	c.Scopes = nil
	err := c.Validate()
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if !strings.Contains(err.Error(), "token") || !strings.Contains(err.Error(), "scopes") {
		t.Fatalf("expected missing fields listed, got %v", err)
	}

	refreshOnly := validCredentials()
	refreshOnly.Token = ""
	if err := refreshOnly.Validate(); err != nil {
		t.Fatalf("refresh token alone should be enough, got %v", err)
	}
}

func TestCredentialsFromTokenUsesGrantedScopes(t *testing.T) {
	cfg := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Scopes:       []string{DriveFileScope},
		Endpoint:     oauth2.Endpoint{TokenURL: "https://oauth2.googleapis.com/token"},
	}
	expiry := time.Now().Add(time.Hour).UTC()
	tok := (&oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: expiry}).
		WithExtra(map[string]any{"scope": "openid " + DriveFileScope})

	creds := CredentialsFromToken(cfg, tok)
	if creds.TokenURI != cfg.Endpoint.TokenURL || creds.ClientID != "client" {
		t.Fatalf("unexpected client fields: %+v", creds)
	}
	if len(creds.Scopes) != 2 || !creds.HasScope(DriveFileScope) {
		t.Fatalf("unexpected scopes: %v", creds.Scopes)
	}

	back := creds.OAuthToken()
	if back.AccessToken != "a" || back.RefreshToken != "r" || !back.Expiry.Equal(expiry) {
		t.Fatalf("unexpected token: %+v", back)
	}
	if creds.OAuthConfig().Endpoint.TokenURL != cfg.Endpoint.TokenURL {
		t.Fatal("expected token URL carried into config")
	}
}
