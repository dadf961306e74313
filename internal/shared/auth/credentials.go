package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DriveFileScope limits Drive access to files the application creates.
const DriveFileScope = "https://www.googleapis.com/auth/drive.file"

// ErrInvalidCredentials is returned by Validate when a required field is missing.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials is the OAuth2 credential set kept in a user's session.
type Credentials struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenURI     string    `json:"token_uri"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	Scopes       []string  `json:"scopes"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Validate reports whether the credential set can be used against Google APIs.
func (c *Credentials) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: missing", ErrInvalidCredentials)
	}
	var missing []string
	if strings.TrimSpace(c.Token) == "" && strings.TrimSpace(c.RefreshToken) == "" {
		missing = append(missing, "token")
	}
	if strings.TrimSpace(c.TokenURI) == "" {
		missing = append(missing, "token_uri")
	}
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "client_id")
	}
	if len(c.Scopes) == 0 {
		missing = append(missing, "scopes")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// HasScope reports whether scope was granted.
func (c *Credentials) HasScope(scope string) bool {
	if c == nil {
		return false
	}
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// OAuthToken converts the credential set into a token for an oauth2 token source.
func (c *Credentials) OAuthToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.Token,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       c.Expiry,
	}
}

// OAuthConfig rebuilds the client configuration the credentials were issued for.
func (c *Credentials) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Scopes:       append([]string(nil), c.Scopes...),
		Endpoint:     oauth2.Endpoint{TokenURL: c.TokenURI},
	}
}

// CredentialsFromToken captures a freshly exchanged token together with the client it
// was issued to. Granted scopes come from the token's "scope" field when present.
func CredentialsFromToken(cfg *oauth2.Config, tok *oauth2.Token) *Credentials {
	scopes := append([]string(nil), cfg.Scopes...)
	if raw, ok := tok.Extra("scope").(string); ok && strings.TrimSpace(raw) != "" {
		scopes = strings.Fields(raw)
	}
	return &Credentials{
		Token:        tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenURI:     cfg.Endpoint.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       scopes,
		Expiry:       tok.Expiry,
	}
}
