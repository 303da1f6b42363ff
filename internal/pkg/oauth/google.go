package oauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

// GoogleConfig holds the Google OAuth client settings.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleUser is the identity extracted from a verified Google ID token.
type GoogleUser struct {
	Sub     string
	Email   string
	Name    string
	Picture string
}

// GoogleAuthenticator exchanges authorization codes and verifies Google ID tokens.
type GoogleAuthenticator struct {
	provider *oidc.Provider
	config   oauth2.Config
}

// NewGoogleAuthenticator performs OIDC discovery against Google and builds
// the oauth2 exchange configuration.
func NewGoogleAuthenticator(ctx context.Context, cfg GoogleConfig) (*GoogleAuthenticator, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery failed: %w", err)
	}

	config := oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}

	return &GoogleAuthenticator{provider: provider, config: config}, nil
}

// AuthCodeURL returns the Google consent page URL for the given state.
func (a *GoogleAuthenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// Exchange swaps an authorization code for a verified Google identity.
func (a *GoogleAuthenticator) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token field in oauth2 token")
	}

	return a.VerifyIDToken(ctx, rawIDToken)
}

// VerifyIDToken verifies a raw Google ID token and extracts the user identity.
func (a *GoogleAuthenticator) VerifyIDToken(ctx context.Context, rawIDToken string) (*GoogleUser, error) {
	verifier := a.provider.Verifier(&oidc.Config{ClientID: a.config.ClientID})

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("id token verification failed: %w", err)
	}

	var claims struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.New("invalid id token")
	}
	if claims.Sub == "" {
		return nil, errors.New("id token missing subject")
	}

	return &GoogleUser{
		Sub:     claims.Sub,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
