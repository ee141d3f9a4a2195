package social

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// GoogleOIDC implements Authenticator directly through the go-oidc
// library instead of the generic flow engine. ID-token verification
// lives here, not in the engine, which stays plain OAuth2.
type GoogleOIDC struct {
	config   *oauth2.Config
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

// NewGoogleOIDC discovers the Google OIDC endpoints and builds the
// driver. The discovery call needs the network, so construction takes
// a context.
func NewGoogleOIDC(ctx context.Context, cfg Config) (*GoogleOIDC, error) {
	if err := cfg.validate("google"); err != nil {
		return nil, err
	}

	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: cfg.ClientID,
	})

	return &GoogleOIDC{
		config:   config,
		provider: provider,
		verifier: verifier,
	}, nil
}

func (g *GoogleOIDC) Name() string {
	return "google"
}

func (g *GoogleOIDC) RedirectURL(state, nonce string) (string, error) {
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oidc.Nonce(nonce),
	}
	return g.config.AuthCodeURL(state, opts...), nil
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (g *GoogleOIDC) User(ctx context.Context, cb Callback, originalState, nonce string) (*User, error) {
	if cb.Code == "" {
		return nil, &ExchangeError{Provider: g.Name(), Body: cb.ErrorMessage()}
	}

	if err := ValidateState(originalState, cb.State); err != nil {
		return nil, err
	}

	oauth2Token, err := g.config.Exchange(ctx, cb.Code)
	if err != nil {
		return nil, &ExchangeError{Provider: g.Name(), Body: err.Error()}
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, &ExchangeError{Provider: g.Name(), Body: "no id_token in response"}
	}

	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	if idToken.Nonce != nonce {
		return nil, fmt.Errorf("nonce mismatch")
	}

	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	user := &User{
		ID:        idToken.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		AvatarURL: claims.Picture,
		Provider:  g.Name(),
		Token: Token{
			AccessToken:  oauth2Token.AccessToken,
			RefreshToken: oauth2Token.RefreshToken,
			TokenType:    oauth2Token.TokenType,
			ExpiresAt:    oauth2Token.Expiry,
		},
	}
	return user, nil
}

// UserFromToken fetches the Google userinfo endpoint with an
// already-held access token. No exchange and no nonce check.
func (g *GoogleOIDC) UserFromToken(ctx context.Context, accessToken string) (*User, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	info, err := g.provider.UserInfo(ctx, src)
	if err != nil {
		return nil, &ProfileError{Provider: g.Name(), Body: err.Error()}
	}

	var claims googleClaims
	if err := info.Claims(&claims); err != nil {
		return nil, &ProfileError{Provider: g.Name(), Body: err.Error()}
	}

	if info.Subject == "" {
		return nil, &MappingError{Provider: g.Name(), Field: "sub"}
	}

	return &User{
		ID:        info.Subject,
		Name:      claims.Name,
		Email:     info.Email,
		AvatarURL: claims.Picture,
		Provider:  g.Name(),
		Token:     Token{AccessToken: accessToken},
	}, nil
}

// RefreshToken exchanges a refresh token for a fresh token bundle.
func (g *GoogleOIDC) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	tokenSource := g.config.TokenSource(ctx, &oauth2.Token{
		RefreshToken: refreshToken,
	})

	newToken, err := tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	return &Token{
		AccessToken:  newToken.AccessToken,
		RefreshToken: newToken.RefreshToken,
		TokenType:    newToken.TokenType,
		ExpiresAt:    newToken.Expiry,
	}, nil
}
