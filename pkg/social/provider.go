package social

import (
	"context"
	"net/http"
)

// Doer performs outbound HTTP calls. Satisfied by *http.Client;
// injectable so callers control timeouts and tests can stub the
// transport entirely.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoints holds the three constants that vary between OAuth2
// providers but leave the flow itself unchanged.
type Endpoints struct {
	AuthURL        string
	TokenURL       string
	ScopeSeparator string
}

// Provider supplies a concrete provider's variation points to the
// generic driver: its endpoints, default scopes and profile fetch.
// Implementations must be stateless; one value serves all concurrent
// flows.
type Provider interface {
	Name() string
	Endpoints() Endpoints
	DefaultScopes() []string

	// FetchUser retrieves the profile (and, where the provider keeps
	// contact data separate, the email resource) and maps it into a
	// normalized User. The returned user carries no token; the driver
	// attaches it.
	FetchUser(ctx context.Context, client Doer, token *Token) (*User, error)
}

// AuthParamser is an optional Provider capability for providers that
// mandate extra authorization-redirect parameters beyond the caller's
// configured ones.
type AuthParamser interface {
	AuthParams() map[string]string
}

// TokenParamser is an optional Provider capability for providers that
// require extra parameters on the token exchange call.
type TokenParamser interface {
	TokenParams() map[string]string
}

// LongLivedExchanger is an optional Provider capability for providers
// whose code exchange yields a short-lived token that must be traded
// for a long-lived one before it is usable.
type LongLivedExchanger interface {
	ExchangeLongLived(ctx context.Context, client Doer, cfg Config, short *Token) (*Token, error)
}

// TokenRefresher is an optional Authenticator capability for drivers
// that can trade a refresh token for a fresh token bundle.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*Token, error)
}

// Authenticator is the surface the registry and HTTP handlers consume.
// The generic Driver implements it for plain OAuth2 providers; OIDC
// drivers implement it directly. Plain OAuth2 providers ignore the
// nonce, which only OIDC flows carry.
type Authenticator interface {
	Name() string
	RedirectURL(state, nonce string) (string, error)
	User(ctx context.Context, cb Callback, originalState, nonce string) (*User, error)
	UserFromToken(ctx context.Context, accessToken string) (*User, error)
}
