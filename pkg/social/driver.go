package social

import (
	"context"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// Driver binds the generic flow engine to one concrete provider and
// produces normalized users. One Driver value per provider; safe for
// concurrent use since config and provider are read-only after
// construction.
type Driver struct {
	provider Provider
	cfg      Config
	flow     *Flow
	client   Doer
}

// DriverOption customizes driver construction.
type DriverOption func(*Driver)

// WithHTTPClient replaces the default 30s-timeout HTTP client. Timeout
// and cancellation of outbound provider calls belong to this client;
// the driver imposes none of its own.
func WithHTTPClient(client Doer) DriverOption {
	return func(d *Driver) { d.client = client }
}

// NewDriver validates the config and builds a driver for the given
// provider. Missing client_id, client_secret or redirect_url is a
// *ConfigError; no flow is ever attempted with an incomplete config.
func NewDriver(provider Provider, cfg Config, opts ...DriverOption) (*Driver, error) {
	if err := cfg.validate(provider.Name()); err != nil {
		return nil, err
	}

	d := &Driver{
		provider: provider,
		cfg:      cfg,
		flow:     NewFlow(provider.Name(), provider.Endpoints(), cfg),
		client:   &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Driver) Name() string {
	return d.provider.Name()
}

// RedirectURL builds the authorization URL the end user must be sent
// to. The nonce is ignored for plain OAuth2 providers. Callers are
// responsible for persisting the state value until the callback.
func (d *Driver) RedirectURL(state, nonce string) (string, error) {
	scopes := d.cfg.Scopes
	if len(scopes) == 0 {
		scopes = d.provider.DefaultScopes()
	}

	extra := make(map[string]string, len(d.cfg.RedirectParams))
	if ap, ok := d.provider.(AuthParamser); ok {
		for key, value := range ap.AuthParams() {
			extra[key] = value
		}
	}
	for key, value := range d.cfg.RedirectParams {
		extra[key] = value
	}

	return d.flow.RedirectURL(AuthRequest{
		State:  state,
		Scopes: scopes,
		Extra:  extra,
	}), nil
}

// User runs the callback half of the flow: callback validation, code
// exchange, the provider's optional long-lived exchange, profile
// fetch and normalization. Any failure aborts the whole call; no
// partial user is ever returned.
func (d *Driver) User(ctx context.Context, cb Callback, originalState, nonce string) (*User, error) {
	if cb.Code == "" {
		return nil, &ExchangeError{Provider: d.Name(), Body: cb.ErrorMessage()}
	}

	if err := ValidateState(originalState, cb.State); err != nil {
		return nil, err
	}

	var extra map[string]string
	if tp, ok := d.provider.(TokenParamser); ok {
		extra = tp.TokenParams()
	}

	token, err := d.flow.Exchange(ctx, d.client, cb.Code, extra)
	if err != nil {
		return nil, err
	}

	if lle, ok := d.provider.(LongLivedExchanger); ok {
		token, err = lle.ExchangeLongLived(ctx, d.client, d.cfg, token)
		if err != nil {
			return nil, err
		}
	}

	return d.fetchUser(ctx, token)
}

// UserFromToken maps a profile starting from an already-held access
// token. No code exchange and no state check happen here.
func (d *Driver) UserFromToken(ctx context.Context, accessToken string) (*User, error) {
	return d.fetchUser(ctx, &Token{AccessToken: accessToken})
}

func (d *Driver) fetchUser(ctx context.Context, token *Token) (*User, error) {
	user, err := d.provider.FetchUser(ctx, d.client, token)
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, &MappingError{Provider: d.Name(), Field: "id"}
	}

	user.Provider = d.Name()
	user.Token = *token
	return user, nil
}
