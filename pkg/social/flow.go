package social

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// AuthRequest is the ephemeral input to redirect-URL construction.
// Nothing here is persisted by the engine; callers own the state value
// and validate it on callback.
type AuthRequest struct {
	State  string
	Scopes []string
	Extra  map[string]string
}

// Flow implements the parts of the authorization-code grant that are
// identical across providers, parameterized by the provider's
// endpoints and the resolved config. Stateless and safe for
// concurrent use.
type Flow struct {
	provider string
	ep       Endpoints
	cfg      Config
}

func NewFlow(provider string, ep Endpoints, cfg Config) *Flow {
	return &Flow{provider: provider, ep: ep, cfg: cfg}
}

// RedirectURL builds the absolute authorization URL. client_id,
// redirect_uri and scope can be overridden through req.Extra;
// response_type is always code. The state value is carried verbatim.
// Pure construction, no network call.
func (f *Flow) RedirectURL(req AuthRequest) string {
	params := url.Values{}
	params.Set("client_id", f.cfg.ClientID)
	params.Set("redirect_uri", f.cfg.RedirectURL)
	params.Set("scope", strings.Join(req.Scopes, f.ep.ScopeSeparator))
	if req.State != "" {
		params.Set("state", req.State)
	}

	for key, value := range req.Extra {
		params.Set(key, value)
	}
	params.Set("response_type", "code")

	return f.ep.AuthURL + "?" + params.Encode()
}

// Exchange performs the single code-for-token call. extraParams and
// the configured token headers are merged into the request. A
// transport failure, a non-2xx status or a response without an
// access_token all surface as *ExchangeError; the call is never
// retried here.
func (f *Flow) Exchange(ctx context.Context, client Doer, code string, extraParams map[string]string) (*Token, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", f.cfg.RedirectURL)
	data.Set("client_id", f.cfg.ClientID)
	data.Set("client_secret", f.cfg.ClientSecret)
	for key, value := range extraParams {
		data.Set(key, value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.ep.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &ExchangeError{Provider: f.provider, Body: err.Error()}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	for key, value := range f.cfg.TokenHeaders {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ExchangeError{Provider: f.provider, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExchangeError{Provider: f.provider, StatusCode: resp.StatusCode, Body: string(body)}
	}

	tok, err := parseToken(body)
	if err != nil {
		return nil, &ExchangeError{Provider: f.provider, StatusCode: resp.StatusCode, Body: err.Error()}
	}
	if tok.AccessToken == "" {
		return nil, &ExchangeError{Provider: f.provider, StatusCode: resp.StatusCode, Body: "no access token in response"}
	}

	return tok, nil
}

// ValidateState compares the state echoed by the provider against the
// value stored before the redirect. Strict byte equality, no
// normalization. When no state was stored, validation is skipped for
// compatibility with providers that do not echo state back.
func ValidateState(expected, received string) error {
	if expected == "" {
		return nil
	}
	if expected != received {
		return ErrInvalidState
	}
	return nil
}
