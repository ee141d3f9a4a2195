package social

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

const (
	facebookAuthURL  = "https://www.facebook.com/v19.0/dialog/oauth"
	facebookTokenURL = "https://graph.facebook.com/v19.0/oauth/access_token"
	facebookUserURL  = "https://graph.facebook.com/v19.0/me?fields=id,name,email,picture.type(large)"
)

// Facebook implements the Provider variation points for Facebook
// login. The code exchange yields a short-lived token, so Facebook
// also implements LongLivedExchanger to trade it for a ~60-day one
// before the profile fetch. BaseURL replaces the Graph API host;
// used with a local stand-in provider.
type Facebook struct {
	BaseURL string
}

type facebookUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func (Facebook) Name() string {
	return "facebook"
}

func (f Facebook) Endpoints() Endpoints {
	if f.BaseURL != "" {
		return Endpoints{
			AuthURL:        f.BaseURL + "/oauth/authorize",
			TokenURL:       f.BaseURL + "/oauth/token",
			ScopeSeparator: ",",
		}
	}
	return Endpoints{
		AuthURL:        facebookAuthURL,
		TokenURL:       facebookTokenURL,
		ScopeSeparator: ",",
	}
}

func (f Facebook) tokenURL() string {
	if f.BaseURL != "" {
		return f.BaseURL + "/oauth/token"
	}
	return facebookTokenURL
}

func (f Facebook) userURL() string {
	if f.BaseURL != "" {
		return f.BaseURL + "/api/user"
	}
	return facebookUserURL
}

func (Facebook) DefaultScopes() []string {
	return []string{"public_profile", "email"}
}

// ExchangeLongLived trades the short-lived token from the code
// exchange for a long-lived one. Callers can watch ShouldRefresh
// against the returned expiry; nothing here refreshes automatically.
func (f Facebook) ExchangeLongLived(ctx context.Context, client Doer, cfg Config, short *Token) (*Token, error) {
	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("client_id", cfg.ClientID)
	params.Set("client_secret", cfg.ClientSecret)
	params.Set("fb_exchange_token", short.AccessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.tokenURL()+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &ExchangeError{Provider: f.Name(), Body: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ExchangeError{Provider: f.Name(), Body: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExchangeError{Provider: f.Name(), StatusCode: resp.StatusCode, Body: string(body)}
	}

	tok, err := parseToken(body)
	if err != nil {
		return nil, &ExchangeError{Provider: f.Name(), StatusCode: resp.StatusCode, Body: err.Error()}
	}
	if tok.AccessToken == "" {
		return nil, &ExchangeError{Provider: f.Name(), StatusCode: resp.StatusCode, Body: "no access token in response"}
	}

	return tok, nil
}

func (f Facebook) FetchUser(ctx context.Context, client Doer, token *Token) (*User, error) {
	var profile facebookUser
	raw, err := getJSON(ctx, client, f.Name(), f.userURL(), token.AccessToken, &profile)
	if err != nil {
		return nil, err
	}
	return f.mapUser(profile, raw), nil
}

func (Facebook) mapUser(profile facebookUser, raw map[string]any) *User {
	return &User{
		ID:        profile.ID,
		Name:      profile.Name,
		Email:     profile.Email,
		AvatarURL: profile.Picture.Data.URL,
		Raw:       raw,
	}
}
