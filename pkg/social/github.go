package social

import (
	"context"
	"fmt"
)

const (
	githubAuthURL      = "https://github.com/login/oauth/authorize"
	githubTokenURL     = "https://github.com/login/oauth/access_token"
	githubUserURL      = "https://api.github.com/user"
	githubUserEmailURL = "https://api.github.com/user/emails"
)

// GitHub implements the Provider variation points for GitHub OAuth2.
// BaseURL points every endpoint at one host instead of the real
// github.com/api.github.com pair; used with a local stand-in provider.
type GitHub struct {
	BaseURL string
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email      string `json:"email"`
	Primary    bool   `json:"primary"`
	Verified   bool   `json:"verified"`
	Visibility string `json:"visibility"`
}

func (GitHub) Name() string {
	return "github"
}

func (g GitHub) Endpoints() Endpoints {
	if g.BaseURL != "" {
		return Endpoints{
			AuthURL:        g.BaseURL + "/oauth/authorize",
			TokenURL:       g.BaseURL + "/oauth/token",
			ScopeSeparator: " ",
		}
	}
	return Endpoints{
		AuthURL:        githubAuthURL,
		TokenURL:       githubTokenURL,
		ScopeSeparator: " ",
	}
}

func (g GitHub) userURL() string {
	if g.BaseURL != "" {
		return g.BaseURL + "/api/user"
	}
	return githubUserURL
}

func (g GitHub) emailURL() string {
	if g.BaseURL != "" {
		return g.BaseURL + "/api/user/emails"
	}
	return githubUserEmailURL
}

func (GitHub) DefaultScopes() []string {
	return []string{"read:user", "user:email"}
}

func (g GitHub) FetchUser(ctx context.Context, client Doer, token *Token) (*User, error) {
	var profile githubUser
	raw, err := getJSON(ctx, client, g.Name(), g.userURL(), token.AccessToken, &profile)
	if err != nil {
		return nil, err
	}

	email := profile.Email
	// The profile only carries the public email; fall back to the
	// emails endpoint. Users without any email are not an error.
	if email == "" {
		if fetched, emailErr := g.fetchPrimaryEmail(ctx, client, token.AccessToken); emailErr == nil {
			email = fetched
		}
	}

	return g.mapUser(profile, email, raw), nil
}

func (g GitHub) fetchPrimaryEmail(ctx context.Context, client Doer, accessToken string) (string, error) {
	var emails []githubEmail
	if _, err := getJSON(ctx, client, g.Name(), g.emailURL(), accessToken, &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", &MappingError{Provider: g.Name(), Field: "email"}
}

// mapUser is the pure profile-to-user transform. Only a missing id is
// fatal, and that is enforced by the driver; every other field maps
// best-effort.
func (GitHub) mapUser(profile githubUser, email string, raw map[string]any) *User {
	var id string
	if profile.ID != 0 {
		id = fmt.Sprintf("%d", profile.ID)
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	return &User{
		ID:        id,
		Nickname:  profile.Login,
		Name:      name,
		Email:     email,
		AvatarURL: profile.AvatarURL,
		Raw:       raw,
	}
}
