package social

import (
	"encoding/json"
	"time"
)

// Token is the result of a code-for-token, long-lived or refresh
// exchange. Raw keeps the full decoded response for providers that
// embed extra fields (e.g. a user identifier) next to the token.
type Token struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	TokenType    string         `json:"token_type,omitempty"`
	ExpiresIn    int64          `json:"expires_in,omitempty"`
	ExpiresAt    time.Time      `json:"expires_at,omitzero"`
	Raw          map[string]any `json:"-"`
}

// parseToken decodes a token-endpoint response body. The access_token
// field is the only mandatory one; expires_at is derived from
// expires_in when the provider supplies it.
func parseToken(body []byte) (*Token, error) {
	var tok Token
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	tok.Raw = raw

	if tok.ExpiresIn > 0 {
		tok.ExpiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return &tok, nil
}

// ShouldRefresh reports whether a token is due for a proactive
// refresh: not yet expired, but expiring within the next 24 hours.
// Advisory only; nothing in this package refreshes on its own.
func ShouldRefresh(expiresAt, now time.Time) bool {
	if !now.Before(expiresAt) {
		return false
	}
	return !expiresAt.After(now.Add(24 * time.Hour))
}
