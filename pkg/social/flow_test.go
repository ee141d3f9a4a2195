package social

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// doerFunc adapts a function to the Doer interface for test stubs.
type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

var testEndpoints = Endpoints{
	AuthURL:        "https://provider.example.com/oauth/authorize",
	TokenURL:       "https://provider.example.com/oauth/token",
	ScopeSeparator: " ",
}

var testConfig = Config{
	ClientID:     "client-id",
	ClientSecret: "client-secret",
	RedirectURL:  "https://app.example.com/callback",
}

func TestFlow_RedirectURL(t *testing.T) {
	t.Run("includes required parameters", func(t *testing.T) {
		flow := NewFlow("test", testEndpoints, testConfig)

		raw := flow.RedirectURL(AuthRequest{
			State:  "abc123",
			Scopes: []string{"read:user", "user:email"},
		})

		parsed, err := url.Parse(raw)
		assert.NoError(t, err)
		assert.Equal(t, "https://provider.example.com/oauth/authorize", parsed.Scheme+"://"+parsed.Host+parsed.Path)

		query := parsed.Query()
		assert.Equal(t, "client-id", query.Get("client_id"))
		assert.Equal(t, "https://app.example.com/callback", query.Get("redirect_uri"))
		assert.Equal(t, "code", query.Get("response_type"))
		assert.Equal(t, "read:user user:email", query.Get("scope"))
		assert.Equal(t, "abc123", query.Get("state"))
	})

	t.Run("joins scopes with provider separator", func(t *testing.T) {
		ep := testEndpoints
		ep.ScopeSeparator = ","
		flow := NewFlow("test", ep, testConfig)

		raw := flow.RedirectURL(AuthRequest{Scopes: []string{"email", "public_profile"}})

		query := mustQuery(t, raw)
		assert.Equal(t, "email,public_profile", query.Get("scope"))
	})

	t.Run("single scope has no separator", func(t *testing.T) {
		flow := NewFlow("test", testEndpoints, testConfig)

		raw := flow.RedirectURL(AuthRequest{Scopes: []string{"email"}})

		query := mustQuery(t, raw)
		assert.Equal(t, "email", query.Get("scope"))
	})

	t.Run("state round-trips unmodified", func(t *testing.T) {
		flow := NewFlow("test", testEndpoints, testConfig)
		state := "x+y/z=&?#state"

		raw := flow.RedirectURL(AuthRequest{State: state})

		query := mustQuery(t, raw)
		assert.Equal(t, state, query.Get("state"))
		assert.NoError(t, ValidateState(state, query.Get("state")))
	})

	t.Run("extras win every collision except response_type", func(t *testing.T) {
		flow := NewFlow("test", testEndpoints, testConfig)

		raw := flow.RedirectURL(AuthRequest{
			Scopes: []string{"email"},
			Extra: map[string]string{
				"scope":         "everything",
				"access_type":   "offline",
				"response_type": "token",
			},
		})

		query := mustQuery(t, raw)
		assert.Equal(t, "everything", query.Get("scope"))
		assert.Equal(t, "offline", query.Get("access_type"))
		assert.Equal(t, "code", query.Get("response_type"))
	})
}

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse redirect URL %q: %v", raw, err)
	}
	return parsed.Query()
}

func TestFlow_Exchange(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		flow := NewFlow("test", testEndpoints, testConfig)

		var gotForm url.Values
		client := doerFunc(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, testEndpoints.TokenURL, req.URL.String())
			assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))

			body, _ := io.ReadAll(req.Body)
			gotForm, _ = url.ParseQuery(string(body))

			return jsonResponse(200, `{"access_token":"T","refresh_token":"R","token_type":"bearer","expires_in":3600}`), nil
		})

		tok, err := flow.Exchange(context.Background(), client, "the-code", nil)

		assert.NoError(t, err)
		assert.Equal(t, "T", tok.AccessToken)
		assert.Equal(t, "R", tok.RefreshToken)
		assert.Equal(t, "bearer", tok.TokenType)
		assert.Equal(t, int64(3600), tok.ExpiresIn)
		assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

		assert.Equal(t, "authorization_code", gotForm.Get("grant_type"))
		assert.Equal(t, "the-code", gotForm.Get("code"))
		assert.Equal(t, "client-id", gotForm.Get("client_id"))
		assert.Equal(t, "client-secret", gotForm.Get("client_secret"))
		assert.Equal(t, "https://app.example.com/callback", gotForm.Get("redirect_uri"))
	})

	t.Run("extra params and headers are sent", func(t *testing.T) {
		cfg := testConfig
		cfg.TokenHeaders = map[string]string{"X-Custom": "yes"}
		flow := NewFlow("test", testEndpoints, cfg)

		client := doerFunc(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "yes", req.Header.Get("X-Custom"))

			body, _ := io.ReadAll(req.Body)
			form, _ := url.ParseQuery(string(body))
			assert.Equal(t, "abc", form.Get("appsecret_proof"))

			return jsonResponse(200, `{"access_token":"T"}`), nil
		})

		_, err := flow.Exchange(context.Background(), client, "code", map[string]string{"appsecret_proof": "abc"})
		assert.NoError(t, err)
	})

	t.Run("non-success status", func(t *testing.T) {
		flow := NewFlow("test", testEndpoints, testConfig)

		client := doerFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(400, `{"error":"bad_verification_code"}`), nil
		})

		_, err := flow.Exchange(context.Background(), client, "stale-code", nil)

		var exchangeErr *ExchangeError
		assert.ErrorAs(t, err, &exchangeErr)
		assert.Equal(t, 400, exchangeErr.StatusCode)
		assert.Contains(t, exchangeErr.Body, "bad_verification_code")
	})

	t.Run("missing access token", func(t *testing.T) {
		flow := NewFlow("test", testEndpoints, testConfig)

		client := doerFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(200, `{"token_type":"bearer"}`), nil
		})

		_, err := flow.Exchange(context.Background(), client, "code", nil)

		var exchangeErr *ExchangeError
		assert.ErrorAs(t, err, &exchangeErr)
		assert.Contains(t, exchangeErr.Body, "no access token")
	})

	t.Run("transport failure is terminal", func(t *testing.T) {
		flow := NewFlow("test", testEndpoints, testConfig)

		calls := 0
		client := doerFunc(func(req *http.Request) (*http.Response, error) {
			calls++
			return nil, errors.New("connection reset")
		})

		_, err := flow.Exchange(context.Background(), client, "code", nil)

		var exchangeErr *ExchangeError
		assert.ErrorAs(t, err, &exchangeErr)
		assert.Equal(t, 1, calls, "transient failures must not be retried")
	})
}

func TestValidateState(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		received string
		wantErr  bool
	}{
		{"match", "abc", "abc", false},
		{"mismatch", "abc", "xyz", true},
		{"expected empty skips validation", "", "anything", false},
		{"both empty", "", "", false},
		{"received empty", "abc", "", true},
		{"case sensitive", "Abc", "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateState(tt.expected, tt.received)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidState)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShouldRefresh(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"expires within the day", now.Add(6 * time.Hour), true},
		{"expires exactly in 24h", now.Add(24 * time.Hour), true},
		{"already expired", now.Add(-time.Minute), false},
		{"expires right now", now, false},
		{"not yet due", now.Add(25 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRefresh(tt.expiresAt, now))
		})
	}
}
