package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"socialauth/pkg/cache"
	"socialauth/pkg/logger"
)

type fakeAuthenticator struct {
	name     string
	user     *User
	userErr  error
	gotState string
	gotNonce string
}

func (f *fakeAuthenticator) Name() string {
	return f.name
}

func (f *fakeAuthenticator) RedirectURL(state, nonce string) (string, error) {
	return "https://provider.example.com/authorize?state=" + state, nil
}

func (f *fakeAuthenticator) User(ctx context.Context, cb Callback, originalState, nonce string) (*User, error) {
	f.gotState = originalState
	f.gotNonce = nonce
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *fakeAuthenticator) UserFromToken(ctx context.Context, accessToken string) (*User, error) {
	return f.user, nil
}

type fakeRefresher struct {
	fakeAuthenticator
	refreshed       *Token
	gotRefreshToken string
}

func (f *fakeRefresher) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	f.gotRefreshToken = refreshToken
	return f.refreshed, nil
}

type stubGenerator struct {
	next int64
}

func (g *stubGenerator) GenerateID() int64 {
	g.next++
	return g.next
}

type recordingUserStore struct {
	saved []*User
	err   error
}

func (s *recordingUserStore) SaveUser(ctx context.Context, user *User) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, user)
	return nil
}

func newTestManager(t *testing.T, opts ...ManagerOption) *Manager {
	t.Helper()
	c := cache.NewMemoryCache()
	t.Cleanup(c.Close)

	states := NewStateStore(c, time.Minute)
	sessions := NewInMemorySessionStore()
	m := NewManager(states, sessions, &stubGenerator{}, logger.NewZeroLog("development"), opts...)
	t.Cleanup(m.Close)
	return m
}

func TestManager_AuthURL(t *testing.T) {
	m := newTestManager(t)
	m.Register(&fakeAuthenticator{name: "fake"})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := m.AuthURL(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("issues state into the redirect", func(t *testing.T) {
		redirect, err := m.AuthURL(context.Background(), "fake")
		assert.NoError(t, err)
		assert.Contains(t, redirect, "state=")
	})
}

func TestManager_Providers(t *testing.T) {
	m := newTestManager(t)
	m.Register(&fakeAuthenticator{name: "github"})
	m.Register(&fakeAuthenticator{name: "facebook"})

	assert.ElementsMatch(t, []string{"github", "facebook"}, m.Providers())
}

func TestManager_HandleCallback(t *testing.T) {
	ctx := context.Background()

	authenticatedUser := &User{
		ID:       "42",
		Provider: "fake",
		Token:    Token{AccessToken: "tok"},
	}

	t.Run("full round trip", func(t *testing.T) {
		store := &recordingUserStore{}
		m := newTestManager(t, WithUserStore(store))
		fake := &fakeAuthenticator{name: "fake", user: authenticatedUser}
		m.Register(fake)

		// issue a state the way the redirect would
		state, nonce, err := m.states.Issue(ctx)
		assert.NoError(t, err)

		sessionID, user, err := m.HandleCallback(ctx, "fake", Callback{Code: "c", State: state})
		assert.NoError(t, err)
		assert.NotEmpty(t, sessionID)
		assert.Equal(t, "42", user.ID)

		assert.Equal(t, state, fake.gotState, "provider must receive the original state")
		assert.Equal(t, nonce, fake.gotNonce)
		assert.Len(t, store.saved, 1)

		session, err := m.Session(sessionID)
		assert.NoError(t, err)
		assert.Equal(t, "42", session.User.ID)
	})

	t.Run("unknown provider", func(t *testing.T) {
		m := newTestManager(t)
		_, _, err := m.HandleCallback(ctx, "nope", Callback{})
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("unknown state", func(t *testing.T) {
		m := newTestManager(t)
		m.Register(&fakeAuthenticator{name: "fake", user: authenticatedUser})

		_, _, err := m.HandleCallback(ctx, "fake", Callback{Code: "c", State: "forged"})
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("state is consumed even when the provider fails", func(t *testing.T) {
		m := newTestManager(t)
		m.Register(&fakeAuthenticator{name: "fake", userErr: errors.New("boom")})

		state, _, err := m.states.Issue(ctx)
		assert.NoError(t, err)

		_, _, err = m.HandleCallback(ctx, "fake", Callback{Code: "c", State: state})
		assert.EqualError(t, err, "boom")

		// replay with the same state must now be rejected
		_, _, err = m.HandleCallback(ctx, "fake", Callback{Code: "c", State: state})
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("user store failure aborts the login", func(t *testing.T) {
		store := &recordingUserStore{err: errors.New("db down")}
		m := newTestManager(t, WithUserStore(store))
		m.Register(&fakeAuthenticator{name: "fake", user: authenticatedUser})

		state, _, err := m.states.Issue(ctx)
		assert.NoError(t, err)

		sessionID, _, err := m.HandleCallback(ctx, "fake", Callback{Code: "c", State: state})
		assert.ErrorContains(t, err, "db down")
		assert.Empty(t, sessionID)
	})
}

func TestManager_RefreshAdvised(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"no expiry recorded", time.Time{}, false},
		{"expires within a day", now.Add(2 * time.Hour), true},
		{"expires far out", now.Add(48 * time.Hour), false},
		{"already expired", now.Add(-time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestManager(t)
			m.Register(&fakeAuthenticator{name: "fake"})

			session, err := m.sessions.Create(&User{
				ID:       "1",
				Provider: "fake",
				Token:    Token{AccessToken: "tok", ExpiresAt: tc.expiresAt},
			}, time.Hour)
			assert.NoError(t, err)

			advised, err := m.RefreshAdvised(session.ID, now)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, advised)
		})
	}
}

func TestManager_RefreshSession(t *testing.T) {
	t.Run("any refresh-capable provider", func(t *testing.T) {
		m := newTestManager(t)
		fake := &fakeRefresher{
			fakeAuthenticator: fakeAuthenticator{name: "fake"},
			refreshed:         &Token{AccessToken: "new", RefreshToken: "r2"},
		}
		m.Register(fake)

		session, err := m.sessions.Create(&User{
			ID:       "1",
			Provider: "fake",
			Token:    Token{AccessToken: "old", RefreshToken: "r"},
		}, time.Hour)
		assert.NoError(t, err)

		err = m.RefreshSession(context.Background(), session.ID)
		assert.NoError(t, err)
		assert.Equal(t, "r", fake.gotRefreshToken)

		got, err := m.sessions.Get(session.ID)
		assert.NoError(t, err)
		assert.Equal(t, "new", got.User.Token.AccessToken)
		assert.Equal(t, "r2", got.User.Token.RefreshToken)
	})

	t.Run("no refresh token", func(t *testing.T) {
		m := newTestManager(t)
		m.Register(&fakeAuthenticator{name: "fake"})

		session, err := m.sessions.Create(&User{
			ID:       "1",
			Provider: "fake",
			Token:    Token{AccessToken: "tok"},
		}, time.Hour)
		assert.NoError(t, err)

		err = m.RefreshSession(context.Background(), session.ID)
		assert.EqualError(t, err, "no refresh token available")
	})

	t.Run("provider without refresh support", func(t *testing.T) {
		m := newTestManager(t)
		m.Register(&fakeAuthenticator{name: "fake"})

		session, err := m.sessions.Create(&User{
			ID:       "1",
			Provider: "fake",
			Token:    Token{AccessToken: "tok", RefreshToken: "r"},
		}, time.Hour)
		assert.NoError(t, err)

		err = m.RefreshSession(context.Background(), session.ID)
		assert.EqualError(t, err, "provider does not support token refresh")
	})
}

func TestManager_DeleteSession(t *testing.T) {
	m := newTestManager(t)

	session, err := m.sessions.Create(&User{ID: "1"}, time.Hour)
	assert.NoError(t, err)

	assert.NoError(t, m.DeleteSession(session.ID))

	_, err = m.Session(session.ID)
	assert.Error(t, err)
}
