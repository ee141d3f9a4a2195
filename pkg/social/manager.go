package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialauth/pkg/idgen"
	"socialauth/pkg/logger"
)

// UserStore persists normalized users after a successful login. The
// hosting application supplies an implementation; the manager works
// without one.
type UserStore interface {
	SaveUser(ctx context.Context, user *User) error
}

// Manager owns the provider registry and orchestrates the login flow:
// state issuance before the redirect, callback dispatch, optional
// persistence and session creation. Registration happens at start-up;
// the map is read-only afterwards and safe for concurrent requests.
type Manager struct {
	providers  map[string]Authenticator
	states     *StateStore
	sessions   SessionStore
	users      UserStore
	ids        idgen.Generator
	log        logger.Logger
	sessionTTL time.Duration
}

// ManagerOption customizes manager construction.
type ManagerOption func(*Manager)

// WithUserStore persists every authenticated user through the given
// store.
func WithUserStore(store UserStore) ManagerOption {
	return func(m *Manager) { m.users = store }
}

// WithSessionTTL overrides the default 24h session lifetime.
func WithSessionTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) { m.sessionTTL = ttl }
}

// NewManager builds a manager from explicit collaborators. Providers
// are registered afterwards by the hosting application.
func NewManager(states *StateStore, sessions SessionStore, ids idgen.Generator, log logger.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		providers:  make(map[string]Authenticator),
		states:     states,
		sessions:   sessions,
		ids:        ids,
		log:        log,
		sessionTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a provider to the registry under its own name.
func (m *Manager) Register(provider Authenticator) {
	m.providers[provider.Name()] = provider
}

// Providers lists the registered provider names.
func (m *Manager) Providers() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	return names
}

// AuthURL issues a fresh state/nonce pair, persists it for the
// callback and returns the provider's authorization URL.
func (m *Manager) AuthURL(ctx context.Context, providerName string) (string, error) {
	provider, exists := m.providers[providerName]
	if !exists {
		return "", ErrProviderNotFound
	}

	state, nonce, err := m.states.Issue(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to issue state: %w", err)
	}

	return provider.RedirectURL(state, nonce)
}

// HandleCallback validates the returned state, dispatches the
// callback to the provider and creates a session for the resulting
// user. The state entry is consumed either way; a replayed callback
// fails.
func (m *Manager) HandleCallback(ctx context.Context, providerName string, cb Callback) (string, *User, error) {
	provider, exists := m.providers[providerName]
	if !exists {
		return "", nil, ErrProviderNotFound
	}

	flowID := m.ids.GenerateID()

	nonce, err := m.states.Consume(ctx, cb.State)
	if errors.Is(err, ErrStateNotFound) {
		m.log.Warn("callback with unknown state",
			logger.Field{Key: "flow_id", Value: flowID},
			logger.Field{Key: "provider", Value: providerName},
		)
		return "", nil, fmt.Errorf("%w: %s", ErrInvalidState, cb.State)
	}
	if err != nil {
		return "", nil, err
	}

	user, err := provider.User(ctx, cb, cb.State, nonce)
	if err != nil {
		m.log.Error("callback failed",
			logger.Field{Key: "flow_id", Value: flowID},
			logger.Field{Key: "provider", Value: providerName},
			logger.Err(err),
		)
		return "", nil, err
	}

	if m.users != nil {
		if err := m.users.SaveUser(ctx, user); err != nil {
			return "", nil, fmt.Errorf("failed to save user: %w", err)
		}
	}

	session, err := m.sessions.Create(user, m.sessionTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	m.log.Info("user authenticated",
		logger.Field{Key: "flow_id", Value: flowID},
		logger.Field{Key: "provider", Value: providerName},
		logger.Field{Key: "user_id", Value: user.ID},
	)

	return session.ID, user, nil
}

// Session retrieves a session by ID.
func (m *Manager) Session(sessionID string) (*Session, error) {
	return m.sessions.Get(sessionID)
}

// RefreshAdvised reports whether a session's access token is due for
// a proactive refresh per ShouldRefresh. Advisory only; callers
// decide whether to act on it.
func (m *Manager) RefreshAdvised(sessionID string, now time.Time) (bool, error) {
	session, err := m.sessions.Get(sessionID)
	if err != nil {
		return false, err
	}
	if session.User.Token.ExpiresAt.IsZero() {
		return false, nil
	}
	return ShouldRefresh(session.User.Token.ExpiresAt, now), nil
}

// RefreshSession refreshes tokens for a session. It needs both a
// stored refresh token and a provider implementing TokenRefresher.
func (m *Manager) RefreshSession(ctx context.Context, sessionID string) error {
	session, err := m.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	if session.User.Token.RefreshToken == "" {
		return errors.New("no refresh token available")
	}

	provider, exists := m.providers[session.User.Provider]
	if !exists {
		return ErrProviderNotFound
	}

	refresher, ok := provider.(TokenRefresher)
	if !ok {
		return errors.New("provider does not support token refresh")
	}

	newToken, err := refresher.RefreshToken(ctx, session.User.Token.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	return m.sessions.Update(sessionID, newToken)
}

// DeleteSession deletes a session (logout).
func (m *Manager) DeleteSession(sessionID string) error {
	return m.sessions.Delete(sessionID)
}

// Close releases the session store's background resources.
func (m *Manager) Close() {
	m.sessions.Close()
}
