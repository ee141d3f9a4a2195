package identity

import (
	"context"
	"fmt"

	"socialauth/pkg/db"
	"socialauth/pkg/social"
)

// Store persists normalized users in Postgres, one row per
// (provider, provider user id) pair. Implements social.UserStore.
type Store struct {
	db db.SQLExecutor
}

func NewStore(executor db.SQLExecutor) *Store {
	return &Store{db: executor}
}

const upsertQuery = `INSERT INTO social_identities (provider, provider_user_id, nickname, name, email, avatar_url, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
ON CONFLICT (provider, provider_user_id)
DO UPDATE SET nickname = EXCLUDED.nickname, name = EXCLUDED.name, email = EXCLUDED.email, avatar_url = EXCLUDED.avatar_url, updated_at = NOW()`

// SaveUser upserts the identity row for a freshly authenticated user.
// Tokens are not stored here; they live in the session.
func (s *Store) SaveUser(ctx context.Context, user *social.User) error {
	_, err := s.db.ExecContext(ctx, upsertQuery,
		user.Provider,
		user.ID,
		user.Nickname,
		user.Name,
		user.Email,
		user.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert identity: %w", err)
	}
	return nil
}
