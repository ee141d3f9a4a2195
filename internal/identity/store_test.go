package identity

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"socialauth/pkg/db"
	"socialauth/pkg/social"
)

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) DB() *sql.DB {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*sql.DB)
}

func (m *mockExecutor) WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error {
	args := m.Called(ctx, isolation, fn)
	return args.Error(0)
}

func (m *mockExecutor) ExecContext(ctx context.Context, query string, queryArgs ...any) (sql.Result, error) {
	args := m.Called(ctx, query, queryArgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sql.Result), args.Error(1)
}

func (m *mockExecutor) QueryContext(ctx context.Context, query string, queryArgs ...any) (*sql.Rows, error) {
	args := m.Called(ctx, query, queryArgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sql.Rows), args.Error(1)
}

func (m *mockExecutor) QueryRowContext(ctx context.Context, query string, queryArgs ...any) *sql.Row {
	args := m.Called(ctx, query, queryArgs)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*sql.Row)
}

func TestStore_SaveUser(t *testing.T) {
	user := &social.User{
		ID:        "42",
		Nickname:  "alice",
		Name:      "Alice",
		Email:     "alice@example.com",
		AvatarURL: "https://avatars.example.com/alice",
		Provider:  "github",
	}

	t.Run("success", func(t *testing.T) {
		executor := new(mockExecutor)
		store := NewStore(executor)
		ctx := context.Background()

		executor.On("ExecContext", ctx, upsertQuery,
			[]any{"github", "42", "alice", "Alice", "alice@example.com", "https://avatars.example.com/alice"}).
			Return(nil, nil)

		err := store.SaveUser(ctx, user)

		assert.NoError(t, err)
		executor.AssertExpectations(t)
	})

	t.Run("database error", func(t *testing.T) {
		executor := new(mockExecutor)
		store := NewStore(executor)
		ctx := context.Background()
		expectedErr := errors.New("connection refused")

		executor.On("ExecContext", ctx, upsertQuery, mock.Anything).
			Return(nil, expectedErr)

		err := store.SaveUser(ctx, user)

		assert.Error(t, err)
		assert.ErrorIs(t, err, expectedErr)
	})
}
