package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/calendarfirst/accounts/internal/db"
	"github.com/calendarfirst/accounts/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	database, err := sqlx.Connect("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	return database
}

func newTestAccount(t *testing.T, accounts AccountRepository) *model.Account {
	t.Helper()

	now := time.Now()
	account := &model.Account{
		ID:           uuid.New().String(),
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Name:         "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := accounts.Create(context.Background(), account)
	require.NoError(t, err)

	return account
}

func newTestToken(t *testing.T, tokens TokenRepository, accountID, hash string, expiresAt time.Time) *model.VerificationToken {
	t.Helper()

	token := &model.VerificationToken{
		AccountID: accountID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	}
	err := tokens.Create(context.Background(), token)
	require.NoError(t, err)

	return token
}
