package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/calendarfirst/accounts/internal/model"
)

func TestAccountRepository_CreateAndLookup(t *testing.T) {
	database := newTestDB(t)
	accounts := NewAccountRepository(database)

	account := newTestAccount(t, accounts)

	byID, err := accounts.ByID(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, account.Email, byID.Email)
	require.False(t, byID.Verified())
	require.False(t, byID.Locked)
	require.Zero(t, byID.FailedLoginAttempts)

	byEmail, err := accounts.ByEmail(context.Background(), account.Email)
	require.NoError(t, err)
	require.Equal(t, account.ID, byEmail.ID)
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	database := newTestDB(t)
	accounts := NewAccountRepository(database)

	account := newTestAccount(t, accounts)

	now := time.Now()
	dup := &model.Account{
		ID:           uuid.New().String(),
		Email:        account.Email,
		PasswordHash: "$2a$10$otherotherotherotherother",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := accounts.Create(context.Background(), dup)
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestAccountRepository_NotFound(t *testing.T) {
	database := newTestDB(t)
	accounts := NewAccountRepository(database)

	_, err := accounts.ByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = accounts.ByEmail(context.Background(), "missing@example.com")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_UpdateBumpsUpdatedAt(t *testing.T) {
	database := newTestDB(t)
	accounts := NewAccountRepository(database)

	account := newTestAccount(t, accounts)
	createdUpdatedAt := account.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	now := time.Now()
	account.EmailVerifiedAt = &now
	err := accounts.Update(context.Background(), account)
	require.NoError(t, err)

	got, err := accounts.ByID(context.Background(), account.ID)
	require.NoError(t, err)
	require.True(t, got.Verified())
	require.True(t, got.UpdatedAt.After(createdUpdatedAt))
}

func TestAccountRepository_UpdateMissing(t *testing.T) {
	database := newTestDB(t)
	accounts := NewAccountRepository(database)

	now := time.Now()
	ghost := &model.Account{
		ID:        uuid.New().String(),
		Email:     "ghost@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := accounts.Update(context.Background(), ghost)
	require.ErrorIs(t, err, ErrAccountNotFound)
}
