package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/calendarfirst/accounts/internal/model"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token has expired")
	ErrTokenUsed     = errors.New("token has already been used")
)

type TokenRepository interface {
	Create(ctx context.Context, token *model.VerificationToken) error
	ByHash(ctx context.Context, hash string) (*model.VerificationToken, error)
	Consume(ctx context.Context, hash string) (*model.VerificationToken, error)
	DeleteUnusedByAccount(ctx context.Context, accountID string) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// WithTx returns a copy of the repository that runs inside tx.
	WithTx(tx *sqlx.Tx) TokenRepository
}

type tokenRepository struct {
	q sqlx.ExtContext
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{q: db}
}

func (r *tokenRepository) WithTx(tx *sqlx.Tx) TokenRepository {
	return &tokenRepository{q: tx}
}

func (r *tokenRepository) Create(ctx context.Context, token *model.VerificationToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO verification_tokens (id, account_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.ExecContext(ctx, query,
		token.ID,
		token.AccountID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return err
}

func (r *tokenRepository) ByHash(ctx context.Context, hash string) (*model.VerificationToken, error) {
	var t model.VerificationToken
	query := `SELECT * FROM verification_tokens WHERE token_hash = $1`

	err := sqlx.GetContext(ctx, r.q, &t, query, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// Consume atomically marks the token as used and returns it.
// The check-unused-unexpired-then-mark sequence is a single UPDATE, so two
// concurrent calls on the same hash yield exactly one success; the loser gets
// ErrTokenUsed, ErrTokenExpired or ErrTokenNotFound depending on why the row
// did not match.
func (r *tokenRepository) Consume(ctx context.Context, hash string) (*model.VerificationToken, error) {
	var t model.VerificationToken
	now := time.Now()

	query := `
		UPDATE verification_tokens
		SET used_at = $1
		WHERE token_hash = $2
		AND used_at IS NULL
		AND expires_at > $3
		RETURNING *
	`

	err := sqlx.GetContext(ctx, r.q, &t, query, now, hash, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.classifyFailure(ctx, hash, now)
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// classifyFailure explains why Consume matched no row. The follow-up read is
// only for error reporting; the redemption decision was already made by the
// atomic UPDATE.
func (r *tokenRepository) classifyFailure(ctx context.Context, hash string, now time.Time) error {
	t, err := r.ByHash(ctx, hash)
	if errors.Is(err, ErrTokenNotFound) {
		return ErrTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to inspect token: %w", err)
	}

	if t.UsedAt != nil {
		return ErrTokenUsed
	}
	if !now.Before(t.ExpiresAt) {
		return ErrTokenExpired
	}

	// The row lock forced our UPDATE to wait for a concurrent redeemer; by the
	// time we re-read, its used_at write must be visible. Reaching here means
	// we lost that race.
	return ErrTokenUsed
}

// DeleteUnusedByAccount drops outstanding unredeemed tokens, used before
// issuing a replacement so only the latest emailed link stays valid.
func (r *tokenRepository) DeleteUnusedByAccount(ctx context.Context, accountID string) error {
	query := `DELETE FROM verification_tokens WHERE account_id = $1 AND used_at IS NULL`
	_, err := r.q.ExecContext(ctx, query, accountID)
	return err
}

// DeleteExpiredBefore removes every token whose expiry is older than cutoff.
// Deleting an already-deleted token is a no-op, so the sweep is idempotent and
// safe to run concurrently with itself.
func (r *tokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM verification_tokens WHERE expires_at < $1`

	result, err := r.q.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
