package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/calendarfirst/accounts/internal/model"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already exists")
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	ByID(ctx context.Context, id string) (*model.Account, error)
	ByEmail(ctx context.Context, email string) (*model.Account, error)
	Update(ctx context.Context, account *model.Account) error

	// WithTx returns a copy of the repository that runs inside tx.
	WithTx(tx *sqlx.Tx) AccountRepository
}

type accountRepository struct {
	q sqlx.ExtContext
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{q: db}
}

func (r *accountRepository) WithTx(tx *sqlx.Tx) AccountRepository {
	return &accountRepository{q: tx}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, name, email_verified_at, locked, failed_login_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.q.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Name,
		account.EmailVerifiedAt,
		account.Locked,
		account.FailedLoginAttempts,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		// Unique constraint violation (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *accountRepository) ByID(ctx context.Context, id string) (*model.Account, error) {
	account := &model.Account{}
	query := `SELECT * FROM accounts WHERE id = $1`

	err := sqlx.GetContext(ctx, r.q, account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}

	return account, err
}

func (r *accountRepository) ByEmail(ctx context.Context, email string) (*model.Account, error) {
	account := &model.Account{}
	query := `SELECT * FROM accounts WHERE email = $1`

	err := sqlx.GetContext(ctx, r.q, account, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}

	return account, err
}

// Update persists all mutable fields and bumps updated_at.
func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	account.UpdatedAt = time.Now()

	query := `
		UPDATE accounts
		SET email = $1, password_hash = $2, name = $3, email_verified_at = $4,
		    locked = $5, failed_login_attempts = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := r.q.ExecContext(ctx, query,
		account.Email,
		account.PasswordHash,
		account.Name,
		account.EmailVerifiedAt,
		account.Locked,
		account.FailedLoginAttempts,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAccountNotFound
	}

	return nil
}
