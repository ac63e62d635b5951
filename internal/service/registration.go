package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/calendarfirst/accounts/internal/model"
	"github.com/calendarfirst/accounts/internal/repository"
	"github.com/calendarfirst/accounts/internal/validation"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidName        = errors.New("invalid name")
)

// SignupResult reports a completed signup. VerificationSent is false when the
// account and token were persisted but the verification email could not be
// delivered (degraded success, not a failure).
type SignupResult struct {
	Account          *model.Account
	VerificationSent bool
}

type RegistrationService struct {
	db                *sqlx.DB
	accountRepository repository.AccountRepository
	tokenRepository   repository.TokenRepository
	emailService      *EmailService
	tokenVerifyExpiry time.Duration
}

func NewRegistrationService(
	db *sqlx.DB,
	accountRepository repository.AccountRepository,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	tokenVerifyExpiry time.Duration,
) *RegistrationService {
	return &RegistrationService{
		db:                db,
		accountRepository: accountRepository,
		tokenRepository:   tokenRepository,
		emailService:      emailService,
		tokenVerifyExpiry: tokenVerifyExpiry,
	}
}

// Signup creates an unverified account and exactly one verification token in a
// single transaction, then emails the verification link. Email delivery
// failure never rolls anything back: the caller gets the account with
// VerificationSent=false and can trigger a resend later.
func (s *RegistrationService) Signup(ctx context.Context, email, password, name string) (*SignupResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, err)
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPassword, err)
	}
	err = validation.ValidateName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidName, err)
	}

	passwordHash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	secret, err := GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	account := &model.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	token := &model.VerificationToken{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		TokenHash: HashSecret(secret),
		ExpiresAt: now.Add(s.tokenVerifyExpiry),
		CreatedAt: now,
	}

	// Account and token are one logical unit: an account must never be
	// persisted without a way to verify it.
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		err := s.accountRepository.WithTx(tx).Create(ctx, account)
		if err != nil {
			return err
		}
		return s.tokenRepository.WithTx(tx).Create(ctx, token)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	sent := true
	err = s.emailService.SendVerificationEmail(ctx, account.Email, secret, account.Name)
	if err != nil {
		slog.Warn("verification email not sent, account still created", "error", err, "account_id", account.ID)
		sent = false
	}

	slog.Info("account registered", "account_id", account.ID, "email", account.Email, "verification_sent", sent)
	return &SignupResult{Account: account, VerificationSent: sent}, nil
}

// Verify redeems the secret from a verification link and marks the owning
// account's email as verified. Redemption is at-most-once per token: the
// repository consumes the token in a single atomic UPDATE, so a replay fails
// with repository.ErrTokenUsed and a stale link with repository.ErrTokenExpired.
func (s *RegistrationService) Verify(ctx context.Context, secret string) (*model.Account, error) {
	token, err := s.tokenRepository.Consume(ctx, HashSecret(secret))
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepository.ByID(ctx, token.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account for token: %w", err)
	}

	if account.EmailVerifiedAt == nil {
		now := time.Now()
		account.EmailVerifiedAt = &now
		err = s.accountRepository.Update(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to mark email verified: %w", err)
		}
	}

	slog.Info("email verified", "account_id", account.ID, "email", account.Email)
	return account, nil
}

// ResendVerification issues a fresh token for an unverified account and emails
// it. Unknown and already-verified addresses succeed silently to prevent email
// enumeration.
func (s *RegistrationService) ResendVerification(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, err)
	}

	account, err := s.accountRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			slog.Info("resend requested for unknown email", "email", email)
			return nil
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	if account.Verified() {
		slog.Info("resend requested for verified account", "account_id", account.ID)
		return nil
	}

	err = s.tokenRepository.DeleteUnusedByAccount(ctx, account.ID)
	if err != nil {
		slog.Warn("failed to delete outstanding tokens", "error", err, "account_id", account.ID)
	}

	secret, err := GenerateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	token := &model.VerificationToken{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		TokenHash: HashSecret(secret),
		ExpiresAt: time.Now().Add(s.tokenVerifyExpiry),
		CreatedAt: time.Now(),
	}
	err = s.tokenRepository.Create(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	err = s.emailService.SendVerificationEmail(ctx, account.Email, secret, account.Name)
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	slog.Info("verification email re-sent", "account_id", account.ID)
	return nil
}

// CleanupExpiredTokens purges every token past its expiry. Redemption of a
// live token can never race with the purge: a concurrent Verify either
// consumed the token before its expiry (so the DELETE no longer matters for
// correctness) or sees ErrTokenExpired, never a silent drop.
func (s *RegistrationService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	count, err := s.tokenRepository.DeleteExpiredBefore(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	if count > 0 {
		slog.Info("expired verification tokens purged", "count", count)
	}
	return count, nil
}

func (s *RegistrationService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *RegistrationService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *RegistrationService) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	err = fn(tx)
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			slog.Warn("transaction rollback failed", "error", rbErr)
		}
		return err
	}

	return tx.Commit()
}

// GenerateSecret returns the value embedded in the verification link:
// 32 random bytes, hex encoded.
func GenerateSecret() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// HashSecret derives the stored lookup key from an emailed secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
