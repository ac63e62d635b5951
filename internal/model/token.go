package model

import (
	"time"
)

// VerificationToken is the stored side of an emailed verification secret.
// Only the SHA-256 hex digest of the secret is persisted; the secret itself
// exists only in the email we send.
type VerificationToken struct {
	ID        string     `db:"id"`
	AccountID string     `db:"account_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (t *VerificationToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *VerificationToken) IsUsed() bool {
	return t.UsedAt != nil
}

func (t *VerificationToken) IsValid() bool {
	return !t.IsExpired() && !t.IsUsed()
}
