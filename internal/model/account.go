package model

import (
	"time"
)

type Account struct {
	ID              string     `db:"id"`
	Email           string     `db:"email"`
	PasswordHash    string     `db:"password_hash"`
	Name            string     `db:"name"`
	EmailVerifiedAt *time.Time `db:"email_verified_at"`

	// Reserved for login hardening, never written by the registration flow
	Locked              bool `db:"locked"`
	FailedLoginAttempts int  `db:"failed_login_attempts"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (a *Account) Verified() bool {
	return a.EmailVerifiedAt != nil
}
