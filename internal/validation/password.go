package validation

import (
	"errors"
)

// ValidatePassword checks the raw password before hashing.
// bcrypt silently truncates input longer than 72 bytes, so anything over
// that limit is rejected instead of being hashed partially.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	return nil
}
