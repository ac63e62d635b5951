package validation

import (
	"errors"
	"strings"
)

// ValidateName validates the display name given at signup. The name is
// optional; only overly long values are rejected.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if len(trimmed) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}
