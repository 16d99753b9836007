package services

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
	maxNameLength    = 255
	maxEmailLength   = 255
	maxTitleLength   = 255
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// normalizeEmail trims and case-folds so that lookups and the
// uniqueness check ignore letter case.
func normalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	return len(email) <= maxEmailLength && validate.Var(email, "required,email") == nil
}

func isValidName(name string) bool {
	return name != "" && utf8.RuneCountInString(name) <= maxNameLength
}

func checkPasswordLength(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return newError(ErrInvalidInput, "Password must be at least 8 characters long")
	}
	if len(password) > maxPasswordBytes {
		return newError(ErrInvalidInput, "Password must be at most 72 bytes long")
	}
	return nil
}
