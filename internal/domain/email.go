package domain

import (
	"net/mail"
	"strings"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// Email is a validated, normalized email address.
type Email string

// NewEmail validates and normalizes an email address.
func NewEmail(raw string) (Email, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", apperrors.NewValidationError("email is required", nil)
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", apperrors.NewValidationError("invalid email address", map[string]any{"email": raw})
	}
	return Email(raw), nil
}

func (e Email) String() string {
	return string(e)
}
