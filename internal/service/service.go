// Package service implements business logic, validation, and orchestration
// between the HTTP handlers and the repository layer.
package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
)

// ErrInvalidCredentials is returned when no principal matches a login.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrUnauthenticated is returned for unknown, ended or expired sessions.
var ErrUnauthenticated = errors.New("not logged in")

// ErrForbidden is returned when a session lacks the role an operation needs.
var ErrForbidden = errors.New("forbidden")

// ErrTransactionMismatch is returned when a pending transaction was quoted
// for a different attendee than the one checking out.
var ErrTransactionMismatch = errors.New("transaction does not belong to this session")

// ValidationError reports malformed input. Nothing was changed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var (
	nameRe   = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailRe  = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	dateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

const minPasswordLen = 4

func validateName(name string) error {
	if name == "" {
		return invalid("name", "is required")
	}
	if !nameRe.MatchString(name) {
		return invalid("name", "must contain only letters")
	}
	return nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return invalid("phone", "is required")
	}
	if !isDigits(phone) || len(phone) < 8 || len(phone) > 15 {
		return invalid("phone", "must be 8-15 digits")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "is required")
	}
	if !emailRe.MatchString(email) {
		return invalid("email", "is not a valid email address")
	}
	return nil
}

// validatePassword checks length and that the confirmation was entered and
// matches.
func validatePassword(password, confirm string) error {
	if len(password) < minPasswordLen {
		return invalid("password", "must be at least %d characters long", minPasswordLen)
	}
	if confirm == "" {
		return invalid("confirm", "please confirm your password")
	}
	if confirm != password {
		return invalid("confirm", "passwords do not match")
	}
	return nil
}

// validateCard checks the card fields' format only. No processor is involved.
func validateCard(c model.Card) error {
	number := strings.ReplaceAll(c.Number, " ", "")
	if number == "" || strings.TrimSpace(c.CVV) == "" {
		return invalid("card", "please fill in all card details")
	}
	if len(number) != 16 || !isDigits(number) {
		return invalid("card.number", "must be 16 digits")
	}
	if cvv := strings.TrimSpace(c.CVV); len(cvv) != 3 || !isDigits(cvv) {
		return invalid("card.cvv", "must be 3 digits")
	}
	if !expiryRe.MatchString(strings.TrimSpace(c.Expiry)) {
		return invalid("card.expiry", "format must be MM/YY")
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func requireAttendee(sess model.Session) error {
	if sess.Role != model.RoleAttendee || sess.Email == "" {
		return ErrForbidden
	}
	return nil
}

func requireAdmin(sess model.Session) error {
	if !sess.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
