package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the privilege level of a session.
type Role string

const (
	RoleAttendee Role = "attendee"
	RoleAdmin    Role = "admin"
)

// Session is created at login and passed to every later operation.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Role      Role      `json:"role"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin reports whether the session carries admin privileges.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// TransactionKind names what a pending transaction will do on checkout.
type TransactionKind string

const (
	TxNewStandard      TransactionKind = "standard"
	TxNewAllAccess     TransactionKind = "all_access"
	TxUpgradeAllAccess TransactionKind = "upgrade_all_access"
	TxAddExhibition    TransactionKind = "add_exhibition"
)

// PendingTransaction is what the attendee selected and what checkout will
// charge. It is returned by a quote and handed back to checkout unchanged.
type PendingTransaction struct {
	Kind          TransactionKind `json:"kind"`
	AttendeeEmail string          `json:"attendee_email"`
	Exhibition    string          `json:"exhibition,omitempty"`
	Amount        Money           `json:"amount"`
	QuotedAt      time.Time       `json:"quoted_at"`
}

// Item is the line shown on the payment screen.
func (p PendingTransaction) Item() string {
	switch p.Kind {
	case TxNewStandard:
		return TicketStandard.Label() + " (" + p.Exhibition + ")"
	case TxNewAllAccess:
		return TicketAllAccess.Label()
	case TxUpgradeAllAccess:
		return "Upgrade to " + TicketAllAccess.Label()
	case TxAddExhibition:
		return "Add exhibition " + p.Exhibition
	}
	return string(p.Kind)
}

// Card holds payment card fields. Only their format is checked.
type Card struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}
