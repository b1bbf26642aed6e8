// Package model defines the core domain types for the conference booking engine.
package model

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Exhibition is a conference topic. Workshops and ticket scopes refer to it by name.
type Exhibition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Workshop is a capacity-limited session belonging to one exhibition.
type Workshop struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Time           string `json:"time"`
	Capacity       int    `json:"capacity"`
	Booked         int    `json:"booked"`
	ExhibitionName string `json:"exhibition_name"`
}

// Remaining returns the number of available seats.
func (w *Workshop) Remaining() int {
	return w.Capacity - w.Booked
}

// IsFull returns true when no seats remain.
func (w *Workshop) IsFull() bool {
	return w.Booked >= w.Capacity
}

// TicketType distinguishes single-exhibition passes from all-access passes.
type TicketType string

const (
	TicketStandard  TicketType = "standard"
	TicketAllAccess TicketType = "all_access"
)

// Label is the name printed on the pass.
func (t TicketType) Label() string {
	if t == TicketAllAccess {
		return "All-Access"
	}
	return "Exhibition Pass"
}

// Code is the short type code used in ticket ids.
func (t TicketType) Code() string {
	if t == TicketAllAccess {
		return "ALL"
	}
	return "EXH"
}

// Ticket is the entry pass held by a single attendee. ID and PurchaseDate are
// fixed at creation; upgrades change Type, Price and AllowedExhibitions.
type Ticket struct {
	ID                 string     `json:"id"`
	Type               TicketType `json:"type"`
	Price              Money      `json:"price"`
	AllowedExhibitions []string   `json:"allowed_exhibitions"`
	PurchaseDate       time.Time  `json:"purchase_date"`
}

// Allows reports whether the ticket's scope contains the named exhibition.
func (t *Ticket) Allows(exhibition string) bool {
	return slices.Contains(t.AllowedExhibitions, exhibition)
}

// PurchaseDay returns the purchase date as YYYY-MM-DD.
func (t *Ticket) PurchaseDay() string {
	return t.PurchaseDate.Format(time.DateOnly)
}

// Clone returns a deep copy so callers cannot alias the stored scope slice.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	c := *t
	c.AllowedExhibitions = slices.Clone(t.AllowedExhibitions)
	return &c
}

// Attendee is a registered participant. Reservations holds workshop ids; the
// live Workshop is always looked up from the workshop collection.
type Attendee struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Phone        string    `json:"phone"`
	Ticket       *Ticket   `json:"ticket,omitempty"`
	Reservations []int     `json:"reservations"`
}

// HasReservation reports whether the attendee holds a seat in workshop id.
func (a *Attendee) HasReservation(id int) bool {
	return slices.Contains(a.Reservations, id)
}

// Clone returns a deep copy of the attendee.
func (a *Attendee) Clone() *Attendee {
	c := *a
	c.Ticket = a.Ticket.Clone()
	c.Reservations = slices.Clone(a.Reservations)
	return &c
}

// Summary returns the attendee without credentials.
func (a *Attendee) Summary() AttendeeSummary {
	return AttendeeSummary{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		Ticket:       a.Ticket.Clone(),
		Reservations: slices.Clone(a.Reservations),
	}
}

// AttendeeSummary is an attendee as shown to clients.
type AttendeeSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Ticket       *Ticket   `json:"ticket,omitempty"`
	Reservations []int     `json:"reservations"`
}

// Pricing is the process-wide price list.
type Pricing struct {
	Standard      Money `json:"price_standard"`
	AllAccess     Money `json:"price_all_access"`
	AddExhibition Money `json:"upgrade_add_exhibition_cost"`
}

// DefaultPricing is the first-run price list.
func DefaultPricing() Pricing {
	return Pricing{
		Standard:      200 * AED,
		AllAccess:     500 * AED,
		AddExhibition: 150 * AED,
	}
}

// NormalizeEmail trims and lower-cases an email so case and whitespace
// variants compare equal.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewTicketID builds the display code GW-{ALL|EXH}-NNNN from the purchase
// time. It is not unique across tickets bought in the same second bucket.
func NewTicketID(t TicketType, at time.Time) string {
	return fmt.Sprintf("GW-%s-%04d", t.Code(), at.Unix()%10000)
}
