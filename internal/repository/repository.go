// Package repository holds the authoritative in-memory collections of the
// booking engine and persists them through a snapshot store.
//
// Every mutating method is one unit: it checks its preconditions, mutates and
// saves the affected collections while holding the store lock. If the save
// fails the in-memory state is rolled back and a *PersistenceError is
// returned, so memory and disk do not drift apart.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/snapshot"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrWorkshopFull is returned when a workshop has no remaining capacity.
var ErrWorkshopFull = errors.New("workshop is fully booked")

// ErrAlreadyBooked is returned when an attendee reserves the same workshop twice.
var ErrAlreadyBooked = errors.New("workshop already reserved")

// ErrOutOfScope is returned when a workshop's exhibition is not on the ticket.
var ErrOutOfScope = errors.New("workshop is outside the pass scope")

// ErrDuplicateEmail is returned when an email is already registered.
var ErrDuplicateEmail = errors.New("email is already registered")

// ErrDuplicateExhibition is returned when an exhibition name is taken.
var ErrDuplicateExhibition = errors.New("exhibition already exists")

// ErrReferencedByTicket is returned when deleting an exhibition on a ticket's scope.
var ErrReferencedByTicket = errors.New("exhibition is referenced by an issued ticket")

// ErrHasActiveReservations is returned when deleting a workshop that has bookings.
var ErrHasActiveReservations = errors.New("workshop has active reservations")

// ErrTicketExists is returned when purchasing while already holding a ticket.
var ErrTicketExists = errors.New("attendee already holds a ticket")

// ErrNoTicket is returned when an upgrade needs a ticket the attendee lacks.
var ErrNoTicket = errors.New("attendee has no ticket")

// ErrAlreadyAllAccess is returned when upgrading an all-access ticket.
var ErrAlreadyAllAccess = errors.New("ticket is already all-access")

// ErrAlreadyInScope is returned when adding an exhibition the ticket covers.
var ErrAlreadyInScope = errors.New("exhibition is already on the ticket")

// ErrPriceChanged is returned when a quoted amount no longer matches the
// current price of the operation.
var ErrPriceChanged = errors.New("price changed since the quote")

// PersistenceError reports a failed snapshot save. The mutation it belonged
// to has been rolled back in memory.
type PersistenceError struct {
	Keys []string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", strings.Join(e.Keys, ","), e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store owns exhibitions, workshops, attendees and pricing.
type Store struct {
	mu        sync.Mutex
	snapshots snapshot.Store
	logger    *log.Logger

	exhibitions []model.Exhibition
	workshops   []model.Workshop
	attendees   []*model.Attendee
	pricing     model.Pricing

	// unreadable holds keys whose snapshot exists but could not be read at
	// Open. Startup repairs never write them back.
	unreadable map[string]bool
}

// state is a deep copy of every collection, used for rollback.
type state struct {
	exhibitions []model.Exhibition
	workshops   []model.Workshop
	attendees   []*model.Attendee
	pricing     model.Pricing
}

func (s *Store) checkpoint() state {
	attendees := make([]*model.Attendee, len(s.attendees))
	for i, a := range s.attendees {
		attendees[i] = a.Clone()
	}
	return state{
		exhibitions: slices.Clone(s.exhibitions),
		workshops:   slices.Clone(s.workshops),
		attendees:   attendees,
		pricing:     s.pricing,
	}
}

func (s *Store) restore(st state) {
	s.exhibitions = st.exhibitions
	s.workshops = st.workshops
	s.attendees = st.attendees
	s.pricing = st.pricing
}

func (s *Store) entries(keys []string) []snapshot.Entry {
	out := make([]snapshot.Entry, 0, len(keys))
	for _, k := range keys {
		var v any
		switch k {
		case snapshot.KeyExhibitions:
			v = s.exhibitions
		case snapshot.KeyWorkshops:
			v = s.workshops
		case snapshot.KeyAttendees:
			v = s.attendees
		case snapshot.KeyConfig:
			v = s.pricing
		}
		out = append(out, snapshot.Entry{Key: k, Value: v})
	}
	return out
}

// persist saves keys. On failure it restores prior, tries to write prior back
// (a file store may have replaced some keys already) and returns a
// *PersistenceError. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, prior state, keys ...string) error {
	err := s.snapshots.Save(ctx, s.entries(keys)...)
	if err == nil {
		return nil
	}
	s.logger.Printf("save %s failed, rolling back: %v", strings.Join(keys, ","), err)
	s.restore(prior)
	if rerr := s.snapshots.Save(context.WithoutCancel(ctx), s.entries(keys)...); rerr != nil {
		s.logger.Printf("re-save %s after rollback failed: %v", strings.Join(keys, ","), rerr)
	}
	return &PersistenceError{Keys: keys, Err: err}
}

func (s *Store) exhibitionIndex(name string) int {
	return slices.IndexFunc(s.exhibitions, func(e model.Exhibition) bool { return e.Name == name })
}

func (s *Store) workshopIndex(id int) int {
	return slices.IndexFunc(s.workshops, func(w model.Workshop) bool { return w.ID == id })
}

func (s *Store) attendee(email string) (*model.Attendee, error) {
	email = model.NormalizeEmail(email)
	for _, a := range s.attendees {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, fmt.Errorf("attendee %s: %w", email, ErrNotFound)
}

func (s *Store) exhibitionNames() []string {
	names := make([]string, len(s.exhibitions))
	for i, e := range s.exhibitions {
		names[i] = e.Name
	}
	return names
}
