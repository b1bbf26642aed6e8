package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/snapshot"
)

// Reserve books a seat in workshop id for the attendee.
//
// Checks run in this order: the workshop exists and the attendee holds a
// ticket (ErrNotFound), a seat is free (ErrWorkshopFull), the attendee has
// not booked it yet (ErrAlreadyBooked), the workshop's exhibition is on the
// ticket (ErrOutOfScope). The booked counter and the attendee's reservation
// list change together and are saved in one call.
func (s *Store) Reserve(ctx context.Context, email string, id int) (model.Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.attendee(email)
	if err != nil {
		return model.Workshop{}, err
	}
	i := s.workshopIndex(id)
	if i < 0 {
		return model.Workshop{}, fmt.Errorf("workshop %d: %w", id, ErrNotFound)
	}
	if a.Ticket == nil {
		return model.Workshop{}, fmt.Errorf("%s has no ticket: %w", a.Email, ErrNotFound)
	}
	w := &s.workshops[i]
	if w.IsFull() {
		return model.Workshop{}, fmt.Errorf("workshop %d: %w", id, ErrWorkshopFull)
	}
	if a.HasReservation(id) {
		return model.Workshop{}, fmt.Errorf("workshop %d: %w", id, ErrAlreadyBooked)
	}
	if !a.Ticket.Allows(w.ExhibitionName) {
		return model.Workshop{}, fmt.Errorf("workshop %d (%s): %w", id, w.ExhibitionName, ErrOutOfScope)
	}

	prior := s.checkpoint()
	w.Booked++
	a.Reservations = append(a.Reservations, id)
	booked := *w
	if err := s.persist(ctx, prior, snapshot.KeyWorkshops, snapshot.KeyAttendees); err != nil {
		return model.Workshop{}, err
	}
	return booked, nil
}

// Cancel removes the attendee's first reservation of workshop id and frees
// the seat. ErrNotFound is returned when there is no such reservation.
func (s *Store) Cancel(ctx context.Context, email string, id int) (model.Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.attendee(email)
	if err != nil {
		return model.Workshop{}, err
	}
	i := s.workshopIndex(id)
	if i < 0 {
		return model.Workshop{}, fmt.Errorf("workshop %d: %w", id, ErrNotFound)
	}
	r := slices.Index(a.Reservations, id)
	if r < 0 {
		return model.Workshop{}, fmt.Errorf("reservation for workshop %d: %w", id, ErrNotFound)
	}

	prior := s.checkpoint()
	a.Reservations = slices.Delete(a.Reservations, r, r+1)
	w := &s.workshops[i]
	w.Booked--
	freed := *w
	if err := s.persist(ctx, prior, snapshot.KeyWorkshops, snapshot.KeyAttendees); err != nil {
		return model.Workshop{}, err
	}
	return freed, nil
}
