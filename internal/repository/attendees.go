package repository

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/snapshot"
)

// AddAttendee stores a new attendee. The email is normalized before the
// uniqueness check and before storage.
func (s *Store) AddAttendee(ctx context.Context, a model.Attendee) (model.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.Email = model.NormalizeEmail(a.Email)
	if _, err := s.attendee(a.Email); err == nil {
		return model.Attendee{}, fmt.Errorf("attendee %s: %w", a.Email, ErrDuplicateEmail)
	}
	a.Ticket = nil
	a.Reservations = []int{}

	prior := s.checkpoint()
	s.attendees = append(s.attendees, a.Clone())
	if err := s.persist(ctx, prior, snapshot.KeyAttendees); err != nil {
		return model.Attendee{}, err
	}
	return a, nil
}

// Attendee returns a copy of the attendee with the given email.
func (s *Store) Attendee(email string) (model.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.attendee(email)
	if err != nil {
		return model.Attendee{}, err
	}
	return *a.Clone(), nil
}

// Attendees returns copies of all attendees in registration order.
func (s *Store) Attendees() []model.Attendee {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Attendee, len(s.attendees))
	for i, a := range s.attendees {
		out[i] = *a.Clone()
	}
	return out
}

// UpdateProfile changes an attendee's name, phone and, when passwordHash is
// not empty, password.
func (s *Store) UpdateProfile(ctx context.Context, email, name, phone, passwordHash string) (model.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := s.checkpoint()
	a, err := s.attendee(email)
	if err != nil {
		return model.Attendee{}, err
	}
	a.Name = name
	a.Phone = phone
	if passwordHash != "" {
		a.PasswordHash = passwordHash
	}
	updated := *a.Clone()
	if err := s.persist(ctx, prior, snapshot.KeyAttendees); err != nil {
		return model.Attendee{}, err
	}
	return updated, nil
}
