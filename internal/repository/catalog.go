package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/snapshot"
)

// firstWorkshopID is the id given to the first workshop of an empty catalog.
const firstWorkshopID = 101

// Exhibitions returns a copy of all exhibitions in catalog order.
func (s *Store) Exhibitions() []model.Exhibition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.exhibitions)
}

// ExhibitionNames returns the names of all exhibitions.
func (s *Store) ExhibitionNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exhibitionNames()
}

// Workshops returns a copy of all workshops.
func (s *Store) Workshops() []model.Workshop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.workshops)
}

// Workshop returns a single workshop or ErrNotFound.
func (s *Store) Workshop(id int) (model.Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.workshopIndex(id)
	if i < 0 {
		return model.Workshop{}, fmt.Errorf("workshop %d: %w", id, ErrNotFound)
	}
	return s.workshops[i], nil
}

// Pricing returns the current price list.
func (s *Store) Pricing() model.Pricing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricing
}

// AddExhibition appends an exhibition. Names are unique.
func (s *Store) AddExhibition(ctx context.Context, e model.Exhibition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exhibitionIndex(e.Name) >= 0 {
		return fmt.Errorf("exhibition %q: %w", e.Name, ErrDuplicateExhibition)
	}
	prior := s.checkpoint()
	s.exhibitions = append(s.exhibitions, e)
	return s.persist(ctx, prior, snapshot.KeyExhibitions)
}

// UpdateExhibition changes an exhibition's name and description. A rename is
// carried over to the exhibition's workshops; issued ticket scopes keep the
// old name.
func (s *Store) UpdateExhibition(ctx context.Context, name string, upd model.Exhibition) (model.Exhibition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.exhibitionIndex(name)
	if i < 0 {
		return model.Exhibition{}, fmt.Errorf("exhibition %q: %w", name, ErrNotFound)
	}
	renamed := upd.Name != name
	if renamed && s.exhibitionIndex(upd.Name) >= 0 {
		return model.Exhibition{}, fmt.Errorf("exhibition %q: %w", upd.Name, ErrDuplicateExhibition)
	}

	prior := s.checkpoint()
	s.exhibitions[i] = upd
	keys := []string{snapshot.KeyExhibitions}
	if renamed {
		for j := range s.workshops {
			if s.workshops[j].ExhibitionName == name {
				s.workshops[j].ExhibitionName = upd.Name
			}
		}
		keys = append(keys, snapshot.KeyWorkshops)
	}
	if err := s.persist(ctx, prior, keys...); err != nil {
		return model.Exhibition{}, err
	}
	return upd, nil
}

// RemoveExhibition deletes an exhibition unless a ticket's scope names it.
func (s *Store) RemoveExhibition(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.exhibitionIndex(name)
	if i < 0 {
		return fmt.Errorf("exhibition %q: %w", name, ErrNotFound)
	}
	holders := 0
	for _, a := range s.attendees {
		if a.Ticket != nil && a.Ticket.Allows(name) {
			holders++
		}
	}
	if holders > 0 {
		return fmt.Errorf("exhibition %q on %d ticket(s): %w", name, holders, ErrReferencedByTicket)
	}

	prior := s.checkpoint()
	s.exhibitions = slices.Delete(s.exhibitions, i, i+1)
	return s.persist(ctx, prior, snapshot.KeyExhibitions)
}

// AddWorkshop appends a workshop with the next sequential id. The exhibition
// must exist.
func (s *Store) AddWorkshop(ctx context.Context, w model.Workshop) (model.Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exhibitionIndex(w.ExhibitionName) < 0 {
		return model.Workshop{}, fmt.Errorf("exhibition %q: %w", w.ExhibitionName, ErrNotFound)
	}

	w.ID = firstWorkshopID
	for _, existing := range s.workshops {
		if existing.ID >= w.ID {
			w.ID = existing.ID + 1
		}
	}
	w.Booked = 0

	prior := s.checkpoint()
	s.workshops = append(s.workshops, w)
	if err := s.persist(ctx, prior, snapshot.KeyWorkshops); err != nil {
		return model.Workshop{}, err
	}
	return w, nil
}

// RemoveWorkshop deletes a workshop unless an attendee has reserved it.
func (s *Store) RemoveWorkshop(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.workshopIndex(id)
	if i < 0 {
		return fmt.Errorf("workshop %d: %w", id, ErrNotFound)
	}
	holders := 0
	for _, a := range s.attendees {
		if a.HasReservation(id) {
			holders++
		}
	}
	if holders > 0 {
		return fmt.Errorf("workshop %d booked by %d user(s): %w", id, holders, ErrHasActiveReservations)
	}

	prior := s.checkpoint()
	s.workshops = slices.Delete(s.workshops, i, i+1)
	return s.persist(ctx, prior, snapshot.KeyWorkshops)
}

// UpdatePricing applies the non-nil fields of upd.
func (s *Store) UpdatePricing(ctx context.Context, upd model.PricingUpdate) (model.Pricing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := s.checkpoint()
	if upd.Standard != nil {
		s.pricing.Standard = *upd.Standard
	}
	if upd.AllAccess != nil {
		s.pricing.AllAccess = *upd.AllAccess
	}
	if upd.AddExhibition != nil {
		s.pricing.AddExhibition = *upd.AddExhibition
	}
	if err := s.persist(ctx, prior, snapshot.KeyConfig); err != nil {
		return model.Pricing{}, err
	}
	return s.pricing, nil
}
