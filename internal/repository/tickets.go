package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/snapshot"
)

// Quote returns what kind would cost the attendee right now, after checking
// the pass state machine allows it: NoTicket -> Standard -> AllAccess.
func (s *Store) Quote(email string, kind model.TransactionKind, exhibition string) (model.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.attendee(email)
	if err != nil {
		return 0, err
	}
	return s.costLocked(a, kind, exhibition)
}

func (s *Store) costLocked(a *model.Attendee, kind model.TransactionKind, exhibition string) (model.Money, error) {
	switch kind {
	case model.TxNewStandard:
		if a.Ticket != nil {
			return 0, ErrTicketExists
		}
		if s.exhibitionIndex(exhibition) < 0 {
			return 0, fmt.Errorf("exhibition %q: %w", exhibition, ErrNotFound)
		}
		return s.pricing.Standard, nil

	case model.TxNewAllAccess:
		if a.Ticket != nil {
			return 0, ErrTicketExists
		}
		return s.pricing.AllAccess, nil

	case model.TxUpgradeAllAccess:
		if a.Ticket == nil {
			return 0, ErrNoTicket
		}
		if a.Ticket.Type == model.TicketAllAccess {
			return 0, ErrAlreadyAllAccess
		}
		// Not clamped: a price cut after purchase yields a credit.
		return s.pricing.AllAccess - a.Ticket.Price, nil

	case model.TxAddExhibition:
		if a.Ticket == nil {
			return 0, ErrNoTicket
		}
		if s.exhibitionIndex(exhibition) < 0 {
			return 0, fmt.Errorf("exhibition %q: %w", exhibition, ErrNotFound)
		}
		if a.Ticket.Allows(exhibition) {
			return 0, fmt.Errorf("exhibition %q: %w", exhibition, ErrAlreadyInScope)
		}
		return s.pricing.AddExhibition, nil
	}
	return 0, fmt.Errorf("unknown transaction kind %q", kind)
}

// apply runs one ticket transition for email. quoted must equal the current
// cost of the transition, otherwise ErrPriceChanged is returned and nothing
// changes.
func (s *Store) apply(ctx context.Context, email string, kind model.TransactionKind, exhibition string, quoted model.Money, at time.Time) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.attendee(email)
	if err != nil {
		return model.Ticket{}, err
	}
	cost, err := s.costLocked(a, kind, exhibition)
	if err != nil {
		return model.Ticket{}, err
	}
	if cost != quoted {
		return model.Ticket{}, fmt.Errorf("quoted %s, now %s: %w", quoted, cost, ErrPriceChanged)
	}

	prior := s.checkpoint()
	switch kind {
	case model.TxNewStandard:
		a.Ticket = &model.Ticket{
			ID:                 model.NewTicketID(model.TicketStandard, at),
			Type:               model.TicketStandard,
			Price:              cost,
			AllowedExhibitions: []string{exhibition},
			PurchaseDate:       at,
		}
	case model.TxNewAllAccess:
		a.Ticket = &model.Ticket{
			ID:                 model.NewTicketID(model.TicketAllAccess, at),
			Type:               model.TicketAllAccess,
			Price:              cost,
			AllowedExhibitions: s.exhibitionNames(),
			PurchaseDate:       at,
		}
	case model.TxUpgradeAllAccess:
		a.Ticket.Type = model.TicketAllAccess
		a.Ticket.AllowedExhibitions = s.exhibitionNames()
		a.Ticket.Price += cost
	case model.TxAddExhibition:
		a.Ticket.AllowedExhibitions = append(a.Ticket.AllowedExhibitions, exhibition)
		a.Ticket.Price += cost
	}
	issued := *a.Ticket.Clone()

	if err := s.persist(ctx, prior, snapshot.KeyAttendees); err != nil {
		return model.Ticket{}, err
	}
	return issued, nil
}

// PurchaseStandard issues a single-exhibition pass priced at the standard price.
func (s *Store) PurchaseStandard(ctx context.Context, email, exhibition string, quoted model.Money, at time.Time) (model.Ticket, error) {
	return s.apply(ctx, email, model.TxNewStandard, exhibition, quoted, at)
}

// PurchaseAllAccess issues a pass for every exhibition that exists now.
// Exhibitions added later are not granted.
func (s *Store) PurchaseAllAccess(ctx context.Context, email string, quoted model.Money, at time.Time) (model.Ticket, error) {
	return s.apply(ctx, email, model.TxNewAllAccess, "", quoted, at)
}

// UpgradeToAllAccess turns a standard pass into an all-access pass. The ticket
// id and purchase date are kept.
func (s *Store) UpgradeToAllAccess(ctx context.Context, email string, quoted model.Money) (model.Ticket, error) {
	return s.apply(ctx, email, model.TxUpgradeAllAccess, "", quoted, time.Time{})
}

// UpgradeAddExhibition appends one exhibition to the ticket's scope.
func (s *Store) UpgradeAddExhibition(ctx context.Context, email, exhibition string, quoted model.Money) (model.Ticket, error) {
	return s.apply(ctx, email, model.TxAddExhibition, exhibition, quoted, time.Time{})
}

// ForceAllAccess is the admin override: the ticket becomes all-access for
// every current exhibition and its price is left alone.
func (s *Store) ForceAllAccess(ctx context.Context, email string) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.attendee(email)
	if err != nil {
		return model.Ticket{}, err
	}
	if a.Ticket == nil {
		return model.Ticket{}, ErrNoTicket
	}
	if a.Ticket.Type == model.TicketAllAccess {
		return model.Ticket{}, ErrAlreadyAllAccess
	}

	prior := s.checkpoint()
	a.Ticket.Type = model.TicketAllAccess
	a.Ticket.AllowedExhibitions = s.exhibitionNames()
	issued := *a.Ticket.Clone()
	if err := s.persist(ctx, prior, snapshot.KeyAttendees); err != nil {
		return model.Ticket{}, err
	}
	return issued, nil
}
