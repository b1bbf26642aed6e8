package service

import (
	"context"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/repository"
)

// ReservationService books and cancels workshop seats for the session's attendee.
type ReservationService struct {
	store *repository.Store
}

// NewReservationService constructs a ReservationService.
func NewReservationService(store *repository.Store) *ReservationService {
	return &ReservationService{store: store}
}

// Reserve books workshop id. See repository.Store.Reserve for the checks.
func (s *ReservationService) Reserve(ctx context.Context, sess model.Session, workshopID int) (model.Workshop, error) {
	if err := requireAttendee(sess); err != nil {
		return model.Workshop{}, err
	}
	return s.store.Reserve(ctx, sess.Email, workshopID)
}

// Cancel releases the attendee's seat in workshop id.
func (s *ReservationService) Cancel(ctx context.Context, sess model.Session, workshopID int) (model.Workshop, error) {
	if err := requireAttendee(sess); err != nil {
		return model.Workshop{}, err
	}
	return s.store.Cancel(ctx, sess.Email, workshopID)
}
