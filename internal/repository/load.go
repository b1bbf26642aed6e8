package repository

import (
	"context"
	"errors"
	"io"
	"log"
	"slices"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/snapshot"
)

// Option configures Open.
type Option func(*Store)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultPricing sets the price list used when no config snapshot exists.
func WithDefaultPricing(p model.Pricing) Option {
	return func(s *Store) {
		s.pricing = p
	}
}

// DefaultExhibitions is the seed catalog.
func DefaultExhibitions() []model.Exhibition {
	return []model.Exhibition{
		{Name: "Climate Tech Innovations", Description: "Workshops: Intro to Data (10:30), Renewable Energy (12:30), Smart Agri (14:30)"},
		{Name: "Green Policy & Governance", Description: "Workshops: Policy Sim (09:30), Reporting 101 (12:00), Corp Strategy (14:00)"},
		{Name: "Community Action & Impact", Description: "Workshops: Low-Carbon (12:30), Waste Reduction (14:00), Circular Econ (15:30)"},
	}
}

// DefaultWorkshops is the seed workshop list.
func DefaultWorkshops() []model.Workshop {
	return []model.Workshop{
		{ID: 101, Title: "Intro to Climate Data Tools", Time: "10:30 AM", Capacity: 50, ExhibitionName: "Climate Tech Innovations"},
		{ID: 102, Title: "Renewable Energy Systems", Time: "12:30 PM", Capacity: 50, ExhibitionName: "Climate Tech Innovations"},
		{ID: 201, Title: "Policy Simulation Lab", Time: "09:30 AM", Capacity: 50, ExhibitionName: "Green Policy & Governance"},
		{ID: 301, Title: "Building Low-Carbon Communities", Time: "12:30 PM", Capacity: 50, ExhibitionName: "Community Action & Impact"},
		{ID: 302, Title: "Circular Economy", Time: "03:30 PM", Capacity: 50, ExhibitionName: "Community Action & Impact"},
	}
}

// Open loads every collection from snapshots. Load failures never stop
// startup: missing or unreadable collections fall back to their defaults and
// the failure is logged.
func Open(ctx context.Context, snapshots snapshot.Store, opts ...Option) *Store {
	s := &Store{
		snapshots:  snapshots,
		logger:     log.New(io.Discard, "", 0),
		pricing:    model.DefaultPricing(),
		unreadable: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.pricing = loadOr(ctx, s, snapshot.KeyConfig, s.pricing)
	s.exhibitions = loadOr(ctx, s, snapshot.KeyExhibitions, []model.Exhibition(nil))
	s.workshops = loadOr(ctx, s, snapshot.KeyWorkshops, []model.Workshop(nil))
	s.attendees = loadOr(ctx, s, snapshot.KeyAttendees, []*model.Attendee(nil))

	switch {
	case len(s.exhibitions) == 0:
		s.logger.Printf("no exhibitions found, seeding defaults")
		s.seed(ctx)
	case s.exhibitions[0].Description == "":
		// Snapshots written before exhibitions had descriptions.
		s.logger.Printf("detected old exhibition format, resetting catalog to defaults")
		s.seed(ctx)
	}

	s.reconcile(ctx)
	return s
}

// loadOr returns the snapshot for key, or def when it is missing or unreadable.
// Read failures other than corruption mark key as unreadable.
func loadOr[T any](ctx context.Context, s *Store, key string, def T) T {
	var v T
	err := s.snapshots.Load(ctx, key, &v)
	switch {
	case err == nil:
		return v
	case errors.Is(err, snapshot.ErrNotExist):
		return def
	case errors.Is(err, snapshot.ErrCorrupt):
		s.logger.Printf("load %s failed, using defaults: %v", key, err)
		return def
	default:
		s.unreadable[key] = true
		s.logger.Printf("load %s failed, using defaults: %v", key, err)
		return def
	}
}

func (s *Store) seed(ctx context.Context) {
	s.exhibitions = DefaultExhibitions()
	s.workshops = DefaultWorkshops()
	s.saveReadable(ctx, "seeded catalog", snapshot.KeyExhibitions, snapshot.KeyWorkshops)
}

// saveReadable writes keys back, skipping any whose stored snapshot could not
// be read.
func (s *Store) saveReadable(ctx context.Context, what string, keys ...string) {
	keys = slices.DeleteFunc(keys, func(k string) bool {
		if s.unreadable[k] {
			s.logger.Printf("not saving %s: %s snapshot was unreadable at startup", what, k)
			return true
		}
		return false
	})
	if len(keys) == 0 {
		return
	}
	if err := s.snapshots.Save(ctx, s.entries(keys)...); err != nil {
		s.logger.Printf("save %s failed: %v", what, err)
	}
}

// reconcile drops reservations of unknown workshops and duplicate entries,
// then recomputes every workshop's booked count from attendee reservations.
func (s *Store) reconcile(ctx context.Context) {
	known := make(map[int]bool, len(s.workshops))
	for _, w := range s.workshops {
		known[w.ID] = true
	}

	counts := make(map[int]int, len(s.workshops))
	drift := false
	s.attendees = slices.DeleteFunc(s.attendees, func(a *model.Attendee) bool { return a == nil })
	for _, a := range s.attendees {
		seen := make(map[int]bool, len(a.Reservations))
		kept := a.Reservations[:0]
		for _, id := range a.Reservations {
			if !known[id] || seen[id] {
				s.logger.Printf("dropping reservation of %s for workshop %d", a.Email, id)
				drift = true
				continue
			}
			seen[id] = true
			counts[id]++
			kept = append(kept, id)
		}
		a.Reservations = kept
	}

	for i := range s.workshops {
		w := &s.workshops[i]
		if w.Booked != counts[w.ID] {
			s.logger.Printf("workshop %d booked count %d does not match %d reservations, correcting", w.ID, w.Booked, counts[w.ID])
			w.Booked = counts[w.ID]
			drift = true
		}
		if w.Booked > w.Capacity {
			s.logger.Printf("workshop %d is over capacity (%d/%d)", w.ID, w.Booked, w.Capacity)
		}
	}

	if !drift {
		return
	}
	// Booked counts derive from attendees, so neither side is written when
	// either could not be read.
	if s.unreadable[snapshot.KeyWorkshops] || s.unreadable[snapshot.KeyAttendees] {
		s.logger.Printf("not saving reconciled collections: workshops or attendees snapshot was unreadable at startup")
		return
	}
	if err := s.snapshots.Save(ctx, s.entries([]string{snapshot.KeyWorkshops, snapshot.KeyAttendees})...); err != nil {
		s.logger.Printf("save reconciled collections failed: %v", err)
	}
}
