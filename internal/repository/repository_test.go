package repository

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/snapshot"
	"github.com/google/uuid"
)

var purchasedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// flakyStore fails every save while fail is set.
type flakyStore struct {
	*snapshot.Memory
	fail  bool
	saves int
}

func (f *flakyStore) Save(ctx context.Context, entries ...snapshot.Entry) error {
	f.saves++
	if f.fail {
		return errors.New("disk full")
	}
	return f.Memory.Save(ctx, entries...)
}

// unreadableStore fails loads of the listed keys with a non-decode error.
type unreadableStore struct {
	*snapshot.Memory
	loadErr map[string]error
}

func (u *unreadableStore) Load(ctx context.Context, key string, v any) error {
	if err, ok := u.loadErr[key]; ok {
		return err
	}
	return u.Memory.Load(ctx, key, v)
}

func newTestStore(t *testing.T) (*Store, *flakyStore) {
	t.Helper()
	fs := &flakyStore{Memory: snapshot.NewMemory()}
	return Open(context.Background(), fs), fs
}

func addAttendee(t *testing.T, s *Store, email string) {
	t.Helper()
	if _, err := s.AddAttendee(context.Background(), model.Attendee{ID: uuid.New(), Name: "Test", Email: email}); err != nil {
		t.Fatalf("add attendee %s: %v", email, err)
	}
}

func buyStandard(t *testing.T, s *Store, email, exhibition string) model.Ticket {
	t.Helper()
	ticket, err := s.PurchaseStandard(context.Background(), email, exhibition, s.Pricing().Standard, purchasedAt)
	if err != nil {
		t.Fatalf("purchase standard for %s: %v", email, err)
	}
	return ticket
}

func TestOpenSeedsDefaults(t *testing.T) {
	s, fs := newTestStore(t)

	if got := len(s.Exhibitions()); got != 3 {
		t.Fatalf("expected 3 seeded exhibitions, got %d", got)
	}
	if got := len(s.Workshops()); got != 5 {
		t.Fatalf("expected 5 seeded workshops, got %d", got)
	}
	if s.Pricing() != model.DefaultPricing() {
		t.Fatalf("expected default pricing, got %+v", s.Pricing())
	}
	if _, ok := fs.Raw(snapshot.KeyExhibitions); !ok {
		t.Fatal("expected seeded exhibitions to be saved")
	}
}

func TestOpenReseedsStaleExhibitions(t *testing.T) {
	mem := snapshot.NewMemory()
	mem.Put(snapshot.KeyExhibitions, []byte(`[{"name":"Old Expo"}]`))

	s := Open(context.Background(), mem)

	names := s.ExhibitionNames()
	if len(names) != 3 || names[0] != "Climate Tech Innovations" {
		t.Fatalf("expected default exhibitions, got %v", names)
	}
}

func TestOpenMasksCorruptSnapshots(t *testing.T) {
	mem := snapshot.NewMemory()
	mem.Put(snapshot.KeyAttendees, []byte("not json"))
	mem.Put(snapshot.KeyConfig, []byte("{"))

	s := Open(context.Background(), mem)

	if got := len(s.Attendees()); got != 0 {
		t.Fatalf("expected no attendees, got %d", got)
	}
	if s.Pricing() != model.DefaultPricing() {
		t.Fatalf("expected default pricing, got %+v", s.Pricing())
	}
}

func TestOpenReconcilesBookedCounts(t *testing.T) {
	ctx := context.Background()
	mem := snapshot.NewMemory()

	workshops := DefaultWorkshops()
	workshops[0].Booked = 7
	attendee := &model.Attendee{
		Email:        "a@x.io",
		Ticket:       &model.Ticket{ID: "GW-ALL-0001", Type: model.TicketAllAccess},
		Reservations: []int{101, 101, 999},
	}
	err := mem.Save(ctx,
		snapshot.Entry{Key: snapshot.KeyExhibitions, Value: DefaultExhibitions()},
		snapshot.Entry{Key: snapshot.KeyWorkshops, Value: workshops},
		snapshot.Entry{Key: snapshot.KeyAttendees, Value: []*model.Attendee{attendee}},
	)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	s := Open(ctx, mem)

	w, err := s.Workshop(101)
	if err != nil {
		t.Fatalf("workshop: %v", err)
	}
	if w.Booked != 1 {
		t.Fatalf("expected booked 1, got %d", w.Booked)
	}
	a, err := s.Attendee("a@x.io")
	if err != nil {
		t.Fatalf("attendee: %v", err)
	}
	if len(a.Reservations) != 1 || a.Reservations[0] != 101 {
		t.Fatalf("expected reservations [101], got %v", a.Reservations)
	}

	// The repaired state was written back.
	reopened := Open(ctx, mem)
	if w, _ := reopened.Workshop(101); w.Booked != 1 {
		t.Fatalf("expected repaired count to persist, got %d", w.Booked)
	}
}

func TestOpenKeepsUnreadableSnapshots(t *testing.T) {
	ctx := context.Background()
	mem := snapshot.NewMemory()

	workshops := DefaultWorkshops()
	workshops[0].Booked = 3
	attendees := []*model.Attendee{
		{Email: "a@x.io", Ticket: &model.Ticket{ID: "GW-ALL-0001", Type: model.TicketAllAccess}, Reservations: []int{101}},
		{Email: "b@x.io", Ticket: &model.Ticket{ID: "GW-ALL-0002", Type: model.TicketAllAccess}, Reservations: []int{101}},
		{Email: "c@x.io", Ticket: &model.Ticket{ID: "GW-ALL-0003", Type: model.TicketAllAccess}, Reservations: []int{101}},
	}
	err := mem.Save(ctx,
		snapshot.Entry{Key: snapshot.KeyExhibitions, Value: DefaultExhibitions()},
		snapshot.Entry{Key: snapshot.KeyWorkshops, Value: workshops},
		snapshot.Entry{Key: snapshot.KeyAttendees, Value: attendees},
	)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	wantAttendees, _ := mem.Raw(snapshot.KeyAttendees)
	wantWorkshops, _ := mem.Raw(snapshot.KeyWorkshops)

	s := Open(ctx, &unreadableStore{Memory: mem, loadErr: map[string]error{snapshot.KeyAttendees: os.ErrPermission}})

	if got := len(s.Attendees()); got != 0 {
		t.Fatalf("expected no attendees in memory, got %d", got)
	}
	if got, _ := mem.Raw(snapshot.KeyAttendees); !bytes.Equal(got, wantAttendees) {
		t.Fatalf("expected attendees snapshot untouched, got %s", got)
	}
	if got, _ := mem.Raw(snapshot.KeyWorkshops); !bytes.Equal(got, wantWorkshops) {
		t.Fatalf("expected workshops snapshot untouched, got %s", got)
	}

	// Once the read succeeds again the bookings are all still there.
	reopened := Open(ctx, mem)
	if got := len(reopened.Attendees()); got != 3 {
		t.Fatalf("expected 3 attendees, got %d", got)
	}
	if w, _ := reopened.Workshop(101); w.Booked != 3 {
		t.Fatalf("expected booked 3, got %d", w.Booked)
	}
}

func TestReloadRestoresBookings(t *testing.T) {
	ctx := context.Background()
	mem := snapshot.NewMemory()
	s := Open(ctx, mem)

	w, err := s.AddWorkshop(ctx, model.Workshop{Title: "Small", Time: "09:00 AM", Capacity: 5, ExhibitionName: "Climate Tech Innovations"})
	if err != nil {
		t.Fatalf("add workshop: %v", err)
	}
	for _, email := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		addAttendee(t, s, email)
		buyStandard(t, s, email, "Climate Tech Innovations")
		if _, err := s.Reserve(ctx, email, w.ID); err != nil {
			t.Fatalf("reserve for %s: %v", email, err)
		}
	}

	reloaded := Open(ctx, mem)
	got, err := reloaded.Workshop(w.ID)
	if err != nil {
		t.Fatalf("workshop: %v", err)
	}
	if got.Booked != 3 || got.Remaining() != 2 {
		t.Fatalf("expected 3 booked and 2 remaining, got %d/%d", got.Booked, got.Remaining())
	}
	a, _ := reloaded.Attendee("b@x.io")
	if !a.HasReservation(w.ID) {
		t.Fatalf("expected reservation to survive reload, got %v", a.Reservations)
	}
}

func TestAddAttendeeNormalizesEmail(t *testing.T) {
	s, _ := newTestStore(t)
	addAttendee(t, s, "  Ana@Example.COM ")

	_, err := s.AddAttendee(context.Background(), model.Attendee{Email: "ana@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := s.Attendee("ANA@example.com"); err != nil {
		t.Fatalf("expected lookup by any case to succeed: %v", err)
	}
}

func TestUpdateProfileKeepsPasswordWhenEmpty(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	if _, err := s.AddAttendee(ctx, model.Attendee{Email: "a@x.io", Name: "Ana", PasswordHash: "h1"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	a, err := s.UpdateProfile(ctx, "a@x.io", "Ana Maria", "0501234567", "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if a.Name != "Ana Maria" || a.Phone != "0501234567" || a.PasswordHash != "h1" {
		t.Fatalf("unexpected attendee %+v", a)
	}
}
