package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/clock"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/repository"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/snapshot"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// manualClock is a clock tests can move forward.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

type fixture struct {
	store    *repository.Store
	clock    *manualClock
	accounts *AccountService
	tickets  *TicketService
	reserve  *ReservationService
	catalog  *CatalogService
	reports  *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.Open(context.Background(), snapshot.NewMemory())
	clk := &manualClock{now: testNow}
	return &fixture{
		store: store,
		clock: clk,
		accounts: NewAccountService(store, NewSessions(clk, time.Hour),
			WithAdmin(AdminCredential{Email: "admin", Password: "secret"}),
			WithHashCost(bcrypt.MinCost),
		),
		tickets: NewTicketService(store, clk, nil),
		reserve: NewReservationService(store),
		catalog: NewCatalogService(store),
		reports: NewReportService(store),
	}
}

var validCard = model.Card{Number: "4111 1111 1111 1111", Expiry: "12/29", CVV: "123"}

func (f *fixture) register(t *testing.T, email string) model.Session {
	t.Helper()
	ctx := context.Background()
	_, err := f.accounts.Register(ctx, model.RegisterRequest{
		Name: "Ana Silva", Email: email, Password: "pass1234", Confirm: "pass1234", Phone: "0501234567",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	sess, err := f.accounts.Login(ctx, model.LoginRequest{Email: email, Password: "pass1234"})
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return sess
}

func (f *fixture) admin(t *testing.T) model.Session {
	t.Helper()
	sess, err := f.accounts.Login(context.Background(), model.LoginRequest{Email: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	return sess
}

func TestValidateCard(t *testing.T) {
	tests := []struct {
		name  string
		card  model.Card
		field string
	}{
		{"missing", model.Card{}, "card"},
		{"short number", model.Card{Number: "4111", Expiry: "12/29", CVV: "123"}, "card.number"},
		{"letters", model.Card{Number: "4111x11111111111", Expiry: "12/29", CVV: "123"}, "card.number"},
		{"cvv", model.Card{Number: "4111111111111111", Expiry: "12/29", CVV: "12"}, "card.cvv"},
		{"expiry month", model.Card{Number: "4111111111111111", Expiry: "13/29", CVV: "123"}, "card.expiry"},
		{"expiry format", model.Card{Number: "4111111111111111", Expiry: "1229", CVV: "123"}, "card.expiry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCard(tt.card)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}

	if err := validateCard(validCard); err != nil {
		t.Fatalf("expected valid card, got %v", err)
	}
}

func TestRequireRoles(t *testing.T) {
	attendee := model.Session{Role: model.RoleAttendee, Email: "a@x.io"}
	admin := model.Session{Role: model.RoleAdmin, Email: "admin"}

	if err := requireAttendee(admin); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected admin to be rejected as attendee, got %v", err)
	}
	if err := requireAdmin(attendee); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected attendee to be rejected as admin, got %v", err)
	}
	if err := requireAttendee(model.Session{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected empty session to be rejected, got %v", err)
	}
}

var _ clock.Clock = (*manualClock)(nil)
