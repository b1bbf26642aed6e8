package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/clock"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/repository"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/service"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/snapshot"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	clk := clock.NewFixed(testNow)
	store := repository.Open(context.Background(), snapshot.NewMemory())
	accounts := service.NewAccountService(store, service.NewSessions(clk, time.Hour),
		service.WithAdmin(service.AdminCredential{Email: "admin", Password: "secret"}),
		service.WithHashCost(bcrypt.MinCost),
	)
	h := New(Services{
		Accounts:     accounts,
		Tickets:      service.NewTicketService(store, clk, nil),
		Reservations: service.NewReservationService(store),
		Catalog:      service.NewCatalogService(store),
		Reports:      service.NewReportService(store),
	}, NewTokens([]byte("test-secret"), clk), nil)

	srv := httptest.NewServer(h.Router(nil))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		var e model.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		t.Fatalf("%s %s: expected status %d, got %d (%s: %s)",
			resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, e.Code, e.Error)
	}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func login(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/login", "", model.LoginRequest{Email: email, Password: password})
	expectStatus(t, resp, http.StatusOK)
	return decode[model.LoginResponse](t, resp).Token
}

func registerAndLogin(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/register", "", model.RegisterRequest{
		Name: "Ana Silva", Email: email, Password: "pass1234", Confirm: "pass1234", Phone: "0501234567",
	})
	expectStatus(t, resp, http.StatusCreated)
	return login(t, srv, email, "pass1234")
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, srv, http.MethodGet, "/health", "", nil)
	expectStatus(t, resp, http.StatusOK)
}

func TestCatalogIsPublic(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/catalog/workshops", "", nil)
	expectStatus(t, resp, http.StatusOK)
	workshops := decode[[]workshopView](t, resp)
	if len(workshops) != 5 || workshops[0].Remaining != 50 {
		t.Fatalf("unexpected workshops %+v", workshops)
	}

	resp = do(t, srv, http.MethodGet, "/catalog/pricing", "", nil)
	expectStatus(t, resp, http.StatusOK)
	if p := decode[model.Pricing](t, resp); p != model.DefaultPricing() {
		t.Fatalf("unexpected pricing %+v", p)
	}
}

func TestRegisterErrors(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "ana@x.io")

	resp := do(t, srv, http.MethodPost, "/register", "", model.RegisterRequest{
		Name: "Ana", Email: "ANA@x.io", Password: "pass", Confirm: "pass", Phone: "05012345",
	})
	expectStatus(t, resp, http.StatusConflict)
	if e := decode[model.ErrorResponse](t, resp); e.Code != "duplicate_email" {
		t.Fatalf("expected duplicate_email, got %q", e.Code)
	}

	resp = do(t, srv, http.MethodPost, "/register", "", model.RegisterRequest{Name: "Ana", Email: "bad", Password: "pass", Phone: "05012345"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, srv, http.MethodPost, "/register", "", map[string]string{"unknown": "field"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, srv, http.MethodPost, "/login", "", model.LoginRequest{Email: "ana@x.io", Password: "nope"})
	expectStatus(t, resp, http.StatusUnauthorized)
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	expectStatus(t, do(t, srv, http.MethodGet, "/me/pass", "", nil), http.StatusUnauthorized)
	expectStatus(t, do(t, srv, http.MethodGet, "/me/pass", "garbage", nil), http.StatusUnauthorized)

	forged, err := NewTokens([]byte("other-secret"), clock.NewFixed(testNow)).Issue(model.Session{ExpiresAt: testNow.Add(time.Hour)})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	expectStatus(t, do(t, srv, http.MethodGet, "/me/pass", forged, nil), http.StatusUnauthorized)

	token := registerAndLogin(t, srv, "ana@x.io")
	expectStatus(t, do(t, srv, http.MethodGet, "/admin/stats", token, nil), http.StatusForbidden)

	expectStatus(t, do(t, srv, http.MethodPost, "/logout", token, nil), http.StatusNoContent)
	expectStatus(t, do(t, srv, http.MethodGet, "/me/pass", token, nil), http.StatusUnauthorized)
}

func TestPurchaseAndReserveFlow(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "ana@x.io")

	resp := do(t, srv, http.MethodPost, "/me/quotes", token, model.QuoteRequest{Kind: model.TxNewStandard, Exhibition: "Climate Tech Innovations"})
	expectStatus(t, resp, http.StatusOK)
	tx := decode[model.PendingTransaction](t, resp)
	if tx.Amount != 200*model.AED {
		t.Fatalf("expected AED 200.00, got %s", tx.Amount)
	}

	resp = do(t, srv, http.MethodPost, "/me/checkout", token, model.CheckoutRequest{
		Transaction: tx,
		Card:        model.Card{Number: "4111111111111111", Expiry: "12/29", CVV: "123"},
	})
	expectStatus(t, resp, http.StatusOK)
	ticket := decode[model.Ticket](t, resp)
	if ticket.Type != model.TicketStandard {
		t.Fatalf("unexpected ticket %+v", ticket)
	}

	resp = do(t, srv, http.MethodPost, "/me/reservations/101", token, nil)
	expectStatus(t, resp, http.StatusCreated)
	if w := decode[workshopView](t, resp); w.Booked != 1 || w.Remaining != 49 {
		t.Fatalf("unexpected workshop %+v", w)
	}

	resp = do(t, srv, http.MethodPost, "/me/reservations/101", token, nil)
	expectStatus(t, resp, http.StatusConflict)
	if e := decode[model.ErrorResponse](t, resp); e.Code != "already_booked" {
		t.Fatalf("expected already_booked, got %q", e.Code)
	}

	resp = do(t, srv, http.MethodPost, "/me/reservations/201", token, nil)
	expectStatus(t, resp, http.StatusConflict)
	if e := decode[model.ErrorResponse](t, resp); e.Code != "out_of_scope" {
		t.Fatalf("expected out_of_scope, got %q", e.Code)
	}

	expectStatus(t, do(t, srv, http.MethodPost, "/me/reservations/abc", token, nil), http.StatusBadRequest)
	expectStatus(t, do(t, srv, http.MethodPost, "/me/reservations/999", token, nil), http.StatusNotFound)

	resp = do(t, srv, http.MethodGet, "/me/pass", token, nil)
	expectStatus(t, resp, http.StatusOK)
	if view := decode[model.PassView](t, resp); view.Ticket == nil || len(view.Workshops) != 1 {
		t.Fatalf("unexpected pass %+v", view)
	}

	expectStatus(t, do(t, srv, http.MethodDelete, "/me/reservations/101", token, nil), http.StatusOK)
	expectStatus(t, do(t, srv, http.MethodDelete, "/me/reservations/101", token, nil), http.StatusNotFound)
}

func TestAdminRoutes(t *testing.T) {
	srv := newTestServer(t)
	attendee := registerAndLogin(t, srv, "ana@x.io")
	admin := login(t, srv, "admin", "secret")

	resp := do(t, srv, http.MethodPost, "/admin/exhibitions", admin, model.CreateExhibitionRequest{Name: "Ocean", Description: "Blue economy"})
	expectStatus(t, resp, http.StatusCreated)

	resp = do(t, srv, http.MethodPost, "/admin/workshops", admin, model.CreateWorkshopRequest{Title: "Reefs", Time: "09:00 AM", Capacity: 10, ExhibitionName: "Ocean"})
	expectStatus(t, resp, http.StatusCreated)
	if w := decode[workshopView](t, resp); w.ID != 303 {
		t.Fatalf("expected id 303, got %d", w.ID)
	}

	resp = do(t, srv, http.MethodPut, "/admin/pricing", admin, map[string]any{"price_standard": "180.50"})
	expectStatus(t, resp, http.StatusOK)
	if p := decode[model.Pricing](t, resp); p.Standard != 18050 {
		t.Fatalf("unexpected pricing %+v", p)
	}

	resp = do(t, srv, http.MethodPost, "/admin/attendees/ana@x.io/upgrade", admin, nil)
	expectStatus(t, resp, http.StatusConflict)
	if e := decode[model.ErrorResponse](t, resp); e.Code != "no_ticket" {
		t.Fatalf("expected no_ticket, got %q", e.Code)
	}

	resp = do(t, srv, http.MethodPost, "/me/quotes", attendee, model.QuoteRequest{Kind: model.TxNewStandard, Exhibition: "Ocean"})
	expectStatus(t, resp, http.StatusOK)
	tx := decode[model.PendingTransaction](t, resp)
	resp = do(t, srv, http.MethodPost, "/me/checkout", attendee, model.CheckoutRequest{
		Transaction: tx,
		Card:        model.Card{Number: "4111111111111111", Expiry: "12/29", CVV: "123"},
	})
	expectStatus(t, resp, http.StatusOK)

	expectStatus(t, do(t, srv, http.MethodDelete, "/admin/exhibitions/Ocean", admin, nil), http.StatusConflict)
	expectStatus(t, do(t, srv, http.MethodPost, "/admin/attendees/ana@x.io/upgrade", admin, nil), http.StatusOK)

	resp = do(t, srv, http.MethodGet, "/admin/attendees/ana@x.io", admin, nil)
	expectStatus(t, resp, http.StatusOK)
	if a := decode[model.AttendeeSummary](t, resp); a.Ticket == nil || a.Ticket.Type != model.TicketAllAccess {
		t.Fatalf("unexpected attendee %+v", a)
	}

	resp = do(t, srv, http.MethodGet, "/admin/stats", admin, nil)
	expectStatus(t, resp, http.StatusOK)
	if s := decode[model.DashboardStats](t, resp); s.TicketsSold != 1 || s.Revenue != 18050 {
		t.Fatalf("unexpected stats %+v", s)
	}

	resp = do(t, srv, http.MethodGet, "/admin/sales/2025-03-01", admin, nil)
	expectStatus(t, resp, http.StatusOK)
	if r := decode[model.SalesReport](t, resp); r.Transactions != 1 {
		t.Fatalf("unexpected report %+v", r)
	}
	expectStatus(t, do(t, srv, http.MethodGet, "/admin/sales/March", admin, nil), http.StatusBadRequest)
}

func TestCheckoutAfterPriceChange(t *testing.T) {
	srv := newTestServer(t)
	attendee := registerAndLogin(t, srv, "ana@x.io")
	admin := login(t, srv, "admin", "secret")

	resp := do(t, srv, http.MethodPost, "/me/quotes", attendee, model.QuoteRequest{Kind: model.TxNewAllAccess})
	expectStatus(t, resp, http.StatusOK)
	tx := decode[model.PendingTransaction](t, resp)

	expectStatus(t, do(t, srv, http.MethodPut, "/admin/pricing", admin, map[string]any{"price_all_access": 550}), http.StatusOK)

	resp = do(t, srv, http.MethodPost, "/me/checkout", attendee, model.CheckoutRequest{
		Transaction: tx,
		Card:        model.Card{Number: "4111111111111111", Expiry: "12/29", CVV: "123"},
	})
	expectStatus(t, resp, http.StatusConflict)
	if e := decode[model.ErrorResponse](t, resp); e.Code != "price_changed" {
		t.Fatalf("expected price_changed, got %q", e.Code)
	}
}

func TestAdminRoutesDecodeEscapedPathParams(t *testing.T) {
	srv := newTestServer(t)
	attendee := registerAndLogin(t, srv, "ana@x.io")
	admin := login(t, srv, "admin", "secret")

	resp := do(t, srv, http.MethodPost, "/me/quotes", attendee, model.QuoteRequest{Kind: model.TxNewStandard, Exhibition: "Climate Tech Innovations"})
	expectStatus(t, resp, http.StatusOK)
	tx := decode[model.PendingTransaction](t, resp)
	resp = do(t, srv, http.MethodPost, "/me/checkout", attendee, model.CheckoutRequest{
		Transaction: tx,
		Card:        model.Card{Number: "4111111111111111", Expiry: "12/29", CVV: "123"},
	})
	expectStatus(t, resp, http.StatusOK)

	resp = do(t, srv, http.MethodGet, "/admin/attendees/ana%40x.io", admin, nil)
	expectStatus(t, resp, http.StatusOK)
	if a := decode[model.AttendeeSummary](t, resp); a.Ticket == nil {
		t.Fatalf("expected attendee with ticket, got %+v", a)
	}

	resp = do(t, srv, http.MethodPost, "/admin/attendees/ana%40x.io/upgrade", admin, nil)
	expectStatus(t, resp, http.StatusOK)
	if tk := decode[model.Ticket](t, resp); tk.Type != model.TicketAllAccess {
		t.Fatalf("expected all-access ticket, got %+v", tk)
	}

	resp = do(t, srv, http.MethodPut, "/admin/exhibitions/Community%20Action%20%26%20Impact", admin,
		model.UpdateExhibitionRequest{Name: "Community Action", Description: "Local projects"})
	expectStatus(t, resp, http.StatusOK)
	if e := decode[model.Exhibition](t, resp); e.Name != "Community Action" {
		t.Fatalf("expected renamed exhibition, got %+v", e)
	}

	expectStatus(t, do(t, srv, http.MethodDelete, "/admin/exhibitions/Green%20Policy%20%26%20Governance", admin, nil), http.StatusNoContent)
	expectStatus(t, do(t, srv, http.MethodDelete, "/admin/exhibitions/Green%20Policy%20%26%20Governance", admin, nil), http.StatusNotFound)
}
