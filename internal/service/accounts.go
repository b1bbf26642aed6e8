package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminCredential is the configured admin principal. Exactly one of Password
// and PasswordHash (bcrypt) is normally set; with neither, admin login is off.
type AdminCredential struct {
	Email        string
	Password     string
	PasswordHash string
}

func (c AdminCredential) enabled() bool {
	return c.Email != "" && (c.Password != "" || c.PasswordHash != "")
}

func (c AdminCredential) matches(email, password string) bool {
	if !c.enabled() || email != model.NormalizeEmail(c.Email) {
		return false
	}
	if c.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) == 1
}

// AccountService handles registration, login and profile changes.
type AccountService struct {
	store    *repository.Store
	sessions *Sessions
	admin    AdminCredential
	hashCost int
	logger   *log.Logger
}

// AccountOption configures an AccountService.
type AccountOption func(*AccountService)

// WithAdmin sets the admin principal.
func WithAdmin(c AdminCredential) AccountOption {
	return func(s *AccountService) { s.admin = c }
}

// WithHashCost sets the bcrypt cost for new password hashes.
func WithHashCost(cost int) AccountOption {
	return func(s *AccountService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.hashCost = cost
		}
	}
}

// WithAccountLogger sets the logger.
func WithAccountLogger(l *log.Logger) AccountOption {
	return func(s *AccountService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewAccountService constructs an AccountService.
func NewAccountService(store *repository.Store, sessions *Sessions, opts ...AccountOption) *AccountService {
	s := &AccountService{
		store:    store,
		sessions: sessions,
		hashCost: bcrypt.DefaultCost,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the request and creates an attendee. Emails are trimmed
// and lower-cased, so case and whitespace variants collide.
func (s *AccountService) Register(ctx context.Context, req model.RegisterRequest) (model.AttendeeSummary, error) {
	name := strings.TrimSpace(req.Name)
	email := model.NormalizeEmail(req.Email)
	phone := strings.TrimSpace(req.Phone)

	if name == "" || email == "" || phone == "" || req.Password == "" {
		return model.AttendeeSummary{}, invalid("fields", "all fields are required")
	}
	if err := validateName(name); err != nil {
		return model.AttendeeSummary{}, err
	}
	if err := validatePhone(phone); err != nil {
		return model.AttendeeSummary{}, err
	}
	if err := validateEmail(email); err != nil {
		return model.AttendeeSummary{}, err
	}
	if err := validatePassword(req.Password, req.Confirm); err != nil {
		return model.AttendeeSummary{}, err
	}
	if s.admin.enabled() && email == model.NormalizeEmail(s.admin.Email) {
		return model.AttendeeSummary{}, fmt.Errorf("attendee %s: %w", email, repository.ErrDuplicateEmail)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return model.AttendeeSummary{}, fmt.Errorf("hash password: %w", err)
	}

	a, err := s.store.AddAttendee(ctx, model.Attendee{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        phone,
	})
	if err != nil {
		return model.AttendeeSummary{}, err
	}
	s.logger.Printf("registered attendee %s", a.Email)
	return a.Summary(), nil
}

// Login resolves credentials to a new session. The configured admin is
// checked before any attendee lookup.
func (s *AccountService) Login(ctx context.Context, req model.LoginRequest) (model.Session, error) {
	email := model.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return model.Session{}, invalid("credentials", "please enter both email and password")
	}

	if s.admin.matches(email, req.Password) {
		s.logger.Printf("admin %s logged in", email)
		return s.sessions.Start(model.RoleAdmin, email, "Administrator"), nil
	}

	a, err := s.store.Attendee(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Session{}, ErrInvalidCredentials
		}
		return model.Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)) != nil {
		return model.Session{}, ErrInvalidCredentials
	}
	return s.sessions.Start(model.RoleAttendee, a.Email, a.Name), nil
}

// Logout ends the session.
func (s *AccountService) Logout(sess model.Session) error {
	if !s.sessions.End(sess.ID) {
		return ErrUnauthenticated
	}
	return nil
}

// Authenticate returns the live session with id.
func (s *AccountService) Authenticate(id uuid.UUID) (model.Session, error) {
	return s.sessions.Get(id)
}

// UpdateProfile changes the attendee's name and phone, and the password when
// a new one is given.
func (s *AccountService) UpdateProfile(ctx context.Context, sess model.Session, upd model.ProfileUpdate) (model.AttendeeSummary, error) {
	if err := requireAttendee(sess); err != nil {
		return model.AttendeeSummary{}, err
	}
	name := strings.TrimSpace(upd.Name)
	phone := strings.TrimSpace(upd.Phone)
	if name == "" || phone == "" {
		return model.AttendeeSummary{}, invalid("fields", "name and phone cannot be empty")
	}
	if err := validateName(name); err != nil {
		return model.AttendeeSummary{}, err
	}
	if err := validatePhone(phone); err != nil {
		return model.AttendeeSummary{}, err
	}

	var hash string
	if upd.Password != "" {
		if upd.Password != upd.Confirm {
			return model.AttendeeSummary{}, invalid("confirm", "new passwords do not match")
		}
		if err := validatePassword(upd.Password, upd.Confirm); err != nil {
			return model.AttendeeSummary{}, err
		}
		b, err := bcrypt.GenerateFromPassword([]byte(upd.Password), s.hashCost)
		if err != nil {
			return model.AttendeeSummary{}, fmt.Errorf("hash password: %w", err)
		}
		hash = string(b)
	}

	a, err := s.store.UpdateProfile(ctx, sess.Email, name, phone, hash)
	if err != nil {
		return model.AttendeeSummary{}, err
	}
	return a.Summary(), nil
}

// Pass returns the attendee's ticket and reserved workshops, resolved by id
// against the live workshop list.
func (s *AccountService) Pass(sess model.Session) (model.PassView, error) {
	if err := requireAttendee(sess); err != nil {
		return model.PassView{}, err
	}
	a, err := s.store.Attendee(sess.Email)
	if err != nil {
		return model.PassView{}, err
	}
	view := model.PassView{Holder: a.Name, Ticket: a.Ticket, Workshops: []model.Workshop{}}
	for _, id := range a.Reservations {
		w, err := s.store.Workshop(id)
		if err != nil {
			continue
		}
		view.Workshops = append(view.Workshops, w)
	}
	return view, nil
}
