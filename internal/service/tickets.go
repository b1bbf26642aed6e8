package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/clock"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/repository"
)

// TicketService quotes and applies pass purchases and upgrades.
type TicketService struct {
	store  *repository.Store
	clock  clock.Clock
	logger *log.Logger
}

// NewTicketService constructs a TicketService.
func NewTicketService(store *repository.Store, clk clock.Clock, logger *log.Logger) *TicketService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &TicketService{store: store, clock: clk, logger: logger}
}

// Quote returns the pending transaction for what the attendee selected. It
// fails early if the pass state does not allow the transaction.
func (s *TicketService) Quote(sess model.Session, req model.QuoteRequest) (model.PendingTransaction, error) {
	if err := requireAttendee(sess); err != nil {
		return model.PendingTransaction{}, err
	}
	exhibition := strings.TrimSpace(req.Exhibition)
	switch req.Kind {
	case model.TxNewStandard, model.TxAddExhibition:
		if exhibition == "" {
			return model.PendingTransaction{}, invalid("exhibition", "is required")
		}
	case model.TxNewAllAccess, model.TxUpgradeAllAccess:
		exhibition = ""
	default:
		return model.PendingTransaction{}, invalid("kind", "unknown transaction kind %q", req.Kind)
	}

	amount, err := s.store.Quote(sess.Email, req.Kind, exhibition)
	if err != nil {
		return model.PendingTransaction{}, err
	}
	return model.PendingTransaction{
		Kind:          req.Kind,
		AttendeeEmail: sess.Email,
		Exhibition:    exhibition,
		Amount:        amount,
		QuotedAt:      s.clock.Now(),
	}, nil
}

// Checkout validates the card format and applies the pending transaction,
// charging the quoted amount. If the price moved since the quote,
// repository.ErrPriceChanged is returned and nothing changes.
func (s *TicketService) Checkout(ctx context.Context, sess model.Session, tx model.PendingTransaction, card model.Card) (model.Ticket, error) {
	if err := requireAttendee(sess); err != nil {
		return model.Ticket{}, err
	}
	if model.NormalizeEmail(tx.AttendeeEmail) != sess.Email {
		return model.Ticket{}, ErrTransactionMismatch
	}
	if err := validateCard(card); err != nil {
		return model.Ticket{}, err
	}

	var (
		ticket model.Ticket
		err    error
	)
	switch tx.Kind {
	case model.TxNewStandard:
		ticket, err = s.store.PurchaseStandard(ctx, sess.Email, tx.Exhibition, tx.Amount, s.clock.Now())
	case model.TxNewAllAccess:
		ticket, err = s.store.PurchaseAllAccess(ctx, sess.Email, tx.Amount, s.clock.Now())
	case model.TxUpgradeAllAccess:
		ticket, err = s.store.UpgradeToAllAccess(ctx, sess.Email, tx.Amount)
	case model.TxAddExhibition:
		ticket, err = s.store.UpgradeAddExhibition(ctx, sess.Email, tx.Exhibition, tx.Amount)
	default:
		return model.Ticket{}, invalid("kind", "unknown transaction kind %q", tx.Kind)
	}
	if err != nil {
		return model.Ticket{}, fmt.Errorf("%s: %w", tx.Item(), err)
	}
	s.logger.Printf("%s for %s: ticket %s, charged %s", tx.Item(), sess.Email, ticket.ID, tx.Amount)
	return ticket, nil
}

func (s *TicketService) quoteAndCheckout(ctx context.Context, sess model.Session, req model.QuoteRequest, card model.Card) (model.Ticket, error) {
	tx, err := s.Quote(sess, req)
	if err != nil {
		return model.Ticket{}, err
	}
	return s.Checkout(ctx, sess, tx, card)
}

// PurchaseStandard buys a pass for one exhibition at the standard price.
func (s *TicketService) PurchaseStandard(ctx context.Context, sess model.Session, exhibition string, card model.Card) (model.Ticket, error) {
	return s.quoteAndCheckout(ctx, sess, model.QuoteRequest{Kind: model.TxNewStandard, Exhibition: exhibition}, card)
}

// PurchaseAllAccess buys a pass for every current exhibition.
func (s *TicketService) PurchaseAllAccess(ctx context.Context, sess model.Session, card model.Card) (model.Ticket, error) {
	return s.quoteAndCheckout(ctx, sess, model.QuoteRequest{Kind: model.TxNewAllAccess}, card)
}

// UpgradeToAllAccess pays the difference to the all-access price.
func (s *TicketService) UpgradeToAllAccess(ctx context.Context, sess model.Session, card model.Card) (model.Ticket, error) {
	return s.quoteAndCheckout(ctx, sess, model.QuoteRequest{Kind: model.TxUpgradeAllAccess}, card)
}

// UpgradeAddExhibition adds one exhibition to the pass.
func (s *TicketService) UpgradeAddExhibition(ctx context.Context, sess model.Session, exhibition string, card model.Card) (model.Ticket, error) {
	return s.quoteAndCheckout(ctx, sess, model.QuoteRequest{Kind: model.TxAddExhibition, Exhibition: exhibition}, card)
}

// AdminUpgrade converts an attendee's standard pass to all-access without
// charging.
func (s *TicketService) AdminUpgrade(ctx context.Context, sess model.Session, email string) (model.Ticket, error) {
	if err := requireAdmin(sess); err != nil {
		return model.Ticket{}, err
	}
	ticket, err := s.store.ForceAllAccess(ctx, model.NormalizeEmail(email))
	if err != nil {
		return model.Ticket{}, err
	}
	s.logger.Printf("admin upgraded %s to all-access (ticket %s)", model.NormalizeEmail(email), ticket.ID)
	return ticket, nil
}
