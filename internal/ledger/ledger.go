// Package ledger owns issued tickets and is the source of truth for
// ticket ownership. It knows nothing about seat counts; releasing the seat of a
// revoked ticket is the caller's job.
package ledger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/platform/keylock"
	"github.com/aalvaropc/railbook/internal/ports"
)

type Ledger struct {
	store ports.TicketStore
	log   *slog.Logger
	newID func() string
	now   func() time.Time
	locks *keylock.Locker

	mu      sync.RWMutex
	tickets map[string]domain.Ticket
}

type Option func(*Ledger)

func WithLogger(l *slog.Logger) Option {
	return func(lg *Ledger) {
		if l != nil {
			lg.log = l
		}
	}
}

// WithIDs overrides ticket id generation (useful for tests).
func WithIDs(gen func() string) Option {
	return func(lg *Ledger) { lg.newID = gen }
}

// WithNow overrides the clock used for booking dates (useful for tests).
func WithNow(now func() time.Time) Option {
	return func(lg *Ledger) { lg.now = now }
}

// New builds a ledger over previously persisted tickets.
//
// Ticket ids are random UUIDv4 values. Issue does not check them against
// existing ids: at 122 random bits a collision is treated as impossible, which
// is an assumption rather than a guarantee.
func New(store ports.TicketStore, loaded []domain.Ticket, opts ...Option) (*Ledger, error) {
	lg := &Ledger{
		store:   store,
		log:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		newID:   uuid.NewString,
		now:     time.Now,
		locks:   keylock.New(),
		tickets: make(map[string]domain.Ticket, len(loaded)),
	}
	for _, opt := range opts {
		opt(lg)
	}

	for _, t := range loaded {
		if _, dup := lg.tickets[t.ID]; dup {
			return nil, &domain.OpError{
				Op:   "ledger.new",
				Kind: domain.KindStorage,
				Err:  fmt.Errorf("%w: duplicate ticket id %q", domain.ErrStorage, t.ID),
			}
		}
		lg.tickets[t.ID] = t
	}
	return lg, nil
}

// Issue mints and persists a ticket for userID on trainID.
func (lg *Ledger) Issue(userID, trainID string, snap domain.TrainSnapshot) (domain.Ticket, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(trainID) == "" {
		return domain.Ticket{}, &domain.OpError{
			Op:   "ledger.issue",
			Kind: domain.KindValidation,
			Err:  domain.ErrMissingFields,
		}
	}

	t := domain.Ticket{
		ID:          lg.newID(),
		UserID:      userID,
		TrainID:     trainID,
		TrainName:   snap.TrainName,
		Source:      snap.Source,
		Destination: snap.Destination,
		BookingDate: lg.now().UTC().Format(domain.BookingDateLayout),
	}

	unlock := lg.locks.Lock(t.ID)
	defer unlock()

	if err := lg.store.SaveTicket(t); err != nil {
		lg.log.Error("ledger.persist.failed", "op", "issue", "ticket_id", t.ID, "err", err)
		return domain.Ticket{}, err
	}

	lg.mu.Lock()
	lg.tickets[t.ID] = t
	lg.mu.Unlock()

	lg.log.Debug("ledger.ticket.issued", "ticket_id", t.ID, "user_id", userID, "train_id", trainID)
	return t, nil
}

// Find returns the ticket record.
func (lg *Ledger) Find(ticketID string) (domain.Ticket, error) {
	lg.mu.RLock()
	t, ok := lg.tickets[ticketID]
	lg.mu.RUnlock()
	if !ok {
		return domain.Ticket{}, ticketNotFound("ledger.find", ticketID)
	}
	return t, nil
}

// OwnerOf returns the id of the user owning ticketID.
func (lg *Ledger) OwnerOf(ticketID string) (string, error) {
	t, err := lg.Find(ticketID)
	if err != nil {
		return "", err
	}
	return t.UserID, nil
}

// Revoke removes the ticket and returns the removed record. Concurrent revokes
// of the same ticket are serialized; only the first one succeeds.
func (lg *Ledger) Revoke(ticketID string) (domain.Ticket, error) {
	unlock := lg.locks.Lock(ticketID)
	defer unlock()

	t, err := lg.Find(ticketID)
	if err != nil {
		return domain.Ticket{}, &domain.OpError{Op: "ledger.revoke", Kind: domain.KindNotFound, Err: err}
	}

	if err := lg.store.DeleteTicket(ticketID); err != nil {
		lg.log.Error("ledger.persist.failed", "op", "revoke", "ticket_id", ticketID, "err", err)
		return domain.Ticket{}, err
	}

	lg.mu.Lock()
	delete(lg.tickets, ticketID)
	lg.mu.Unlock()

	lg.log.Debug("ledger.ticket.revoked", "ticket_id", ticketID, "user_id", t.UserID)
	return t, nil
}

// Restore puts back a ticket removed by Revoke. Restoring a ticket that is
// already present is a no-op.
func (lg *Ledger) Restore(t domain.Ticket) error {
	unlock := lg.locks.Lock(t.ID)
	defer unlock()

	if _, err := lg.Find(t.ID); err == nil {
		return nil
	}

	if err := lg.store.SaveTicket(t); err != nil {
		lg.log.Error("ledger.persist.failed", "op", "restore", "ticket_id", t.ID, "err", err)
		return err
	}

	lg.mu.Lock()
	lg.tickets[t.ID] = t
	lg.mu.Unlock()
	return nil
}

// Len returns the number of live tickets.
func (lg *Ledger) Len() int {
	lg.mu.RLock()
	defer lg.mu.RUnlock()
	return len(lg.tickets)
}

func ticketNotFound(op, id string) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindNotFound,
		Err:  fmt.Errorf("ticket %s: %w", id, domain.ErrTicketNotFound),
	}
}
