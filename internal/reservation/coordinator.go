// Package reservation coordinates bookings and cancellations across the train
// catalog, the ticket ledger and the user directory.
//
// Booking claims the seat only after the user and train are known, then mints
// the ticket and links it to the user. Anything that fails after the seat was
// claimed is compensated before the error is returned, so a caller either gets a
// ticket backed by exactly one seat debit or sees no change at all.
package reservation

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/ports"
)

// SeatCatalog is the part of the train catalog the coordinator drives.
type SeatCatalog interface {
	FindTrain(id string) (domain.Train, error)
	ReserveSeat(id string) (domain.Train, error)
	ReleaseSeat(id string) (domain.Train, error)
}

// TicketLedger is the part of the ledger the coordinator drives.
type TicketLedger interface {
	Issue(userID, trainID string, snap domain.TrainSnapshot) (domain.Ticket, error)
	OwnerOf(ticketID string) (string, error)
	Revoke(ticketID string) (domain.Ticket, error)
	Restore(t domain.Ticket) error
}

// UserDirectory is the part of the directory the coordinator drives.
type UserDirectory interface {
	FindUser(id string) (domain.User, error)
	AddTicketRef(userID, ticketID string) error
	RemoveTicketRef(userID, ticketID string) error
}

type Coordinator struct {
	trains  SeatCatalog
	tickets TicketLedger
	users   UserDirectory

	log      *slog.Logger
	observer ports.ReservationObserver
}

type Option func(*Coordinator)

func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

func WithObserver(o ports.ReservationObserver) Option {
	return func(c *Coordinator) { c.observer = o }
}

func New(trains SeatCatalog, tickets TicketLedger, users UserDirectory, opts ...Option) *Coordinator {
	c := &Coordinator{
		trains:   trains,
		tickets:  tickets,
		users:    users,
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Book reserves one seat on trainID for userID and returns the minted ticket.
func (c *Coordinator) Book(userID, trainID string) (t domain.Ticket, err error) {
	defer func() { c.observer.ObserveBooking(outcome(err)) }()

	if strings.TrimSpace(userID) == "" || strings.TrimSpace(trainID) == "" {
		return domain.Ticket{}, &domain.OpError{Op: "reservation.book", Kind: domain.KindValidation, Err: domain.ErrMissingFields}
	}

	if _, err := c.users.FindUser(userID); err != nil {
		return domain.Ticket{}, relabel("reservation.book", domain.CodeInvalidUser, err)
	}
	if _, err := c.trains.FindTrain(trainID); err != nil {
		return domain.Ticket{}, relabel("reservation.book", domain.CodeInvalidTrain, err)
	}

	train, err := c.trains.ReserveSeat(trainID)
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchTrain) {
			return domain.Ticket{}, relabel("reservation.book", domain.CodeInvalidTrain, err)
		}
		c.log.Info("reservation.book.refused", "user_id", userID, "train_id", trainID, "code", domain.CodeOf(err))
		return domain.Ticket{}, err
	}

	ticket, err := c.tickets.Issue(userID, trainID, train.Snapshot())
	if err != nil {
		return domain.Ticket{}, c.undoBooking("issue", err, userID, trainID, nil)
	}

	if err := c.users.AddTicketRef(userID, ticket.ID); err != nil {
		return domain.Ticket{}, c.undoBooking("link", err, userID, trainID, &ticket)
	}

	c.log.Info("reservation.book.ok",
		"user_id", userID,
		"train_id", trainID,
		"ticket_id", ticket.ID,
		"available", train.AvailableSeats,
	)
	return ticket, nil
}

// Cancel revokes ticketID on behalf of userID and gives its seat back.
// Ownership is checked before anything is changed.
func (c *Coordinator) Cancel(ticketID, userID string) (err error) {
	defer func() { c.observer.ObserveCancellation(outcome(err)) }()

	if strings.TrimSpace(ticketID) == "" || strings.TrimSpace(userID) == "" {
		return &domain.OpError{Op: "reservation.cancel", Kind: domain.KindValidation, Err: domain.ErrMissingFields}
	}

	owner, err := c.tickets.OwnerOf(ticketID)
	if err != nil {
		return err
	}
	if owner != userID {
		c.log.Warn("reservation.cancel.forbidden", "ticket_id", ticketID, "user_id", userID)
		return &domain.OpError{Op: "reservation.cancel", Kind: domain.KindConflict, Err: domain.ErrForbidden}
	}

	revoked, err := c.tickets.Revoke(ticketID)
	if err != nil {
		return err
	}

	if err := c.users.RemoveTicketRef(owner, revoked.ID); err != nil {
		return c.undoCancel("unlink", err, revoked, false)
	}

	// The seat goes back to the train the ticket was booked on, as recorded in
	// the ticket, not whatever the catalog holds under a fresh lookup.
	train, err := c.trains.ReleaseSeat(revoked.TrainID)
	if err != nil {
		return c.undoCancel("release", err, revoked, true)
	}

	c.log.Info("reservation.cancel.ok",
		"user_id", owner,
		"train_id", revoked.TrainID,
		"ticket_id", revoked.ID,
		"available", train.AvailableSeats,
	)
	return nil
}

// undoBooking releases the reserved seat and, when one was minted, revokes the
// ticket again. The original failure is returned; compensation failures are
// joined to it.
func (c *Coordinator) undoBooking(stage string, cause error, userID, trainID string, minted *domain.Ticket) error {
	c.log.Error("reservation.book.compensating", "stage", stage, "user_id", userID, "train_id", trainID, "err", cause)

	var undo []error
	if minted != nil {
		if _, err := c.tickets.Revoke(minted.ID); err != nil {
			undo = append(undo, err)
		}
	}
	if _, err := c.trains.ReleaseSeat(trainID); err != nil {
		undo = append(undo, err)
	}

	return joinUndo("reservation.book", cause, undo)
}

// undoCancel puts the revoked ticket back and, when it had already been
// unlinked, re-links it to its owner.
func (c *Coordinator) undoCancel(stage string, cause error, revoked domain.Ticket, unlinked bool) error {
	c.log.Error("reservation.cancel.compensating", "stage", stage, "ticket_id", revoked.ID, "err", cause)

	var undo []error
	if err := c.tickets.Restore(revoked); err != nil {
		undo = append(undo, err)
	}
	if unlinked {
		if err := c.users.AddTicketRef(revoked.UserID, revoked.ID); err != nil {
			undo = append(undo, err)
		}
	}

	return joinUndo("reservation.cancel", cause, undo)
}

func joinUndo(op string, cause error, undo []error) error {
	if len(undo) == 0 {
		return cause
	}
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindOf(cause),
		Code: domain.CodeOf(cause),
		Err:  errors.Join(append([]error{cause}, undo...)...),
	}
}

func relabel(op string, code domain.Code, err error) error {
	if !domain.IsKind(err, domain.KindNotFound) {
		return err
	}
	return &domain.OpError{Op: op, Kind: domain.KindNotFound, Code: code, Err: err}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(domain.CodeOf(err))
}

type nopObserver struct{}

func (nopObserver) ObserveBooking(string)      {}
func (nopObserver) ObserveCancellation(string) {}
