package usecase

import (
	"strings"

	"github.com/aalvaropc/railbook/internal/domain"
)

// Reserver books and cancels tickets as single logical operations.
type Reserver interface {
	Book(userID, trainID string) (domain.Ticket, error)
	Cancel(ticketID, userID string) error
}

type UserReader interface {
	FindUser(id string) (domain.User, error)
}

type TicketReader interface {
	Find(ticketID string) (domain.Ticket, error)
}

type Bookings struct {
	reserver Reserver
	users    UserReader
	tickets  TicketReader
}

func NewBookings(reserver Reserver, users UserReader, tickets TicketReader) *Bookings {
	return &Bookings{reserver: reserver, users: users, tickets: tickets}
}

func (uc *Bookings) Book(userID, trainID string) (domain.Ticket, error) {
	return uc.reserver.Book(userID, trainID)
}

func (uc *Bookings) Cancel(ticketID, userID string) error {
	return uc.reserver.Cancel(ticketID, userID)
}

// List returns the user's tickets in booking order.
func (uc *Bookings) List(userID string) ([]domain.Ticket, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &domain.OpError{Op: "bookings.list", Kind: domain.KindValidation, Err: domain.ErrMissingFields}
	}

	u, err := uc.users.FindUser(userID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, &domain.OpError{Op: "bookings.list", Kind: domain.KindNotFound, Code: domain.CodeInvalidUser, Err: err}
		}
		return nil, err
	}

	out := make([]domain.Ticket, 0, len(u.TicketIDs))
	for _, id := range u.TicketIDs {
		t, err := uc.tickets.Find(id)
		if err != nil {
			// Cancelled between the two reads.
			if domain.IsKind(err, domain.KindNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
