package ports

import "github.com/aalvaropc/railbook/internal/domain"

// AccountLoader reads the persisted users together with their embedded tickets.
type AccountLoader interface {
	LoadAccounts() ([]domain.User, []domain.Ticket, error)
}

// UserStore persists user records (identity, credential, ticket list order).
type UserStore interface {
	SaveUser(user domain.User) error
}

// TicketStore persists ticket records. Tickets are stored embedded in their owner's record.
type TicketStore interface {
	SaveTicket(ticket domain.Ticket) error
	DeleteTicket(ticketID string) error
}
