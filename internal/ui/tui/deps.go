package tui

import (
	"log/slog"

	"github.com/aalvaropc/railbook/internal/domain"
)

type AccountService interface {
	SignUp(name, credential string) (string, error)
	Login(name, credential string) (string, error)
}

type TrainService interface {
	List() []domain.Train
}

type BookingService interface {
	Book(userID, trainID string) (domain.Ticket, error)
	List(userID string) ([]domain.Ticket, error)
	Cancel(ticketID, userID string) error
}

type Deps struct {
	Root string

	Accounts AccountService
	Trains   TrainService
	Bookings BookingService

	Logger *slog.Logger
	Debug  bool
}
