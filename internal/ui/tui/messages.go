package tui

import "github.com/aalvaropc/railbook/internal/domain"

type authDoneMsg struct {
	name    string
	userID  string
	created bool
	err     error
}

type trainsLoadedMsg struct {
	trains []domain.Train
}

type ticketsLoadedMsg struct {
	tickets []domain.Ticket
	err     error
}

type bookDoneMsg struct {
	ticket domain.Ticket
	err    error
}

type cancelDoneMsg struct {
	ticketID string
	err      error
}
