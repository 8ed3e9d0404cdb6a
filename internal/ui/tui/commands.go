package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func cmdLogin(deps Deps, name, password string) tea.Cmd {
	return func() tea.Msg {
		id, err := deps.Accounts.Login(name, password)
		return authDoneMsg{name: name, userID: id, err: err}
	}
}

func cmdSignUp(deps Deps, name, password string) tea.Cmd {
	return func() tea.Msg {
		id, err := deps.Accounts.SignUp(name, password)
		return authDoneMsg{name: name, userID: id, created: true, err: err}
	}
}

func cmdLoadTrains(deps Deps) tea.Cmd {
	return func() tea.Msg {
		return trainsLoadedMsg{trains: deps.Trains.List()}
	}
}

func cmdLoadTickets(deps Deps, userID string) tea.Cmd {
	return func() tea.Msg {
		tickets, err := deps.Bookings.List(userID)
		return ticketsLoadedMsg{tickets: tickets, err: err}
	}
}

func cmdBook(deps Deps, userID, trainID string) tea.Cmd {
	return func() tea.Msg {
		t, err := deps.Bookings.Book(userID, trainID)
		if err != nil {
			deps.Logger.Warn("tui.book.failed", "train_id", trainID, "err", err)
		}
		return bookDoneMsg{ticket: t, err: err}
	}
}

func cmdCancel(deps Deps, ticketID, userID string) tea.Cmd {
	return func() tea.Msg {
		err := deps.Bookings.Cancel(ticketID, userID)
		if err != nil {
			deps.Logger.Warn("tui.cancel.failed", "ticket_id", ticketID, "err", err)
		}
		return cancelDoneMsg{ticketID: ticketID, err: err}
	}
}
