package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/railbook/internal/domain"
)

type screen int

const (
	screenLogin screen = iota
	screenTrains
	screenTickets
)

type trainItem struct{ t domain.Train }

func (i trainItem) Title() string       { return trainTitle(i.t) }
func (i trainItem) Description() string { return seatsLabel(i.t) }
func (i trainItem) FilterValue() string { return i.t.Source + " " + i.t.Destination + " " + i.t.Name }

type ticketItem struct{ t domain.Ticket }

func (i ticketItem) Title() string       { return ticketTitle(i.t) }
func (i ticketItem) Description() string { return ticketDesc(i.t) }
func (i ticketItem) FilterValue() string { return i.t.Source + " " + i.t.Destination + " " + i.t.TrainName }

type model struct {
	theme Theme
	deps  Deps

	scr screen

	name     textinput.Model
	password textinput.Model

	trains  list.Model
	tickets list.Model

	userID   string
	userName string
	busy     bool
	toast    string
	errMsg   string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	name := textinput.New()
	name.Placeholder = "name"
	name.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	trains := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	trains.Title = "Trains"
	trains.SetShowStatusBar(false)
	trains.SetShowHelp(false)

	tickets := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	tickets.Title = "My tickets"
	tickets.SetShowStatusBar(false)
	tickets.SetShowHelp(false)
	tickets.SetFilteringEnabled(false)

	return model{
		theme:    DefaultTheme(),
		deps:     deps,
		scr:      screenLogin,
		name:     name,
		password: password,
		trains:   trains,
		tickets:  tickets,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.trains.SetSize(msg.Width-4, msg.Height-10)
		m.tickets.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case authDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		m.userID, m.userName = msg.userID, msg.name
		m.password.SetValue("")
		m.errMsg = ""
		m.toast = "Welcome, " + msg.name
		if msg.created {
			m.toast = "Account created. Welcome, " + msg.name
		}
		m.scr = screenTrains
		m.deps.Logger.Info("tui.session.started", "user_id", msg.userID)
		return m, cmdLoadTrains(m.deps)

	case trainsLoadedMsg:
		items := make([]list.Item, 0, len(msg.trains))
		for _, t := range msg.trains {
			items = append(items, trainItem{t})
		}
		return m, m.trains.SetItems(items)

	case ticketsLoadedMsg:
		if msg.err != nil {
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.tickets))
		for _, t := range msg.tickets {
			items = append(items, ticketItem{t})
		}
		return m, m.tickets.SetItems(items)

	case bookDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.toast, m.errMsg = "", userMessage(msg.err)
			return m, cmdLoadTrains(m.deps)
		}
		m.errMsg = ""
		m.toast = fmt.Sprintf("Booked %s → %s (ticket %s)", msg.ticket.Source, msg.ticket.Destination, clampString(msg.ticket.ID, 8))
		return m, cmdLoadTrains(m.deps)

	case cancelDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.toast, m.errMsg = "", userMessage(msg.err)
		} else {
			m.errMsg = ""
			m.toast = "Ticket cancelled"
		}
		return m, tea.Batch(cmdLoadTickets(m.deps, m.userID), cmdLoadTrains(m.deps))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.scr {
		case screenLogin:
			return m.updateLogin(msg)
		case screenTrains:
			return m.updateTrains(msg)
		case screenTickets:
			return m.updateTickets(msg)
		}
	}

	return m, nil
}

func (m model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		if m.name.Focused() {
			m.name.Blur()
			return m, m.password.Focus()
		}
		m.password.Blur()
		return m, m.name.Focus()
	case "enter", "ctrl+n":
		if m.busy {
			return m, nil
		}
		name, pw := strings.TrimSpace(m.name.Value()), m.password.Value()
		if name == "" || pw == "" {
			m.errMsg = userMessage(&domain.OpError{Op: "tui.login", Kind: domain.KindValidation, Err: domain.ErrMissingFields})
			return m, nil
		}
		m.busy = true
		if msg.String() == "ctrl+n" {
			return m, cmdSignUp(m.deps, name, pw)
		}
		return m, cmdLogin(m.deps, name, pw)
	}

	var cmd tea.Cmd
	if m.name.Focused() {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m model) updateTrains(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trains.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.trains, cmd = m.trains.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		it, ok := m.trains.SelectedItem().(trainItem)
		if !ok || m.busy {
			return m, nil
		}
		m.busy = true
		return m, cmdBook(m.deps, m.userID, it.t.ID)
	case "t":
		m.scr = screenTickets
		m.toast, m.errMsg = "", ""
		return m, cmdLoadTickets(m.deps, m.userID)
	case "r":
		return m, cmdLoadTrains(m.deps)
	}

	var cmd tea.Cmd
	m.trains, cmd = m.trains.Update(msg)
	return m, cmd
}

func (m model) updateTickets(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "b":
		m.scr = screenTrains
		m.toast, m.errMsg = "", ""
		return m, cmdLoadTrains(m.deps)
	case "x", "delete":
		it, ok := m.tickets.SelectedItem().(ticketItem)
		if !ok || m.busy {
			return m, nil
		}
		m.busy = true
		return m, cmdCancel(m.deps, it.t.ID, m.userID)
	}

	var cmd tea.Cmd
	m.tickets, cmd = m.tickets.Update(msg)
	return m, cmd
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("Railbook") + "\n" +
		m.theme.Subtitle.Render("Train seat reservations") + "\n"
	if m.userName != "" {
		header += m.theme.Help.Render("Signed in as "+m.userName) + "\n"
	}

	status := ""
	if m.errMsg != "" {
		status = m.theme.Error.Render(m.errMsg) + "\n"
	} else if m.toast != "" {
		status = m.theme.Toast.Render(m.toast) + "\n"
	}

	switch m.scr {
	case screenLogin:
		form := m.theme.Title.Render("Sign in") + "\n\n" +
			m.name.View() + "\n" + m.password.View()
		help := m.theme.Help.Render("tab switch field • enter log in • ctrl+n sign up • esc quit")
		return wrap.Render(header + "\n" + m.theme.Card.Render(form) + "\n" + status + help)

	case screenTrains:
		help := m.theme.Help.Render("↑/↓ navigate • enter book • / search • t my tickets • r refresh • q quit")
		return wrap.Render(header + "\n" + m.theme.Card.Render(m.trains.View()) + "\n" + status + help)

	case screenTickets:
		body := m.tickets.View()
		if len(m.tickets.Items()) == 0 {
			body = m.theme.Title.Render("My tickets") + "\n\n" + m.theme.Subtitle.Render("(no tickets booked)")
		}
		help := m.theme.Help.Render("↑/↓ navigate • x cancel ticket • esc/b back • q quit")
		return wrap.Render(header + "\n" + m.theme.Card.Render(body) + "\n" + status + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
