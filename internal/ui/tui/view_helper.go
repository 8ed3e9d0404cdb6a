package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aalvaropc/railbook/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func trainTitle(t domain.Train) string {
	name := t.Name
	if name == "" {
		name = t.ID
	}
	return fmt.Sprintf("%s  %s → %s", name, t.Source, t.Destination)
}

func seatsLabel(t domain.Train) string {
	if !t.HasSeat() {
		return fmt.Sprintf("#%s • sold out (%d seats)", t.ID, t.Capacity)
	}
	return fmt.Sprintf("#%s • %d/%d seats free", t.ID, t.AvailableSeats, t.Capacity)
}

func ticketTitle(t domain.Ticket) string {
	name := t.TrainName
	if name == "" {
		name = t.TrainID
	}
	return fmt.Sprintf("%s  %s → %s", name, t.Source, t.Destination)
}

func ticketDesc(t domain.Ticket) string {
	return fmt.Sprintf("%s • ticket %s", t.BookingDate, clampString(t.ID, 8))
}
