package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aalvaropc/railbook/internal/domain"
)

type trainJSON struct {
	ID             string `json:"trainId"`
	Name           string `json:"trainName"`
	Source         string `json:"source"`
	Destination    string `json:"destination"`
	AvailableSeats int    `json:"availableSeats"`
	Capacity       int    `json:"capacity"`
}

type ticketJSON struct {
	ID          string `json:"ticketId"`
	UserID      string `json:"userId"`
	TrainID     string `json:"trainId"`
	TrainName   string `json:"trainName"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	JourneyDate string `json:"journeyDate"`
}

type statusJSON struct {
	Status string `json:"status"`
	UserID string `json:"userId,omitempty"`
}

func checkFormat(format string) error {
	switch format {
	case "pretty", "json", "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTrains(w io.Writer, trains []domain.Train, format string) error {
	switch format {
	case "json":
		out := make([]trainJSON, 0, len(trains))
		for _, t := range trains {
			out = append(out, toTrainJSON(t))
		}
		return encodeJSON(w, map[string]any{"trains": out})
	case "pretty", "":
		if len(trains) == 0 {
			fmt.Fprintln(w, "No trains.")
			return nil
		}
		for _, t := range trains {
			fmt.Fprintf(w, "%-10s %-22s %s -> %s  seats %d/%d\n",
				t.ID, t.Name, t.Source, t.Destination, t.AvailableSeats, t.Capacity)
		}
		return nil
	default:
		return checkFormat(format)
	}
}

func printTicket(w io.Writer, t domain.Ticket, format string) error {
	switch format {
	case "json":
		return encodeJSON(w, toTicketJSON(t))
	case "pretty", "":
		fmt.Fprintf(w, "Ticket:  %s\n", t.ID)
		fmt.Fprintf(w, "Train:   %s (%s)\n", t.TrainName, t.TrainID)
		fmt.Fprintf(w, "Route:   %s -> %s\n", t.Source, t.Destination)
		fmt.Fprintf(w, "Date:    %s\n", t.BookingDate)
		return nil
	default:
		return checkFormat(format)
	}
}

func printTickets(w io.Writer, tickets []domain.Ticket, format string) error {
	switch format {
	case "json":
		out := make([]ticketJSON, 0, len(tickets))
		for _, t := range tickets {
			out = append(out, toTicketJSON(t))
		}
		return encodeJSON(w, map[string]any{"tickets": out})
	case "pretty", "":
		if len(tickets) == 0 {
			fmt.Fprintln(w, "No tickets.")
			return nil
		}
		for _, t := range tickets {
			fmt.Fprintf(w, "%s  %s %s -> %s  %s\n",
				t.ID, t.TrainID, t.Source, t.Destination, t.BookingDate)
		}
		return nil
	default:
		return checkFormat(format)
	}
}

func printStatus(w io.Writer, format, status, userID string) error {
	switch format {
	case "json":
		return encodeJSON(w, statusJSON{Status: status, UserID: userID})
	case "pretty", "":
		if userID != "" {
			fmt.Fprintf(w, "%s: %s\n", status, userID)
		} else {
			fmt.Fprintln(w, status)
		}
		return nil
	default:
		return checkFormat(format)
	}
}

func toTrainJSON(t domain.Train) trainJSON {
	return trainJSON{
		ID:             t.ID,
		Name:           t.Name,
		Source:         t.Source,
		Destination:    t.Destination,
		AvailableSeats: t.AvailableSeats,
		Capacity:       t.Capacity,
	}
}

func toTicketJSON(t domain.Ticket) ticketJSON {
	return ticketJSON{
		ID:          t.ID,
		UserID:      t.UserID,
		TrainID:     t.TrainID,
		TrainName:   t.TrainName,
		Source:      t.Source,
		Destination: t.Destination,
		JourneyDate: t.BookingDate,
	}
}
