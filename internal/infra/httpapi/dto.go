package httpapi

import "github.com/aalvaropc/railbook/internal/domain"

type credentialsRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type bookingRequest struct {
	UserID  string `json:"userId"`
	TrainID string `json:"trainId"`
}

type trainDTO struct {
	TrainID        string `json:"trainId"`
	TrainName      string `json:"trainName,omitempty"`
	Source         string `json:"source"`
	Destination    string `json:"destination"`
	AvailableSeats int    `json:"availableSeats"`
	Capacity       int    `json:"capacity"`
}

type ticketDTO struct {
	TicketID    string `json:"ticketId"`
	UserID      string `json:"userId"`
	TrainID     string `json:"trainId"`
	TrainName   string `json:"trainName,omitempty"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	JourneyDate string `json:"journeyDate"`
}

type trainsBody struct {
	Trains []trainDTO `json:"trains"`
}

type ticketsBody struct {
	Tickets []ticketDTO `json:"tickets"`
}

func toTrainDTO(t domain.Train) trainDTO {
	return trainDTO{
		TrainID:        t.ID,
		TrainName:      t.Name,
		Source:         t.Source,
		Destination:    t.Destination,
		AvailableSeats: t.AvailableSeats,
		Capacity:       t.Capacity,
	}
}

func toTrainDTOs(in []domain.Train) []trainDTO {
	out := make([]trainDTO, 0, len(in))
	for _, t := range in {
		out = append(out, toTrainDTO(t))
	}
	return out
}

func toTicketDTO(t domain.Ticket) ticketDTO {
	return ticketDTO{
		TicketID:    t.ID,
		UserID:      t.UserID,
		TrainID:     t.TrainID,
		TrainName:   t.TrainName,
		Source:      t.Source,
		Destination: t.Destination,
		JourneyDate: t.BookingDate,
	}
}
