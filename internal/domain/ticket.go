package domain

// BookingDateLayout is the calendar date format stored on tickets.
const BookingDateLayout = "2006-01-02"

// Ticket is one seat debit owned by exactly one user.
// IDs are random UUIDv4 values and are treated as globally unique by convention.
type Ticket struct {
	ID      string
	UserID  string
	TrainID string

	TrainName   string
	Source      string
	Destination string
	BookingDate string
}

// Snapshot returns the journey details the ticket was booked with.
func (t Ticket) Snapshot() TrainSnapshot {
	return TrainSnapshot{
		TrainName:   t.TrainName,
		Source:      t.Source,
		Destination: t.Destination,
	}
}
