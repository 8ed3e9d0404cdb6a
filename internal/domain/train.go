package domain

// Train is a scheduled service with a bounded pool of bookable seats.
// AvailableSeats is only changed through the catalog's reserve/release operations.
type Train struct {
	ID             string
	Name           string
	Source         string
	Destination    string
	AvailableSeats int
	Capacity       int
}

// HasSeat reports whether at least one seat can still be reserved.
func (t Train) HasSeat() bool {
	return t.AvailableSeats > 0
}

// Full reports whether every seat has been released back (nothing booked).
func (t Train) Full() bool {
	return t.AvailableSeats >= t.Capacity
}

// Snapshot captures the journey details a ticket keeps after booking.
func (t Train) Snapshot() TrainSnapshot {
	return TrainSnapshot{
		TrainName:   t.Name,
		Source:      t.Source,
		Destination: t.Destination,
	}
}

// TrainSnapshot is a copy of the train fields taken at booking time.
// It is never refreshed from the catalog.
type TrainSnapshot struct {
	TrainName   string
	Source      string
	Destination string
}
