package ports

// ReservationObserver receives outcomes of coordinator operations (metrics, audit).
// Outcome is "ok" or an error code.
type ReservationObserver interface {
	ObserveBooking(outcome string)
	ObserveCancellation(outcome string)
}

// SeatObserver receives every seat count change of a train. The catalog calls it
// while the train is still locked, so calls for one train arrive in order.
type SeatObserver interface {
	ObserveSeats(trainID string, available, capacity int)
}

// AccountObserver receives outcomes of signup and login attempts.
type AccountObserver interface {
	ObserveSignup(outcome string)
	ObserveLogin(outcome string)
}
