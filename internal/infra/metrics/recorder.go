// Package metrics exports reservation, account and HTTP counters to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/ports"
)

const namespace = "railbook"

type Recorder struct {
	bookings      *prometheus.CounterVec
	cancellations *prometheus.CounterVec
	signups       *prometheus.CounterVec
	logins        *prometheus.CounterVec
	seats         *prometheus.GaugeVec
	capacity      *prometheus.GaugeVec
	requests      *prometheus.CounterVec
}

var (
	_ ports.ReservationObserver = (*Recorder)(nil)
	_ ports.AccountObserver     = (*Recorder)(nil)
	_ ports.SeatObserver        = (*Recorder)(nil)
)

// NewRecorder registers every collector on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome code.",
		}, []string{"outcome"}),
		cancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "Cancellation attempts by outcome code.",
		}, []string{"outcome"}),
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Signup attempts by outcome code.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome code.",
		}, []string{"outcome"}),
		seats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "train_available_seats",
			Help:      "Seats still bookable per train.",
		}, []string{"train_id"}),
		capacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "train_capacity_seats",
			Help:      "Seat capacity per train.",
		}, []string{"train_id"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}

	for _, c := range []prometheus.Collector{
		r.bookings, r.cancellations, r.signups, r.logins, r.seats, r.capacity, r.requests,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) ObserveBooking(outcome string) {
	r.bookings.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveCancellation(outcome string) {
	r.cancellations.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveSeats(trainID string, available, capacity int) {
	r.seats.WithLabelValues(trainID).Set(float64(available))
	r.capacity.WithLabelValues(trainID).Set(float64(capacity))
}

func (r *Recorder) ObserveSignup(outcome string) {
	r.signups.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveLogin(outcome string) {
	r.logins.WithLabelValues(outcome).Inc()
}

// ObserveRequest counts one HTTP response. route is the route template, not the raw path.
func (r *Recorder) ObserveRequest(route string, status int) {
	r.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// SeedTrains publishes the starting seat gauges for trains.
func (r *Recorder) SeedTrains(trains []domain.Train) {
	for _, t := range trains {
		r.ObserveSeats(t.ID, t.AvailableSeats, t.Capacity)
	}
}
