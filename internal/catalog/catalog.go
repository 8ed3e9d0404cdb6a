// Package catalog owns the trains and their available-seat counters.
//
// Each train lives in its own slot with its own mutex. Reserve and release hold
// that mutex across check, persist and apply, so two callers racing for the last
// seat of a train are serialized while bookings on other trains proceed.
package catalog

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/ports"
)

type Catalog struct {
	store ports.TrainStore
	log   *slog.Logger
	seats ports.SeatObserver

	mu    sync.RWMutex
	order []string
	slots map[string]*slot
}

type slot struct {
	mu    sync.Mutex
	train domain.Train
}

type Option func(*Catalog)

// WithSeatObserver publishes every seat count change. It is called inside the
// train's critical section and must not call back into the catalog.
func WithSeatObserver(o ports.SeatObserver) Option {
	return func(c *Catalog) {
		if o != nil {
			c.seats = o
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.log = l
		}
	}
}

// Open loads every train from store. A load failure or an inconsistent
// persisted train is returned as an error; callers treat it as fatal.
func Open(store ports.TrainStore, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		store: store,
		log:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		seats: nopSeatObserver{},
		slots: map[string]*slot{},
	}
	for _, opt := range opts {
		opt(c)
	}

	trains, err := store.LoadTrains()
	if err != nil {
		return nil, err
	}

	for _, t := range trains {
		if err := validateTrain(t); err != nil {
			return nil, &domain.OpError{
				Op:   "catalog.open",
				Kind: domain.KindStorage,
				Err:  fmt.Errorf("%w: train %q: %w", domain.ErrStorage, t.ID, err),
			}
		}
		if _, dup := c.slots[t.ID]; dup {
			return nil, &domain.OpError{
				Op:   "catalog.open",
				Kind: domain.KindStorage,
				Err:  fmt.Errorf("%w: duplicate train id %q", domain.ErrStorage, t.ID),
			}
		}
		c.slots[t.ID] = &slot{train: t}
		c.order = append(c.order, t.ID)
	}

	c.log.Debug("catalog.opened", "trains", len(c.order))
	return c, nil
}

// FindTrain returns a copy of the train with the given id.
func (c *Catalog) FindTrain(id string) (domain.Train, error) {
	s, ok := c.slot(id)
	if !ok {
		return domain.Train{}, noSuchTrain("catalog.find", id)
	}
	return s.snapshot(), nil
}

// List returns every train in catalog order.
func (c *Catalog) List() []domain.Train {
	c.mu.RLock()
	slots := make([]*slot, 0, len(c.order))
	for _, id := range c.order {
		slots = append(slots, c.slots[id])
	}
	c.mu.RUnlock()

	out := make([]domain.Train, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.snapshot())
	}
	return out
}

// Search matches source and destination case-insensitively and exactly.
// No match yields an empty slice, not an error.
func (c *Catalog) Search(source, destination string) []domain.Train {
	out := []domain.Train{}
	for _, t := range c.List() {
		if strings.EqualFold(t.Source, source) && strings.EqualFold(t.Destination, destination) {
			out = append(out, t)
		}
	}
	return out
}

// ReserveSeat takes one seat from the train and returns its updated state.
func (c *Catalog) ReserveSeat(id string) (domain.Train, error) {
	s, ok := c.slot(id)
	if !ok {
		return domain.Train{}, noSuchTrain("catalog.reserve", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.train.HasSeat() {
		return s.train, &domain.OpError{
			Op:   "catalog.reserve",
			Kind: domain.KindConflict,
			Err:  fmt.Errorf("train %s: %w", id, domain.ErrNoSeatsAvailable),
		}
	}

	next := s.train
	next.AvailableSeats--
	if err := c.store.SaveTrain(next); err != nil {
		c.log.Error("catalog.persist.failed", "op", "reserve", "train_id", id, "err", err)
		return s.train, err
	}
	s.train = next
	c.seats.ObserveSeats(id, next.AvailableSeats, next.Capacity)

	c.log.Debug("catalog.seat.reserved", "train_id", id, "available", next.AvailableSeats)
	return next, nil
}

// ReleaseSeat gives one seat back. It refuses to go above capacity.
func (c *Catalog) ReleaseSeat(id string) (domain.Train, error) {
	s, ok := c.slot(id)
	if !ok {
		return domain.Train{}, noSuchTrain("catalog.release", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.train.Full() {
		return s.train, &domain.OpError{
			Op:   "catalog.release",
			Kind: domain.KindConflict,
			Err:  fmt.Errorf("train %s: %w", id, domain.ErrSeatOverflow),
		}
	}

	next := s.train
	next.AvailableSeats++
	if err := c.store.SaveTrain(next); err != nil {
		c.log.Error("catalog.persist.failed", "op", "release", "train_id", id, "err", err)
		return s.train, err
	}
	s.train = next
	c.seats.ObserveSeats(id, next.AvailableSeats, next.Capacity)

	c.log.Debug("catalog.seat.released", "train_id", id, "available", next.AvailableSeats)
	return next, nil
}

// AddTrain registers a new train at the end of the catalog.
func (c *Catalog) AddTrain(t domain.Train) error {
	t.ID = strings.TrimSpace(t.ID)
	if err := validateTrain(t); err != nil {
		return &domain.OpError{Op: "catalog.add", Kind: domain.KindValidation, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.slots[t.ID]; exists {
		return &domain.OpError{
			Op:   "catalog.add",
			Kind: domain.KindConflict,
			Err:  fmt.Errorf("train %s: %w", t.ID, domain.ErrTrainExists),
		}
	}

	if err := c.store.SaveTrain(t); err != nil {
		c.log.Error("catalog.persist.failed", "op", "add", "train_id", t.ID, "err", err)
		return err
	}
	c.slots[t.ID] = &slot{train: t}
	c.order = append(c.order, t.ID)
	c.seats.ObserveSeats(t.ID, t.AvailableSeats, t.Capacity)

	c.log.Info("catalog.train.added", "train_id", t.ID, "capacity", t.Capacity)
	return nil
}

func (c *Catalog) slot(id string) (*slot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.slots[id]
	return s, ok
}

func (s *slot) snapshot() domain.Train {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.train
}

func noSuchTrain(op, id string) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindNotFound,
		Err:  fmt.Errorf("train %s: %w", id, domain.ErrNoSuchTrain),
	}
}

func validateTrain(t domain.Train) error {
	switch {
	case strings.TrimSpace(t.ID) == "":
		return fmt.Errorf("id: %w", domain.ErrMissingFields)
	case strings.TrimSpace(t.Source) == "" || strings.TrimSpace(t.Destination) == "":
		return fmt.Errorf("source/destination: %w", domain.ErrMissingFields)
	case t.Capacity < 0:
		return fmt.Errorf("capacity %d is negative", t.Capacity)
	case t.AvailableSeats < 0 || t.AvailableSeats > t.Capacity:
		return fmt.Errorf("available seats %d outside [0,%d]", t.AvailableSeats, t.Capacity)
	}
	return nil
}

type nopSeatObserver struct{}

func (nopSeatObserver) ObserveSeats(string, int, int) {}
