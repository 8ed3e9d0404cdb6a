package jsonstore

import (
	"sync"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/ports"
)

type trainRecord struct {
	TrainID        string `json:"trainId"`
	TrainName      string `json:"trainName,omitempty"`
	Source         string `json:"source"`
	Destination    string `json:"destination"`
	AvailableSeats int    `json:"availableSeats"`
	Capacity       int    `json:"capacity"`
}

// TrainFile stores the train collection in a single JSON file.
type TrainFile struct {
	path string

	mu     sync.Mutex
	order  []string
	trains map[string]domain.Train
}

var _ ports.TrainStore = (*TrainFile)(nil)

func NewTrainFile(path string) *TrainFile {
	return &TrainFile{path: path, trains: map[string]domain.Train{}}
}

func (s *TrainFile) Path() string { return s.path }

// LoadTrains reads the file and replaces the store's view of it.
// Records without a capacity get their available seats as capacity.
func (s *TrainFile) LoadTrains() ([]domain.Train, error) {
	var recs []trainRecord
	if err := readArray(s.path, &recs); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.trains = make(map[string]domain.Train, len(recs))

	out := make([]domain.Train, 0, len(recs))
	for _, r := range recs {
		t := domain.Train{
			ID:             r.TrainID,
			Name:           r.TrainName,
			Source:         r.Source,
			Destination:    r.Destination,
			AvailableSeats: r.AvailableSeats,
			Capacity:       r.Capacity,
		}
		if t.Capacity == 0 {
			t.Capacity = t.AvailableSeats
		}
		if _, dup := s.trains[t.ID]; !dup {
			s.order = append(s.order, t.ID)
		}
		s.trains[t.ID] = t
		out = append(out, t)
	}
	return out, nil
}

// SaveTrain inserts or replaces t and rewrites the file. On a failed write the
// store's view is left as it was.
func (s *TrainFile) SaveTrain(t domain.Train) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.trains[t.ID]
	s.trains[t.ID] = t
	if !existed {
		s.order = append(s.order, t.ID)
	}

	if err := writeArray(s.path, s.recordsLocked()); err != nil {
		if existed {
			s.trains[t.ID] = prev
		} else {
			delete(s.trains, t.ID)
			s.order = s.order[:len(s.order)-1]
		}
		return err
	}
	return nil
}

func (s *TrainFile) recordsLocked() []trainRecord {
	recs := make([]trainRecord, 0, len(s.order))
	for _, id := range s.order {
		t := s.trains[id]
		recs = append(recs, trainRecord{
			TrainID:        t.ID,
			TrainName:      t.Name,
			Source:         t.Source,
			Destination:    t.Destination,
			AvailableSeats: t.AvailableSeats,
			Capacity:       t.Capacity,
		})
	}
	return recs
}
