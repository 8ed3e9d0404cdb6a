package seed

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/railbook/internal/domain"
)

func MapTrains(path string, ys YAMLSeed) ([]domain.Train, error) {
	out := make([]domain.Train, 0, len(ys.Trains))
	seen := make(map[string]bool, len(ys.Trains))

	for i, yt := range ys.Trains {
		field := fmt.Sprintf("trains[%d]", i)

		id := strings.TrimSpace(yt.ID)
		if id == "" {
			return nil, invalidField(path, field+".id", "id is required")
		}
		if seen[id] {
			return nil, invalidField(path, field+".id", fmt.Sprintf("duplicate id %q", id))
		}
		seen[id] = true

		if strings.TrimSpace(yt.Source) == "" {
			return nil, invalidField(path, field+".source", "source is required")
		}
		if strings.TrimSpace(yt.Destination) == "" {
			return nil, invalidField(path, field+".destination", "destination is required")
		}
		if yt.Seats < 0 {
			return nil, invalidField(path, field+".seats", "seats must not be negative")
		}

		available := yt.Seats
		if yt.Available != nil {
			available = *yt.Available
		}
		if available < 0 || available > yt.Seats {
			return nil, invalidField(path, field+".available", fmt.Sprintf("available must be within 0..%d", yt.Seats))
		}

		out = append(out, domain.Train{
			ID:             id,
			Name:           strings.TrimSpace(yt.Name),
			Source:         strings.TrimSpace(yt.Source),
			Destination:    strings.TrimSpace(yt.Destination),
			AvailableSeats: available,
			Capacity:       yt.Seats,
		})
	}

	return out, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "seed.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
