package usecase

import (
	"strings"

	"github.com/aalvaropc/railbook/internal/domain"
)

// TrainCatalog is the read side of the train catalog.
type TrainCatalog interface {
	List() []domain.Train
	FindTrain(id string) (domain.Train, error)
	Search(source, destination string) []domain.Train
}

type Trains struct {
	catalog TrainCatalog
}

func NewTrains(catalog TrainCatalog) *Trains {
	return &Trains{catalog: catalog}
}

func (uc *Trains) List() []domain.Train {
	return uc.catalog.List()
}

func (uc *Trains) Get(id string) (domain.Train, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Train{}, &domain.OpError{Op: "trains.get", Kind: domain.KindValidation, Err: domain.ErrMissingFields}
	}
	t, err := uc.catalog.FindTrain(id)
	if err != nil {
		return domain.Train{}, &domain.OpError{Op: "trains.get", Kind: domain.KindNotFound, Code: domain.CodeNotFound, Err: err}
	}
	return t, nil
}

// Search matches source and destination case-insensitively. Both are required.
func (uc *Trains) Search(source, destination string) ([]domain.Train, error) {
	source, destination = strings.TrimSpace(source), strings.TrimSpace(destination)
	if source == "" || destination == "" {
		return nil, &domain.OpError{Op: "trains.search", Kind: domain.KindValidation, Err: domain.ErrMissingFields}
	}
	return uc.catalog.Search(source, destination), nil
}
