package ports

import "github.com/aalvaropc/railbook/internal/domain"

// TrainStore persists the train collection.
// SaveTrain must be durable before it returns nil.
type TrainStore interface {
	LoadTrains() ([]domain.Train, error)
	SaveTrain(train domain.Train) error
}
