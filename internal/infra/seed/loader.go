// Package seed reads train definitions from YAML files.
package seed

import (
	"os"

	"github.com/aalvaropc/railbook/internal/domain"
	"gopkg.in/yaml.v3"
)

func LoadTrains(path string) ([]domain.Train, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "seed.load_trains",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	return DecodeTrains(path, b)
}

// DecodeTrains parses b as a seed file; path is only used in errors.
func DecodeTrains(path string, b []byte) ([]domain.Train, error) {
	var dto YAMLSeed
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return nil, &domain.OpError{
			Op:   "seed.load_trains",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return MapTrains(path, dto)
}
