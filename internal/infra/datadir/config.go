package datadir

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aalvaropc/railbook/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads railbook.yaml from root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "datadir.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, invalidConfig(path, err)
	}

	// Apply parsed values on top of defaults.
	p := y.Railbook.Paths
	if p.DataDir != "" {
		cfg.Paths.DataDir = p.DataDir
	}
	if p.TrainsFile != "" {
		cfg.Paths.TrainsFile = p.TrainsFile
	}
	if p.UsersFile != "" {
		cfg.Paths.UsersFile = p.UsersFile
	}

	h := y.Railbook.HTTP
	if h.Addr != "" {
		cfg.HTTP.Addr = h.Addr
	}
	if h.RateLimit.RPS != nil {
		if *h.RateLimit.RPS < 0 {
			return cfg, invalidConfig(path, fmt.Errorf("field http.rate_limit.rps: must not be negative"))
		}
		cfg.HTTP.RateRPS = *h.RateLimit.RPS
	}
	if h.RateLimit.Burst != nil {
		if *h.RateLimit.Burst < 0 {
			return cfg, invalidConfig(path, fmt.Errorf("field http.rate_limit.burst: must not be negative"))
		}
		cfg.HTTP.RateBurst = *h.RateLimit.Burst
	}

	if y.Railbook.Log.Debug != nil {
		cfg.Log.Debug = *y.Railbook.Log.Debug
	}

	return cfg, nil
}

func invalidConfig(path string, err error) error {
	return &domain.OpError{
		Op:   "datadir.loadconfig",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err),
	}
}

type yamlConfig struct {
	Railbook struct {
		Paths struct {
			DataDir    string `yaml:"data_dir"`
			TrainsFile string `yaml:"trains_file"`
			UsersFile  string `yaml:"users_file"`
		} `yaml:"paths"`

		HTTP struct {
			Addr      string `yaml:"addr"`
			RateLimit struct {
				RPS   *float64 `yaml:"rps"`
				Burst *int     `yaml:"burst"`
			} `yaml:"rate_limit"`
		} `yaml:"http"`

		Log struct {
			Debug *bool `yaml:"debug"`
		} `yaml:"log"`
	} `yaml:"railbook"`
}
