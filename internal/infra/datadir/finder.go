package datadir

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/ports"
)

// ConfigFileName marks the root of a railbook data directory.
const ConfigFileName = "railbook.yaml"

// Finder locates a railbook root by searching for railbook.yaml upward.
type Finder struct {
	ConfigFile string // defaults to "railbook.yaml"
}

var _ ports.RootLocator = (*Finder)(nil)

func NewFinder() *Finder {
	return &Finder{ConfigFile: ConfigFileName}
}

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "datadir.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "datadir.findroot",
			Kind: domain.KindStorage,
			Err:  err,
		}
	}

	// If user passes a file path, use its directory.
	info, statErr := os.Stat(abs)
	if statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	cur := filepath.Clean(abs)
	for {
		if _, err := os.Stat(filepath.Join(cur, f.ConfigFile)); err == nil {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{
				Op:   "datadir.findroot",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}

// TrainsPath and UsersPath resolve the data files of cfg under root.
// Absolute paths in the config are used as they are.
func TrainsPath(root string, cfg domain.Config) string {
	return resolve(root, cfg.Paths.DataDir, cfg.Paths.TrainsFile)
}

func UsersPath(root string, cfg domain.Config) string {
	return resolve(root, cfg.Paths.DataDir, cfg.Paths.UsersFile)
}

func resolve(root, dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	if filepath.IsAbs(dir) {
		return filepath.Join(dir, file)
	}
	return filepath.Join(root, dir, file)
}
