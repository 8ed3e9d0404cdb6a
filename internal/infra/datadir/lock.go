package datadir

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/aalvaropc/railbook/internal/domain"
)

// LockFileName is created in the data directory. The process holding it owns
// the data files until it releases the lock or exits.
const LockFileName = ".railbook.lock"

// ErrInUse reports that another process holds the data directory.
var ErrInUse = errors.New("data directory is in use by another railbook process")

// RootLock is an exclusive advisory lock on a data directory.
type RootLock struct {
	fl *flock.Flock
}

// DataDir resolves the configured data directory under root.
func DataDir(root string, cfg domain.Config) string {
	if filepath.IsAbs(cfg.Paths.DataDir) {
		return cfg.Paths.DataDir
	}
	return filepath.Join(root, cfg.Paths.DataDir)
}

func LockPath(root string, cfg domain.Config) string {
	return filepath.Join(DataDir(root, cfg), LockFileName)
}

// AcquireLock takes the data directory lock without waiting. A lock held
// elsewhere is reported as a storage error wrapping ErrInUse.
func AcquireLock(root string, cfg domain.Config) (*RootLock, error) {
	dir := DataDir(root, cfg)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.StorageError("datadir.lock", dir, err)
	}

	path := filepath.Join(dir, LockFileName)
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, domain.StorageError("datadir.lock", path, err)
	}
	if !locked {
		return nil, domain.StorageError("datadir.lock", path, ErrInUse)
	}
	return &RootLock{fl: fl}, nil
}

func (l *RootLock) Path() string { return l.fl.Path() }

// Release drops the lock. It is safe on a nil lock.
func (l *RootLock) Release() error {
	if l == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return domain.StorageError("datadir.unlock", l.fl.Path(), err)
	}
	return nil
}
