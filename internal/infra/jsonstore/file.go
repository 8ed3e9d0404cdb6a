// Package jsonstore persists trains and users as JSON arrays, one file each.
// Every mutation rewrites the whole file through a temp file and a rename.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aalvaropc/railbook/internal/domain"
)

// readArray decodes the JSON array at path into out. A missing file is created
// holding an empty array.
func readArray(path string, out any) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := writeAtomic(path, []byte("[]\n")); err != nil {
			return err
		}
		b = []byte("[]")
	} else if err != nil {
		return domain.StorageError("jsonstore.read", path, err)
	}

	if len(bytes.TrimSpace(b)) == 0 {
		b = []byte("[]")
	}
	if err := json.Unmarshal(b, out); err != nil {
		return domain.StorageError("jsonstore.decode", path, err)
	}
	return nil
}

func writeArray(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return domain.StorageError("jsonstore.marshal", path, err)
	}
	return writeAtomic(path, append(b, '\n'))
}

// writeAtomic replaces path with b. The temp file is synced before the rename
// and the directory after it, so a nil return survives a power loss.
func writeAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.StorageError("jsonstore.mkdir", dir, err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return domain.StorageError("jsonstore.write", tmp, err)
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return domain.StorageError("jsonstore.write", tmp, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return domain.StorageError("jsonstore.sync", tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return domain.StorageError("jsonstore.write", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return domain.StorageError("jsonstore.rename", path, err)
	}

	// The new file is already in place; a directory that cannot be synced
	// (some platforms refuse it) is not reported as a failed write.
	_ = syncDir(dir)
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
