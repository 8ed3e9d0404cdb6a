package datadir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/railbook/internal/domain"
)

func TestFindRoot_FindsWorkspaceFromNestedDir(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "ws")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Create railbook.yaml at root
	if err := os.WriteFile(filepath.Join(root, "railbook.yaml"), []byte("railbook:\n  log:\n    debug: false\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f := NewFinder()
	got, err := f.FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot returned error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root=%s, got=%s", root, got)
	}
}

func TestFindRoot_NotFound(t *testing.T) {
	tmp := t.TempDir()
	_ = os.MkdirAll(filepath.Join(tmp, "a", "b"), 0o755)

	f := NewFinder()
	_, err := f.FindRoot(filepath.Join(tmp, "a", "b"))
	if err == nil {
		t.Fatalf("expected error")
	}

	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestFindRoot_AcceptsFilePath(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "railbook.yaml"), []byte("railbook: {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	file := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := NewFinder().FindRoot(file)
	if err != nil {
		t.Fatalf("FindRoot returned error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root=%s, got=%s", root, got)
	}
}

func TestResolve_AbsolutePathsWin(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Paths.TrainsFile = "/srv/trains.json"
	if got := TrainsPath("/ignored", cfg); got != "/srv/trains.json" {
		t.Fatalf("expected absolute trains file kept, got %s", got)
	}

	cfg.Paths.DataDir = "/var/railbook"
	if got := UsersPath("/ignored", cfg); got != "/var/railbook/users.json" {
		t.Fatalf("expected absolute data dir kept, got %s", got)
	}
}
