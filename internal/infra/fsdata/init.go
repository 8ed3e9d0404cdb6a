package fsdata

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/infra/datadir"
	"github.com/aalvaropc/railbook/internal/infra/jsonstore"
	"github.com/aalvaropc/railbook/internal/infra/seed"
	"github.com/aalvaropc/railbook/internal/ports"
)

//go:embed templates/*
var templatesFS embed.FS

// Initializer lays out a railbook root: config, seed file, data files and the
// log directory.
type Initializer struct{}

var _ ports.RootInitializer = (*Initializer)(nil)

func NewInitializer() *Initializer {
	return &Initializer{}
}

// Init writes the templates under root, skipping existing ones unless force
// is set. Data files are only created when missing; force never touches them.
func (i *Initializer) Init(root string, force bool) error {
	root = filepath.Clean(root)

	if err := os.MkdirAll(filepath.Join(root, ".railbook", "logs"), 0o755); err != nil {
		return domain.StorageError("fsdata.mkdir", root, err)
	}

	if err := ensureGitignore(root); err != nil {
		return domain.StorageError("fsdata.gitignore", root, err)
	}

	err := fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		dst := filepath.Join(root, strings.TrimPrefix(p, "templates/"))
		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, b, 0o644)
	})
	if err != nil {
		return domain.StorageError("fsdata.templates", root, err)
	}

	cfg, err := datadir.LoadConfig(root)
	if err != nil {
		return err
	}
	return seedData(root, cfg)
}

func seedData(root string, cfg domain.Config) error {
	trainsPath := datadir.TrainsPath(root, cfg)
	if _, err := os.Stat(trainsPath); os.IsNotExist(err) {
		b, err := fs.ReadFile(templatesFS, "templates/trains.yaml")
		if err != nil {
			return domain.StorageError("fsdata.seed", trainsPath, err)
		}
		trains, err := seed.DecodeTrains("trains.yaml", b)
		if err != nil {
			return err
		}

		store := jsonstore.NewTrainFile(trainsPath)
		if _, err := store.LoadTrains(); err != nil {
			return err
		}
		for _, t := range trains {
			if err := store.SaveTrain(t); err != nil {
				return err
			}
		}
	}

	// Loading creates the users file as an empty collection when missing.
	_, _, err := jsonstore.NewUserFile(datadir.UsersPath(root, cfg)).LoadAccounts()
	return err
}

func ensureGitignore(root string) error {
	const header = "# Railbook"
	entries := []string{
		".railbook/",
		"data/*.tmp",
		"data/.railbook.lock",
	}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		present[trimmed] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.Grow(len(existing) + 64)

	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}
