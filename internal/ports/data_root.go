package ports

// RootLocator finds a railbook data root starting from an arbitrary directory.
type RootLocator interface {
	FindRoot(startDir string) (string, error)
}

// RootInitializer creates a data root with config and seed data.
type RootInitializer interface {
	Init(root string, force bool) error
}
