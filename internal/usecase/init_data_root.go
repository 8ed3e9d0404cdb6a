package usecase

import (
	"github.com/aalvaropc/railbook/internal/ports"
)

type InitDataRoot struct {
	initializer ports.RootInitializer
}

func NewInitDataRoot(initializer ports.RootInitializer) *InitDataRoot {
	return &InitDataRoot{initializer: initializer}
}

func (uc *InitDataRoot) Execute(root string, force bool) error {
	return uc.initializer.Init(root, force)
}
