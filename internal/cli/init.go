package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/railbook/internal/infra/fsdata"
	"github.com/aalvaropc/railbook/internal/usecase"
)

func initCmd(g *globalOpts) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a railbook root with config and seed trains",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := g.root
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				dir = wd
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("invalid root path: %w", err)
			}

			if err := usecase.NewInitDataRoot(fsdata.NewInitializer()).Execute(abs, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized railbook root at %s\n", abs)
			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "Overwrite railbook.yaml and trains.yaml templates (data files are kept)")
	return c
}
