package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/infra/logger"
	"github.com/aalvaropc/railbook/internal/infra/seed"
)

func trainsCmd(g *globalOpts) *cobra.Command {
	c := &cobra.Command{
		Use:   "trains",
		Short: "List, search and import trains",
	}

	c.AddCommand(
		trainsListCmd(g),
		trainsSearchCmd(g),
		trainsShowCmd(g),
		trainsImportCmd(g),
	)
	return c
}

func trainsListCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every train",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sys, err := openSystem(g.root, withLogger(logger.L()), withReadOnly())
			if err != nil {
				return err
			}
			defer func() { _ = sys.Close() }()
			return printTrains(cmd.OutOrStdout(), sys.trains.List(), g.format)
		},
	}
}

func trainsSearchCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "search SOURCE DESTINATION",
		Short: "Find trains by exact route (case-insensitive)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := openSystem(g.root, withLogger(logger.L()), withReadOnly())
			if err != nil {
				return err
			}
			defer func() { _ = sys.Close() }()
			trains, err := sys.trains.Search(args[0], args[1])
			if err != nil {
				return err
			}
			return printTrains(cmd.OutOrStdout(), trains, g.format)
		},
	}
}

func trainsShowCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show TRAIN_ID",
		Short: "Show one train",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := openSystem(g.root, withLogger(logger.L()), withReadOnly())
			if err != nil {
				return err
			}
			defer func() { _ = sys.Close() }()
			t, err := sys.trains.Get(args[0])
			if err != nil {
				return err
			}
			return printTrains(cmd.OutOrStdout(), []domain.Train{t}, g.format)
		},
	}
}

func trainsImportCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Add trains from a YAML seed file; existing ids are skipped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := openSystem(g.root, withLogger(logger.L()))
			if err != nil {
				return err
			}
			defer func() { _ = sys.Close() }()
			trains, err := seed.LoadTrains(args[0])
			if err != nil {
				return err
			}

			added, skipped := 0, 0
			for _, t := range trains {
				err := sys.catalog.AddTrain(t)
				switch {
				case err == nil:
					added++
				case errors.Is(err, domain.ErrTrainExists):
					skipped++
				default:
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d train(s), skipped %d existing\n", added, skipped)
			return nil
		},
	}
}
