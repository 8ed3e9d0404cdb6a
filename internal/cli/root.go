package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/railbook/internal/infra/datadir"
	"github.com/aalvaropc/railbook/internal/infra/logger"
	"github.com/aalvaropc/railbook/internal/ui/tui"
)

type globalOpts struct {
	root   string
	debug  bool
	format string

	cleanup func() error
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOpts{}

	cmd := &cobra.Command{
		Use:          "railbook",
		Short:        "Railbook: train seat reservations",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(g.format); err != nil {
				return err
			}
			g.setupLogging(cmd.Name() == "serve")
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if g.cleanup != nil {
				return g.cleanup()
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			sys, err := openSystem(g.root, withLogger(logger.L()))
			if err != nil {
				return err
			}
			defer func() { _ = sys.Close() }()

			return tui.Run(tui.Deps{
				Root:     sys.root,
				Accounts: sys.accounts,
				Trains:   sys.trains,
				Bookings: sys.bookings,
				Logger:   logger.L(),
				Debug:    g.debug,
			})
		},
	}

	cmd.PersistentFlags().StringVarP(&g.root, "root", "r", "", "Railbook root (optional; autodetected from railbook.yaml if omitted)")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable verbose logging to .railbook/logs/railbook.log")
	cmd.PersistentFlags().StringVar(&g.format, "format", "pretty", "Output format: pretty|json")

	cmd.AddCommand(
		initCmd(g),
		serveCmd(g),
		signupCmd(g),
		loginCmd(g),
		trainsCmd(g),
		bookCmd(g),
		bookingsCmd(g),
		cancelCmd(g),
		infoCmd(g),
		versionCmd(),
	)
	return cmd
}

// setupLogging logs under the detected root, or the working directory when
// there is none yet.
func (g *globalOpts) setupLogging(stderr bool) {
	logRoot := g.root
	if logRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		wd, _ = filepath.Abs(wd)

		logRoot = wd
		if root, ferr := datadir.NewFinder().FindRoot(wd); ferr == nil && root != "" {
			logRoot = root
		}
	}

	debug := g.debug
	if !debug {
		if cfg, err := datadir.LoadConfig(logRoot); err == nil {
			debug = cfg.Log.Debug
		}
	}

	cleanup, _ := logger.Setup(logger.Config{
		Root:   logRoot,
		Debug:  debug,
		Stderr: stderr,
	})
	g.cleanup = cleanup
}
