package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/railbook/internal/infra/datadir"
	"github.com/aalvaropc/railbook/internal/infra/logger"
)

type infoJSON struct {
	Root       string `json:"root"`
	TrainsFile string `json:"trainsFile"`
	UsersFile  string `json:"usersFile"`
	LockFile   string `json:"lockFile"`
	LogFile    string `json:"logFile,omitempty"`
	LogStarted string `json:"logStarted,omitempty"`
}

func infoCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the data root, data files and log file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sys, err := openSystem(g.root, withLogger(logger.L()), withReadOnly())
			if err != nil {
				return err
			}
			defer func() { _ = sys.Close() }()

			in := infoJSON{
				Root:       sys.root,
				TrainsFile: sys.trainFile.Path(),
				UsersFile:  sys.userFile.Path(),
				LockFile:   datadir.LockPath(sys.root, sys.cfg),
			}
			if logger.IsReady() == nil {
				in.LogFile = logger.Path()
				in.LogStarted = logger.InitTime().Format(time.RFC3339)
			}
			return printInfo(cmd.OutOrStdout(), in, g.format)
		},
	}
}

func printInfo(w io.Writer, in infoJSON, format string) error {
	switch format {
	case "json":
		return encodeJSON(w, in)
	case "pretty", "":
		fmt.Fprintf(w, "Root:        %s\n", in.Root)
		fmt.Fprintf(w, "Trains file: %s\n", in.TrainsFile)
		fmt.Fprintf(w, "Users file:  %s\n", in.UsersFile)
		fmt.Fprintf(w, "Lock file:   %s\n", in.LockFile)
		if in.LogFile == "" {
			fmt.Fprintln(w, "Log file:    (not initialized)")
			return nil
		}
		fmt.Fprintf(w, "Log file:    %s (since %s)\n", in.LogFile, in.LogStarted)
		return nil
	default:
		return checkFormat(format)
	}
}
