package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	homeDir    string
	configPath string
	verbose    bool
	outputJSON bool
	noProgress bool
)

// detailer is implemented by errors that carry a multi-line diagnosis, such
// as alignment and segment failures.
type detailer interface {
	Details() string
}

// Execute runs the root cobra command. An interrupt cancels the command's
// context so a render stops between frames and closes its encoder.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var d detailer
		if errors.As(err, &d) {
			fmt.Fprintln(os.Stderr, d.Details())
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scubaoverlay",
		Short:         "Render dive computer data as a video overlay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&homeDir, "home", "", "Global directory (default $SCUBAOVERLAY_HOME or ~/.scubaoverlay)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default <home>/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output and echo the log to stderr")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable interactive progress output")

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newMatchCmd())
	cmd.AddCommand(newMergeCmd())
	cmd.AddCommand(newFontsCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
