package main

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/tileprint/pkg/errs"
	"github.com/PhantomInTheWire/tileprint/pkg/pipeline"
)

// cli holds state shared by every command.
type cli struct {
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger

	verbose bool
	quiet   bool
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{stdout: stdout, stderr: stderr, logger: newLogger(stderr, log.InfoLevel)}
}

// newLogger formats timestamps as "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tileprint",
		Short: "Split an image across printer pages",
		Long: `tileprint scales an image to a grid of printer pages and writes one PDF
page per tile, so the printed sheets can be trimmed and assembled into a poster.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			switch {
			case c.verbose && c.quiet:
				return errs.Configf("--verbose and --quiet cannot be combined")
			case c.verbose:
				c.logger.SetLevel(log.DebugLevel)
			case c.quiet:
				c.logger.SetLevel(log.WarnLevel)
			}
			return nil
		},
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "log warnings only and hide the progress bar")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.planCommand())
	return root
}

func (c *cli) newRunner() *pipeline.Runner {
	r := pipeline.NewRunner(c.logger)
	if !c.quiet {
		r.Progress = c.stderr
	}
	return r
}
