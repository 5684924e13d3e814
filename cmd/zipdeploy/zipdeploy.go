package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cmds "github.com/saucelabs/zipdeploy/internal/cmd"
	"github.com/saucelabs/zipdeploy/internal/cmd/archive"
	"github.com/saucelabs/zipdeploy/internal/cmd/completion"
	"github.com/saucelabs/zipdeploy/internal/cmd/configure"
	"github.com/saucelabs/zipdeploy/internal/cmd/publish"
	"github.com/saucelabs/zipdeploy/internal/cmd/upload"
	"github.com/saucelabs/zipdeploy/internal/config"
	"github.com/saucelabs/zipdeploy/internal/deploy"
	"github.com/saucelabs/zipdeploy/internal/version"
)

var (
	cmdUse   = "zipdeploy [OPTIONS] [COMMAND]"
	cmdShort = "zipdeploy"
	cmdLong  = `Publishes a directory to a Kudu zip deployment endpoint, e.g. an Azure App Service app.

Without a command, zipdeploy publishes the current directory:
archive, upload and clean up.`
)

// Exit codes.
const (
	exitOK        = 0
	exitUsage     = 1
	exitArchive   = 2
	exitTransport = 3
	exitRejected  = 4
)

func main() {
	cmd := newRootCmd()

	if err := cmd.ExecuteContext(newContext()); err != nil {
		os.Exit(reportError(err))
	}
}

func newRootCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:              cmdUse,
		Short:            cmdShort,
		Long:             cmdLong,
		SilenceUsage:     true,
		SilenceErrors:    true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		Version:          fmt.Sprintf("%s\n(build %s)", version.Version, version.GitCommit),
	}

	cmd.SetVersionTemplate("zipdeploy version {{.Version}}\n")
	cmd.Flags().BoolP("version", "v", false, "print version")

	verbosity := cmd.PersistentFlags().Bool("verbose", false, "turn on verbose logging")
	noColor := cmd.PersistentFlags().Bool("no-color", false, "disable colorized output")
	cmd.PersistentFlags().StringP("config", "c", config.DefaultFilename, "Specifies which config file to use")

	cmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		setupLogging(*verbosity, *noColor || !isatty.IsTerminal(os.Stdout.Fd()))
	}

	// Publishing is the default action.
	sc := cmds.AddProjectFlags(cmd.Flags())
	cmds.AddOutFlag(cmd.Flags(), &out)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return publish.Run(cmd, sc, out)
	}

	cmd.AddCommand(
		publish.Command(),
		archive.Command(),
		upload.Command(),
		configure.Command(),
		completion.Command(),
	)

	return cmd
}

// reportError logs err unless it has been reported where it occurred, and returns the exit code for it.
// Archive, transport and rejection errors are always reported by the publisher or the archive command.
func reportError(err error) int {
	code := exitCode(err)
	if code == exitUsage {
		log.Error().Msg(err.Error())
	}
	return code
}

// exitCode maps err to the exit code of the process.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var archiveErr *deploy.ArchiveError
	var transportErr *deploy.TransportError
	var rejectionErr *deploy.RejectionError
	switch {
	case errors.As(err, &archiveErr):
		return exitArchive
	case errors.As(err, &transportErr):
		return exitTransport
	case errors.As(err, &rejectionErr):
		return exitRejected
	default:
		return exitUsage
	}
}

func setupLogging(verbose bool, noColor bool) {
	color.NoColor = noColor
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.DurationFieldInteger = true
	timeFormat := "15:04:05"
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		zerolog.TimeFieldFormat = time.RFC3339Nano
		timeFormat = "15:04:05.000"
	}

	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(time.Local)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: timeFormat, NoColor: noColor})
}

// newContext returns a new context that is canceled when a SIGINT is received.
func newContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)

	go func() {
		for range signals {
			if ctx.Err() != nil {
				os.Exit(exitUsage)
			}

			println("\nAborting the upload... (press Ctrl-c again to exit without waiting)\n")
			cancel()
		}
	}()

	return ctx
}
