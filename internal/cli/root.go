// Package cli implements the `generate` command surface: flag
// parsing and config-file/env overlay via cobra+viper, structured logging
// via zerolog, and the process exit-code mapping. It reads os.Args and
// the wall clock and returns the exit code that cmd/generate's main hands
// to os.Exit — the driver package itself stays free of all three.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arnisgo/arnis/internal/httpfetch"
	"github.com/arnisgo/arnis/pkg/anvil"
	"github.com/arnisgo/arnis/pkg/driver"
	"github.com/arnisgo/arnis/pkg/osm"
)

// Exit codes.
const (
	ExitSuccess   = 0
	ExitBadArgs   = 2
	ExitFetchFail = 3
	ExitWriteFail = 4
	ExitCancelled = 5
)

// Execute builds and runs the root command against os.Args, returning the
// process exit code for main to pass to os.Exit.
func Execute() int {
	cmd, code := newGenerateCommand()
	if code != ExitSuccess {
		return code
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		// cobra has already printed the error; translate it to an exit
		// code via the same classification runGenerate uses.
		return classifyErr(err)
	}
	return exitCode
}

// exitCode is set by runGenerate's RunE before it returns, since cobra's
// Execute only reports success/failure, not which exit code applies.
var exitCode = ExitSuccess

func newGenerateCommand() (*cobra.Command, int) {
	v := viper.New()
	flags := newFlagSet()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Convert an OSM bounding box into a Minecraft Java Edition save",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg := flags.configPath(); cfg != "" {
				v.SetConfigFile(cfg)
				if err := v.ReadInConfig(); err != nil {
					exitCode = ExitBadArgs
					return fmt.Errorf("cli: read config %s: %w", cfg, err)
				}
			}
			v.SetEnvPrefix("ARNIS")
			v.AutomaticEnv()

			opts, spawn, err := flags.resolve(v)
			if err != nil {
				exitCode = ExitBadArgs
				return err
			}
			return runGenerate(cmd.Context(), opts, spawn, v)
		},
		SilenceUsage: true,
	}
	flags.bind(cmd, v)

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, ExitBadArgs
	}
	return cmd, ExitSuccess
}

// runGenerate wires the real HTTP/filesystem collaborators, starts a run, drains its
// progress channel to stderr, and maps the outcome to an exit code.
func runGenerate(ctx context.Context, opts driver.Options, spawn *anvil.SpawnPoint, v *viper.Viper) error {
	opts.Spawn = spawn
	logger := newLogger(opts.Options.Debug)

	run := driver.NewRun(opts, time.Now())
	deps := driver.Dependencies{
		OSM:      httpfetch.NewOverpassFetcher(v.GetString("overpass-endpoint")),
		WorldDir: httpfetch.LocalWorldDir{},
	}
	if opts.Terrain {
		deps.Tiles = httpfetch.NewElevationFetcher(v.GetString("elevation-endpoint"))
	}

	progress := make(chan driver.ProgressEvent, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range progress {
			logger.Info().Float64("percent", ev.Percent).Msg(ev.Message)
			fmt.Fprintf(os.Stderr, "progress-update {%.0f%% %s}\n", ev.Percent, ev.Message)
		}
	}()

	summary, err := driver.Generate(ctx, run, deps, logger, progress)
	close(progress)
	<-done

	if err != nil {
		exitCode = classifyErr(err)
		fmt.Fprintf(os.Stderr, "Error! %v\n", err)
		return err
	}
	if summary.Failed() {
		exitCode = ExitWriteFail
		fmt.Fprintf(os.Stderr, "Error! %d region(s) failed to write\n", len(summary.Errors))
		return fmt.Errorf("cli: %d region write failure(s)", len(summary.Errors))
	}
	fmt.Fprintln(os.Stderr, "Done!")
	return nil
}

// classifyErr maps a driver-returned error to the exit code family
// its kind belongs to.
func classifyErr(err error) int {
	var invalidBBox *driver.InvalidBBox
	var cancelled *driver.Cancelled
	var fetchErr *osm.OsmFetchError
	var writeErr *anvil.RegionWriteError
	switch {
	case errors.As(err, &invalidBBox):
		return ExitBadArgs
	case errors.As(err, &cancelled):
		return ExitCancelled
	case errors.As(err, &fetchErr):
		return ExitFetchFail
	case errors.As(err, &writeErr):
		return ExitWriteFail
	default:
		return ExitWriteFail
	}
}

// newLogger builds the run's zerolog.Logger: a human-readable console
// writer at info level, or debug level with caller info when --debug is
// set. The process configures one logger at startup and threads it
// through; the only other stderr output is runGenerate's own
// progress-update, "Error!" and "Done!" lines.
func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := zerolog.New(writer).With().Timestamp().Logger()
	if debug {
		level = zerolog.DebugLevel
		logger = logger.With().Caller().Logger()
	}
	return logger.Level(level)
}
