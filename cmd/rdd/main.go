package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bamsammich/rdd/internal/config"
	"github.com/bamsammich/rdd/internal/coverage"
	"github.com/bamsammich/rdd/internal/device"
	"github.com/bamsammich/rdd/internal/engine"
	"github.com/bamsammich/rdd/internal/event"
	"github.com/bamsammich/rdd/internal/stats"
	"github.com/bamsammich/rdd/internal/ui"
)

var version = "dev"

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			if exitErr.err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", exitErr.err)
			}
			return exitErr.code
		}
		// Flag parsing and other cobra errors.
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	return exitOK
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "rdd --bs SIZE[-SIZE] [--if INPUT] [--of OUTPUT]",
		Short: "Copy blocks of random size to random offsets of a device or file",
		Long: `rdd reads its input sequentially and writes each block to a random position
of an existing output file or block device. Block sizes are fixed (--bs 4k) or
drawn uniformly from a range (--bs 512-1m) for every block.

Defaults for bs, speed, status, conv and seed may be set in the [defaults]
table of $XDG_CONFIG_HOME/rdd/config.toml.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.showVersion {
				fmt.Fprintf(stdout, "rdd %s\n", version)
				return nil
			}

			runID := uuid.NewString()
			closeLog, err := setupLogging(stderr, opts, runID)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}
			defer closeLog()

			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "path", config.Path(), "error", err)
			}
			applyConfigDefaults(cmd.Flags(), cfg.Defaults, &opts)

			settings, err := opts.resolve()
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}
			return execute(cmd.Context(), settings, stderr)
		},
	}

	opts.register(rootCmd.Flags())
	rootCmd.AddCommand(newDocsCmd())

	return rootCmd
}

// execute performs one randomized copy with fully resolved settings.
//
//nolint:gocyclo // CLI entry point wires devices, presenter and engine
func execute(parent context.Context, s settings, stderr io.Writer) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := device.OpenSource(s.input)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	defer src.Close()

	dst, err := device.OpenDestination(s.output, s.syncMode)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	defer dst.Close()

	dstSize, err := dst.Size()
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	var bitmap *coverage.Bitmap
	if s.status == ui.StatusBitArray && dstSize > 0 {
		bitmap = coverage.New(coverage.BitsFor(dstSize, s.bsMin))
	}

	seed := s.seed
	if !s.seedSet {
		seed = rand.Uint64()
	}
	slog.Debug("starting",
		"input", displayName(s.input, "stdin"),
		"output", displayName(s.output, "stdout"),
		"output_size", dstSize,
		"seed", seed,
		"sync", s.syncMode,
	)

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)

	// When --log is set, tee events through a logging goroutine
	// that writes structured records before forwarding to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if s.logFile != "" {
		presenterEvents = teeEvents(events)
	}

	isTTY := false
	if f, ok := stderr.(*os.File); ok {
		isTTY = ui.IsTTY(f.Fd())
	}
	presenter := ui.NewPresenter(ui.Config{
		ErrWriter: stderr,
		Level:     s.status,
		Stats:     collector,
		Bitmap:    bitmap,
		IsTTY:     isTTY,
	})

	// Inline mode: run presenter in background, engine in foreground.
	var presenterErr error
	var presenterWg sync.WaitGroup
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	result := engine.Run(ctx, engine.Config{
		Src:          src,
		Dst:          dst,
		BlockSizeMin: s.bsMin,
		BlockSizeMax: s.bsMax,
		MaxBlocks:    s.count,
		SkipBlocks:   s.skip,
		SpeedLimit:   s.speed,
		NoError:      s.noError,
		Sync:         s.zeroFill,
		Digest:       s.digest,
		Rand:         engine.NewRand(seed),
		Bitmap:       bitmap,
		Stats:        collector,
		Events:       events,
	})
	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(stderr, "presenter: %v\n", presenterErr)
	}

	preflight := errors.Is(result.Err, engine.ErrEmptyDestination) ||
		errors.Is(result.Err, engine.ErrBlockTooLarge) ||
		errors.Is(result.Err, engine.ErrInvalidConfig)

	if s.status != ui.StatusNone && !preflight {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(stderr, summary)
		}
	}
	if s.digest && result.Digest != "" {
		fmt.Fprintf(stderr, "blake3 %s\n", result.Digest)
	}

	slog.Debug("finished", "stats", result.Stats.String(), "blocks", result.Blocks)

	switch {
	case result.Err == nil:
		return nil
	case preflight:
		return &exitError{code: exitUsage, err: result.Err}
	case ctx.Err() != nil && errors.Is(result.Err, ctx.Err()):
		slog.Warn("interrupted", "blocks", result.Blocks, "bytes", result.Bytes)
		return &exitError{code: exitInterrupted}
	default:
		return &exitError{code: exitFailure, err: result.Err}
	}
}

func displayName(path, std string) string {
	if path == "" || path == "-" {
		return std
	}
	return path
}

// exitError carries a specific exit code out of cobra. A nil err exits
// silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }
