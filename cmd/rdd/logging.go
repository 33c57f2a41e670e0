package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bamsammich/rdd/internal/event"
	"github.com/bamsammich/rdd/internal/ui"
)

// setupLogging installs the default slog logger: text on stderr, plus a
// JSON handler on --log FILE. Every record carries the run id. The returned
// func closes the log file.
func setupLogging(stderr io.Writer, o options, runID string) (func(), error) {
	logLevel := slog.LevelWarn
	if o.verbose {
		logLevel = slog.LevelDebug
	} else if !o.quiet {
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	var logHandler slog.Handler = textHandler
	closeFn := func() {}
	if o.logFile != "" {
		lf, err := os.Create(o.logFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		closeFn = func() { _ = lf.Close() } //nolint:errcheck // best-effort close on exit
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}

	logger := slog.New(logHandler).With("run_id", runID)
	slog.SetDefault(logger)
	return closeFn, nil
}

// teeEvents logs every engine event at debug level and forwards it. The
// returned channel closes after events does.
func teeEvents(events <-chan event.Event) <-chan event.Event {
	teed := make(chan event.Event, cap(events))
	go func() {
		defer close(teed)
		for ev := range events {
			logEvent(ev)
			teed <- ev
		}
	}()
	return teed
}

func logEvent(ev event.Event) {
	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
		slog.Int64("block", ev.Block),
		slog.Int64("offset", ev.Offset),
		slog.Int64("size", ev.Size),
	}
	if ev.Total > 0 {
		attrs = append(attrs, slog.Int64("total", ev.Total))
	}
	if ev.Error != nil {
		attrs = append(attrs, slog.String("error", ev.Error.Error()))
	}
	slog.LogAttrs(context.Background(), slog.LevelDebug, "rdd.event", attrs...)
}
