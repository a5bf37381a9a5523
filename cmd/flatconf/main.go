package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/flatconf/flatconf/cmd/flatconf/commands"
	"github.com/flatconf/flatconf/pkg/telemetry"
)

// Filled in by -ldflags at release time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	initGlobalLogger()

	// Cancelled on SIGINT or SIGTERM, which is how watch stops.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := commands.Execute(ctx, Version, Commit, BuildDate)
	switch {
	case err == nil:
		return
	case errors.Is(err, commands.ErrAbsent):
		// exists already printed "false"; the exit status carries the answer.
	default:
		log.Error().Err(err).Msg("flatconf failed")
	}
	stop()
	os.Exit(1)
}

// initGlobalLogger sets up the logger used for errors that happen before or
// outside a command's own logger.
func initGlobalLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	level := os.Getenv("FLATCONF_LOG_LEVEL")
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	zerolog.SetGlobalLevel(telemetry.ParseLogLevel(level))
}
