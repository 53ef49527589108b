package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(ctx, os.Stdout).Execute(); err != nil {
		log.Error().Err(err).Msg("propres failed")
		stop()
		os.Exit(1)
	}
}
