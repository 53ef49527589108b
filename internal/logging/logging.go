// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Setup sets the global level and output format. format is "json",
// "console" or "auto"; auto picks console output when stderr is a terminal.
func Setup(level, format string) error {
	return setup(os.Stderr, level, format, term.IsTerminal(int(os.Stderr.Fd())))
}

func setup(out io.Writer, level, format string, tty bool) error {
	lvl := zerolog.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return fmt.Errorf("logging: %w", err)
		}
		lvl = parsed
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	switch strings.ToLower(format) {
	case "json":
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	case "console":
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
	case "", "auto":
		if tty {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
		} else {
			log.Logger = zerolog.New(out).With().Timestamp().Logger()
		}
	default:
		return fmt.Errorf("logging: unknown format %q", format)
	}
	return nil
}
