// Package logging centralizes the structured logger setup of the
// cmd/correlate binary, mirroring the single log-configuration call site
// a CLI main() usually has, but built on github.com/charmbracelet/log
// for leveled, structured output instead of the standard logger.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New builds a logger writing to w at the given level ("debug", "info",
// "warn", "error"). An empty level defaults to "info".
func New(w io.Writer, level string) (*log.Logger, error) {
	if level == "" {
		level = "info"
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	logger.SetLevel(lvl)

	return logger, nil
}
