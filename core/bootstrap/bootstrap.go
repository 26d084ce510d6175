package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/fridgebot/core/config"
	"github.com/m3rciful/fridgebot/core/logger"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config

	// LoggerInit runs first when set. Leave nil when the runner already initialised logging.
	LoggerInit func(*coreconfig.Config) error
	Steps      []Step
}

// Run initializes the logger and executes the steps in order, stopping at the first failure.
func Run(ctx context.Context, opts Options) error {
	if opts.Config == nil {
		return fmt.Errorf("bootstrap: nil config provided")
	}
	if opts.LoggerInit != nil {
		if err := opts.LoggerInit(opts.Config); err != nil {
			return fmt.Errorf("bootstrap: logger init failed: %w", err)
		}
	}

	for _, step := range opts.Steps {
		if step.Run == nil {
			continue
		}
		start := time.Now()
		err := step.Run(ctx)
		logger.Debug(ctx, "app", "bootstrap.step",
			slog.String("step", step.Name),
			slog.String("status", logger.Status(err)),
			slog.Duration("duration", logger.Took(start)),
		)
		if err != nil {
			return fmt.Errorf("bootstrap: %s failed: %w", step.Name, err)
		}
	}
	return nil
}
