package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"

	"github.com/m3rciful/fridgebot/core/buildinfo"
	coreconfig "github.com/m3rciful/fridgebot/core/config"
)

var (
	initOnce   sync.Once
	shutdownMu sync.Mutex
	closed     bool

	logWriter  *asyncWriter
	logClosers []io.Closer

	levelVar slog.LevelVar

	debugSampler  = newRatioSampler(1, 50)
	traceOverride bool

	// L is the base logger; nil until InitLogger runs, which makes every helper a no-op.
	L *slog.Logger
)

// settings is the logging section of the config resolved to concrete values.
type settings struct {
	format  logFormat
	order   []string
	level   slog.Level
	profile string
	sample  [2]int
}

func resolve(cfg *coreconfig.Config) settings {
	if cfg == nil {
		cfg = &coreconfig.Config{}
	}
	lc := cfg.Logging
	s := settings{
		format:  selectFormat(cfg),
		order:   selectKeyOrder(cfg),
		level:   selectLevel(cfg),
		profile: strings.ToLower(strings.TrimSpace(lc.Profile)),
		sample:  [2]int{1, 50},
	}
	if s.profile == "" {
		s.profile = "prod"
	}
	if spec := strings.TrimSpace(lc.DebugSample); spec != "" {
		if num, den := parseRatioSpec(spec); (num == 0 && den == 0) || (num > 0 && den > 0) {
			s.sample = [2]int{num, den}
		}
	}
	return s
}

// InitLogger configures the global structured logger. It may be called only once.
func InitLogger(cfg *coreconfig.Config) error {
	var initErr error
	initOnce.Do(func() {
		s := resolve(cfg)
		levelVar.Set(s.level)
		debugSampler.Set(s.sample[0], s.sample[1])
		traceOverride = envFlag("TRACE") || envFlag("LOG_TRACE")

		outputs, closers, err := buildOutputs(cfg)
		if err != nil {
			initErr = err
			return
		}
		logClosers = closers
		logWriter = newAsyncWriter(outputs, 1024)

		L = slog.New(newStructuredHandler(handlerConfig{
			level:    &levelVar,
			writer:   logWriter,
			format:   s.format,
			keyOrder: s.order,
		}))
		slog.SetDefault(L)

		Info(context.Background(), "app", "startup",
			slog.String("go_version", runtime.Version()),
			slog.String("version", buildinfo.Summary()),
			slog.String("cfg_profile", s.profile),
			slog.String("log_format", string(s.format)),
			slog.String("log_level", s.level.String()),
			slog.Int("log_outputs", len(outputs)),
		)
	})
	return initErr
}

// Shutdown flushes buffered log output and closes opened sinks.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if closed {
		return nil
	}
	closed = true

	var errs []error
	if logWriter != nil {
		errs = append(errs, logWriter.Close())
	}
	for _, c := range logClosers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func selectFormat(cfg *coreconfig.Config) logFormat {
	if cfg == nil {
		return formatJSON
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Format)) {
	case "kv", "text", "pretty":
		return formatKV
	case "json":
		return formatJSON
	}
	switch strings.ToLower(cfg.Logging.Profile) {
	case "debug", "dev":
		return formatKV
	}
	return formatJSON
}

// selectKeyOrder puts the configured keys first and keeps the remaining
// default keys after them, so a partial list never scrambles the rest.
func selectKeyOrder(cfg *coreconfig.Config) []string {
	var raw string
	if cfg != nil {
		raw = strings.TrimSpace(cfg.Logging.KeysOrder)
	}
	if raw == "" || raw == "default" {
		return append([]string(nil), defaultKeyOrder...)
	}
	order := make([]string, 0, len(defaultKeyOrder))
	seen := make(map[string]bool, len(defaultKeyOrder))
	for _, k := range append(strings.Split(raw, ","), defaultKeyOrder...) {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		order = append(order, k)
	}
	return order
}

// selectLevel accepts slog level names plus "warning"; anything else is info.
func selectLevel(cfg *coreconfig.Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	raw := strings.TrimSpace(cfg.Logging.Level)
	if strings.EqualFold(raw, "warning") {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// buildOutputs always writes to stdout and adds a rotating file when both the
// log dir and file name are configured.
func buildOutputs(cfg *coreconfig.Config) ([]io.Writer, []io.Closer, error) {
	writers := []io.Writer{os.Stdout}
	if cfg == nil {
		return writers, nil, nil
	}
	lc := cfg.Logging
	dir, file := strings.TrimSpace(lc.Dir), strings.TrimSpace(lc.BotFile)
	if dir == "" || file == "" {
		return writers, nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("logger: create log dir %s: %w", dir, err)
	}
	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(dir, file),
		MaxSize:    lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAgeDays,
		Compress:   true,
	}
	return append(writers, rotating), []io.Closer{rotating}, nil
}

func envFlag(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// ShouldSampleDebug reports whether debug-level details should be logged for high-volume events.
func ShouldSampleDebug() bool {
	return traceOverride || debugSampler.Allow()
}
