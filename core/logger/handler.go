package logger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

var errNoWriter = errors.New("logger: writer not initialized")

type handlerConfig struct {
	level    slog.Leveler
	writer   *asyncWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler renders every record as one line of flat fields, either
// JSON or key=value, with a stable key order.
type structuredHandler struct {
	cfg    handlerConfig
	attrs  []slog.Attr
	prefix string
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if cfg.keyOrder == nil {
		cfg.keyOrder = append([]string(nil), defaultKeyOrder...)
	}
	return &structuredHandler{cfg: cfg}
}

func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level.Level()
}

func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return errNoWriter
	}
	jsonOut := h.cfg.format == formatJSON

	e := make(entry, 16)
	ts := r.Time.UTC()
	e["ts"] = ts.Truncate(time.Millisecond).Format(timeFormatMillis)
	e["level"] = levelName(r.Level)
	if jsonOut {
		e["ts_unix_nano"] = ts.UnixNano()
	}
	for _, a := range h.attrs {
		e.add(h.prefix, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		e.add(h.prefix, a)
		return true
	})
	e.fromContext(ctx)
	e.compactRID(jsonOut)
	e.setDefault("event", r.Message, "unknown")
	e.setDefault("component", "app")
	e.normalizeEnums()
	e.prune()

	var (
		line []byte
		err  error
	)
	if jsonOut {
		line, err = e.json(h.cfg.keyOrder)
	} else {
		line = e.kv(h.cfg.keyOrder)
	}
	if err != nil {
		return err
	}
	return h.cfg.writer.Write(append(line, '\n'))
}

func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *structuredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = strings.TrimPrefix(h.prefix+"."+name, ".")
	return &clone
}
