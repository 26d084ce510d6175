package router

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/fridgebot/core/logger"
	tghelpers "github.com/m3rciful/fridgebot/core/telegram/helpers"
	"github.com/m3rciful/fridgebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// runHandler runs h under the request context tagged with name and logs one
// "handler.handled" summary. A nil h is logged as skipped.
func runHandler(c tele.Context, name string, h tele.HandlerFunc, extras ...slog.Attr) error {
	start := time.Now()
	ctx := tghelpers.WithHandler(c, name)
	status := "skip"
	var err error
	if h != nil {
		err = h(c)
		status = outcome(err)
	}
	msgs, kb := middleware.GetCounters(c)
	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("outcome", outcome(err)),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", time.Since(start)),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
		)
	}
	logger.Info(ctx, "tg", "handler.handled", append(attrs, extras...)...)
	return err
}

func outcome(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}

// deriveErrorCode names err for log aggregation: Telegram API errors by their
// HTTP code, anything else by its Go type.
func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return "TG_FLOOD_WAIT"
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("TG_%d", apiErr.Code)
	}
	if errors.Is(err, tele.ErrBadContext) {
		return "TG_BAD_CONTEXT"
	}
	type coder interface{ Code() string }
	if c, ok := err.(coder); ok {
		if code := strings.TrimSpace(c.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" {
		return strings.ToUpper(t.Name())
	}
	return "UNKNOWN_ERROR"
}
