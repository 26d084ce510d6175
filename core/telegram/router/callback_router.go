package router

import (
	"log/slog"

	tg "github.com/m3rciful/fridgebot/core/telegram"
	"github.com/m3rciful/fridgebot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/fridgebot/core/telegram/helpers"
	"github.com/m3rciful/fridgebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute returns a handler that routes callbacks through the registry by
// button unique key. Every callback is answered once the handler returns, unless
// the handler answered it already.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		defer func() { _ = tghelpers.Answer(c, "") }()

		key, payload := callbacks.ParseCallbackData(c.Callback())
		extras := []slog.Attr{slog.String("cb_key", key)}
		if payload != "" {
			extras = append(extras, slog.String("payload", payload))
		}
		h, found := resolveCallback(reg, opts, key)
		if !found {
			extras = append(extras, slog.String("reason", "not_found"))
		}
		return runHandler(c, "callback."+normalizeHandlerName(key), h, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

// resolveCallback picks the registered handler for key. Unknown keys go to
// the registry's not-found handler, then opts.NotFound, then answerUnsupported.
func resolveCallback(reg *tg.Registry, opts CallbackOptions, key string) (tele.HandlerFunc, bool) {
	if h, ok := reg.GetCallback(key); ok && h != nil {
		return h, true
	}
	if h := reg.CallbackNotFound(); h != nil {
		return h, false
	}
	if opts.NotFound != nil {
		return opts.NotFound, false
	}
	return answerUnsupported, false
}

func answerUnsupported(c tele.Context) error {
	return tghelpers.Answer(c, "Unsupported action")
}
