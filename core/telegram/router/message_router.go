package router

import (
	tg "github.com/m3rciful/fridgebot/core/telegram"
	tghelpers "github.com/m3rciful/fridgebot/core/telegram/helpers"
	"github.com/m3rciful/fridgebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Conversation is implemented by bots that consume free text while a
// multi-step exchange with a chat is running.
type Conversation interface {
	InProgress(chatID int64) bool
	HandleText(c tele.Context) error
}

// TextOptions controls fallback behaviour for text/document updates.
type TextOptions struct {
	UnknownText     tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// TextRoutes builds handlers for text and document routing. Text goes to the
// running conversation first, then to command aliases, then to fallbacks.
func TextRoutes(conv Conversation, reg *tg.Registry, opts TextOptions) []tg.Route {
	text := func(c tele.Context) error {
		name, h := resolveText(c, conv, reg, opts)
		return runHandler(c, name, h)
	}
	doc := func(c tele.Context) error {
		return runHandler(c, "unexpected_document", opts.UnknownDocument)
	}
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: middleware.RecoverMiddleware(middleware.LoggerMiddleware(text))},
		{Endpoint: tele.OnDocument, Handler: middleware.RecoverMiddleware(middleware.LoggerMiddleware(doc))},
	}
}

func resolveText(c tele.Context, conv Conversation, reg *tg.Registry, opts TextOptions) (string, tele.HandlerFunc) {
	if conv != nil && conv.InProgress(tghelpers.ChatID(c)) {
		return "conversation", conv.HandleText
	}
	if reg != nil {
		if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
			return normalizeHandlerName(key), cmd.Handler
		}
		if fb := reg.TextFallback(); fb != nil {
			return "fallback", fb
		}
	}
	return "unknown_text", opts.UnknownText
}
