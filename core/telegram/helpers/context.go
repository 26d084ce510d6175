package helpers

import (
	"context"

	"github.com/m3rciful/fridgebot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// ctxSlot is the tele.Context key holding the request context.
const ctxSlot = "logger_ctx"

// StoreContext keeps ctx on c so later handlers of the same update reuse it.
func StoreContext(c tele.Context, ctx context.Context) {
	if c != nil && ctx != nil {
		c.Set(ctxSlot, ctx)
	}
}

// ContextFrom returns the context stored by StoreContext.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(ctxSlot).(context.Context)
	return ctx, ok && ctx != nil
}

// ChatID returns the chat the update belongs to, falling back to the sender for chatless updates.
func ChatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	return senderID(c)
}

func senderID(c tele.Context) int64 {
	if user := c.Sender(); user != nil {
		return user.ID
	}
	return 0
}

// BuildContext returns the request context of c, creating it on first use
// with the rid and update metadata plus the "tg" component logger.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := ContextFrom(c); ok {
		return ctx
	}
	updateID, chatID, userID := c.Update().ID, ChatID(c), senderID(c)
	rid := logger.BuildRID(updateID, chatID, userID)
	ctx := logger.WithUpdateMeta(logger.WithRID(context.Background(), rid), updateID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	StoreContext(c, ctx)
	return ctx
}

// WithHandler tags the request context of c with the handler name.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler != "" {
		ctx = logger.WithHandler(ctx, handler)
		StoreContext(c, ctx)
	}
	return ctx
}
