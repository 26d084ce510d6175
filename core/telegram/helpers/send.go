package helpers

import (
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/m3rciful/fridgebot/core/logger"
	"github.com/m3rciful/fridgebot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

const answeredKey = "cb_answered"

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

func options(markup *tele.ReplyMarkup) *tele.SendOptions {
	return &tele.SendOptions{ReplyMarkup: markup}
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	var sendOpts *tele.SendOptions
	if len(opts) > 0 {
		sendOpts = opts[0]
	}
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if sendOpts != nil {
			return c.Send(text, sendOpts)
		}
		return c.Send(text)
	})
}

// EditOrSend replaces the message carrying the pressed button, or sends a new
// message when the update has nothing to edit. A nil markup clears the keyboard.
func EditOrSend(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	return sendAsync(c, "edit.text", "editMessageText", func() error {
		return ignoreNotModified(c.EditOrSend(text, options(markup)))
	})
}

// Reply answers on the channel the update arrived on: a button press edits its
// message, anything else sends a new one. Each falls back to the other on failure.
func Reply(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	return sendAsync(c, "reply.text", "sendMessage", func() error {
		if c.Callback() != nil {
			err := ignoreNotModified(c.Edit(text, options(markup)))
			if err == nil {
				return nil
			}
			return c.Send(text, options(markup))
		}
		sendErr := c.Send(text, options(markup))
		if sendErr == nil {
			return nil
		}
		if err := ignoreNotModified(c.Edit(text, options(markup))); !errors.Is(err, tele.ErrBadContext) {
			return err
		}
		return sendErr
	})
}

// Answer acknowledges the pressed button, showing text as a toast when not empty.
// Telegram accepts a single answer per callback; later calls are no-ops.
func Answer(c tele.Context, text string) error {
	if c.Callback() == nil || Answered(c) {
		return nil
	}
	c.Set(answeredKey, true)
	if text == "" {
		return c.Respond()
	}
	return c.Respond(&tele.CallbackResponse{Text: text})
}

// Answered reports whether the callback of this update was already answered.
func Answered(c tele.Context) bool {
	v, _ := c.Get(answeredKey).(bool)
	return v
}

func ignoreNotModified(err error) error {
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}
