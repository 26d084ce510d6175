// Package bot binds the fridge dialog to Telegram updates.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/fridgebot/core/logger"
	tg "github.com/m3rciful/fridgebot/core/telegram"
	"github.com/m3rciful/fridgebot/core/telegram/callbacks"
	"github.com/m3rciful/fridgebot/core/telegram/commands"
	tghelpers "github.com/m3rciful/fridgebot/core/telegram/helpers"
	"github.com/m3rciful/fridgebot/core/telegram/router"
	"github.com/m3rciful/fridgebot/core/telegram/state"
	"github.com/m3rciful/fridgebot/core/telegram/ui"
	"github.com/m3rciful/fridgebot/fridge/dialog"
	"github.com/m3rciful/fridgebot/fridge/presenter"

	tele "gopkg.in/telebot.v4"
)

const component = "tg"

var (
	_ ui.FallbackProvider = (*Bot)(nil)
	_ router.Conversation = (*Bot)(nil)
)

// Sessions holds one dialog session per chat.
type Sessions = state.Memory[dialog.Session]

// NewSessions builds an empty session store whose inventories allow limit items per location.
func NewSessions(limit int) *Sessions {
	return state.NewMemory(func() dialog.Session { return dialog.NewSession(limit) })
}

// Bot translates updates into dialog events and dialog responses into messages.
type Bot struct {
	machine  *dialog.Machine
	sessions *Sessions
}

// New wires a bot over sessions.
func New(sessions *Sessions, machine *dialog.Machine) *Bot {
	return &Bot{machine: machine, sessions: sessions}
}

// Register adds the bot commands and one callback handler per token kind.
func (b *Bot) Register(reg *tg.Registry) error {
	errs := []error{
		reg.RegisterCommand("/start", commands.Command{
			Handler:     b.onStart,
			Description: "Open the fridge",
		}),
		reg.RegisterCommand("/stop", commands.Command{
			Handler:     b.onStop,
			Description: "End the conversation",
			Aliases:     []string{"cancel"},
		}),
		reg.RegisterCommand("/stats", commands.Command{
			Handler:     b.onStats,
			Description: "Inventory statistics",
			AdminOnly:   true,
			Hidden:      true,
		}),
	}
	for _, kind := range presenter.Kinds() {
		errs = append(errs, reg.RegisterCallback(string(kind), b.onButton))
	}
	reg.SetCallbackNotFound(b.UnknownCallback())
	reg.SetTextFallback(b.UnknownText())
	return errors.Join(errs...)
}

// InProgress reports whether chatID has a running conversation.
func (b *Bot) InProgress(chatID int64) bool {
	active := false
	b.sessions.View(chatID, func(s *dialog.Session) { active = s.Active() })
	return active
}

// HandleText feeds free text of a running conversation to the dialog.
func (b *Bot) HandleText(c tele.Context) error {
	return b.handle(c, dialog.TextEvent(c.Text()))
}

func (b *Bot) onStart(c tele.Context) error {
	return b.handle(c, dialog.CommandEvent(dialog.CommandStart))
}

func (b *Bot) onStop(c tele.Context) error {
	return b.handle(c, dialog.CommandEvent(dialog.CommandStop))
}

func (b *Bot) onButton(c tele.Context) error {
	key, payload := callbacks.ParseCallbackData(c.Callback())
	tok, err := presenter.ParseToken(key, payload)
	if err != nil {
		logger.Warn(tghelpers.BuildContext(c), component, "callback.rejected",
			slog.String("cb_key", key),
			slog.String("payload", logger.SanitizeLimit(payload, 64)),
			slog.String("err", err.Error()),
		)
		return tghelpers.Answer(c, presenter.UnavailableNotice)
	}
	return b.handle(c, dialog.ButtonEvent(tok))
}

func (b *Bot) onStats(c tele.Context) error {
	st := b.Stats(tghelpers.BuildContext(c))
	return tghelpers.SendText(c, fmt.Sprintf("Sessions: %d\nActive: %d\nItems: %d", st.Sessions, st.Active, st.Items))
}

// handle runs ev against the chat's session under its lock and renders the result.
func (b *Bot) handle(c tele.Context, ev dialog.Event) error {
	ctx := tghelpers.BuildContext(c)
	var resp dialog.Response
	err := b.sessions.Update(tghelpers.ChatID(c), func(s *dialog.Session) error {
		resp = b.machine.Handle(ctx, s, ev)
		ctx = logger.WithSession(ctx, s.ID)
		return nil
	})
	if err != nil {
		return err
	}
	tghelpers.StoreContext(c, ctx)
	return render(c, resp)
}

// Stats summarizes all sessions.
type Stats struct {
	Sessions int `json:"sessions"`
	Active   int `json:"active"`
	Items    int `json:"items"`
}

// Stats walks every session once.
func (b *Bot) Stats(_ context.Context) Stats {
	var st Stats
	b.sessions.Range(func(_ int64, s *dialog.Session) bool {
		st.Sessions++
		if s.Active() {
			st.Active++
		}
		st.Items += s.Inventory.Total()
		return true
	})
	return st
}

// UnknownText answers text outside a conversation.
func (b *Bot) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, presenter.StartHintText)
	}
}

// UnknownDocument answers files, which the fridge never asks for.
func (b *Bot) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		if b.InProgress(tghelpers.ChatID(c)) {
			return tghelpers.SendText(c, presenter.ButtonsHint)
		}
		return tghelpers.SendText(c, presenter.StartHintText)
	}
}

// RateLimited tells a user who presses buttons too fast to slow down. Dropped
// messages get no reply.
func (b *Bot) RateLimited() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.Answer(c, presenter.SlowDownNotice)
	}
}

// UnknownCallback answers buttons with a key no handler is registered for.
func (b *Bot) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.Answer(c, presenter.UnavailableNotice)
	}
}

var errUnknownDelivery = errors.New("bot: unknown delivery")
