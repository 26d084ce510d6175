package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/m3rciful/fridgebot/core/logger"
	"github.com/m3rciful/fridgebot/fridge/presenter"
)

const component = "dialog"

// Options configures a Machine.
type Options struct {
	// NewID returns a conversation id. Defaults to a random UUID.
	NewID func() string
}

// Machine is the top-level conversation state machine. It is stateless itself;
// all state lives in the Session passed to Handle.
type Machine struct {
	newID func() string
}

// NewMachine builds a Machine from opts.
func NewMachine(opts Options) *Machine {
	m := &Machine{newID: opts.NewID}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	return m
}

// Handle applies ev to s and returns what must be emitted. Callers serialize
// calls per session.
func (m *Machine) Handle(ctx context.Context, s *Session, ev Event) Response {
	from := s.State
	resp := m.dispatch(ctx, s, ev)
	logTransition(ctx, s, ev, from)
	return resp
}

func (m *Machine) dispatch(ctx context.Context, s *Session, ev Event) Response {
	switch ev.Kind {
	case EventCommand:
		switch ev.Command {
		case CommandStart:
			s.StartOver = false
			s.ID = m.newID()
			return m.start(s)
		case CommandStop:
			return m.stop(s)
		}
		return Response{}
	case EventButton:
		return m.button(ctx, s, ev.Token)
	case EventText:
		return m.text(ctx, s, ev.Text)
	}
	return Response{}
}

// start opens the action menu. After a view that replaced the menu message the
// menu is edited in; otherwise the greeting and menu are sent.
func (m *Machine) start(s *Session) Response {
	s.selector = nil
	s.State = StateSelectingAction
	if s.StartOver {
		s.StartOver = false
		return edit(presenter.ActionMenu(""))
	}
	return send(presenter.Greeting(), presenter.ActionMenu(""))
}

func (m *Machine) stop(s *Session) Response {
	s.selector = nil
	s.State = StateStopped
	s.StartOver = false
	return respond(presenter.Farewell())
}

func (m *Machine) button(ctx context.Context, s *Session, tok presenter.Token) Response {
	switch s.State {
	case StateIdle, StateStopped:
		return Response{Notice: presenter.StartHintText}

	case StateSelectingAction:
		switch {
		case tok.Is(presenter.ActionAdd):
			return m.enter(s, PurposeAdd)
		case tok.Is(presenter.ActionChange):
			return m.enter(s, PurposeChange)
		case tok.Is(presenter.ActionShow):
			s.State = StateShowing
			s.StartOver = true
			return edit(presenter.ShowData(&s.Inventory))
		case tok.Is(presenter.ActionStop):
			return m.stop(s)
		}

	case StateShowing:
		if tok.Is(presenter.ActionBack) {
			return m.start(s)
		}

	case StateNested:
		if s.selector == nil {
			break
		}
		st, err := s.selector.handleButton(s, tok)
		if err != nil {
			return m.recover(ctx, s, err)
		}
		return m.child(ctx, s, st)
	}
	return m.recover(ctx, s, fmt.Errorf("%s in %s: %w", tok, s.State, ErrUnexpectedToken))
}

// text feeds a typed value to the running selector. Slash commands nobody
// registered are never taken as a value and leave the state unchanged.
func (m *Machine) text(ctx context.Context, s *Session, text string) Response {
	if s.State == StateNested && s.selector != nil && !strings.HasPrefix(strings.TrimSpace(text), "/") {
		st, err := s.selector.handleText(text)
		if err != nil {
			return m.recover(ctx, s, err)
		}
		return m.child(ctx, s, st)
	}
	if s.Active() {
		return send(presenter.Hint(presenter.ButtonsHint))
	}
	return send(presenter.Hint(presenter.StartHintText))
}

func (m *Machine) enter(s *Session, p Purpose) Response {
	s.selector = NewSelector(p)
	s.State = StateNested
	return s.selector.enter()
}

func (m *Machine) child(ctx context.Context, s *Session, st step) Response {
	if st.recovered != nil {
		logger.Warn(ctx, component, "dialog.recovered",
			slog.String("session_id", s.ID),
			slog.String("err", st.recovered.Error()),
		)
	}
	if !st.done {
		return st.resp
	}
	return m.finish(ctx, s, st.result)
}

// finish consumes a child Result and returns to the action menu.
func (m *Machine) finish(ctx context.Context, s *Session, r Result) Response {
	purpose := PurposeNone
	if s.selector != nil {
		purpose = s.selector.purpose
	}
	logger.Info(ctx, component, "dialog.finished",
		slog.String("session_id", s.ID),
		slog.String("purpose", purpose.String()),
		slog.String("result", r.String()),
		slog.Int("items", s.Inventory.Total()),
	)
	s.selector = nil
	s.State = StateSelectingAction
	switch r {
	case ResultAdded, ResultChanged:
		return edit(presenter.ActionMenu(presenter.SavedHeadline))
	case ResultRemoved:
		return edit(presenter.ActionMenu(presenter.DeletedHeadline))
	}
	// Cancellation always comes from a button on the current message.
	s.StartOver = true
	return m.start(s)
}

// recover maps dialog errors onto a view: stray text gets a hint, anything
// else resets the conversation to the action menu.
func (m *Machine) recover(ctx context.Context, s *Session, err error) Response {
	if errors.Is(err, ErrUnexpectedText) {
		return send(presenter.Hint(presenter.ButtonsHint))
	}
	logger.Warn(ctx, component, "dialog.reset",
		slog.String("session_id", s.ID),
		slog.String("state", s.State.String()),
		slog.String("err", err.Error()),
	)
	s.selector = nil
	s.State = StateSelectingAction
	s.StartOver = false
	return edit(presenter.NoticeMenu(presenter.UnavailableNotice))
}

func logTransition(ctx context.Context, s *Session, ev Event, from State) {
	snap := s.Snapshot()
	attrs := []slog.Attr{
		slog.String("session_id", s.ID),
		slog.String("kind", ev.Kind.String()),
		slog.String("state_from", from.String()),
		slog.String("state_to", snap.State.String()),
	}
	if snap.Purpose != PurposeNone {
		attrs = append(attrs, slog.String("purpose", snap.Purpose.String()))
	}
	if snap.Location.Valid() {
		attrs = append(attrs, slog.String("location", snap.Location.Key()))
	}
	if snap.ItemIndex >= 0 {
		attrs = append(attrs, slog.Int("item_index", snap.ItemIndex))
	}
	if snap.Feature.Valid() {
		attrs = append(attrs, slog.String("feature", snap.Feature.Key()))
	}
	logger.Debug(ctx, component, "dialog.transition", attrs...)
}
