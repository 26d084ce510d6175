package dialog

import (
	"github.com/m3rciful/fridgebot/fridge/inventory"
)

// State is the state of the top-level machine.
type State int

const (
	StateIdle State = iota
	StateSelectingAction
	StateShowing
	// StateNested means a Selector owns the session.
	StateNested
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelectingAction:
		return "selecting_action"
	case StateShowing:
		return "showing"
	case StateNested:
		return "nested"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Purpose is the intent of the nested flow.
type Purpose int

const (
	PurposeNone Purpose = iota
	PurposeAdd
	PurposeChange
)

func (p Purpose) String() string {
	switch p {
	case PurposeAdd:
		return "add"
	case PurposeChange:
		return "change"
	}
	return ""
}

// Result is what a finished child machine hands back to its parent.
type Result int

const (
	ResultAdded Result = iota + 1
	ResultChanged
	ResultRemoved
	ResultCancelled
)

func (r Result) String() string {
	switch r {
	case ResultAdded:
		return "added"
	case ResultChanged:
		return "changed"
	case ResultRemoved:
		return "removed"
	case ResultCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Target is what the Editor writes to: a new item at a location, or an existing one.
type Target interface {
	Location() inventory.Location
	Purpose() Purpose
	isTarget()
}

// AddingDraft targets a new item appended to At on commit.
type AddingDraft struct {
	At inventory.Location
}

func (t AddingDraft) Location() inventory.Location { return t.At }
func (AddingDraft) Purpose() Purpose               { return PurposeAdd }
func (AddingDraft) isTarget()                      {}

// EditingAt targets the item at Index of At, replaced wholesale on commit.
type EditingAt struct {
	At    inventory.Location
	Index int
}

func (t EditingAt) Location() inventory.Location { return t.At }
func (EditingAt) Purpose() Purpose               { return PurposeChange }
func (EditingAt) isTarget()                      {}

// Session is the per-chat conversation state together with the chat's inventory.
type Session struct {
	// ID identifies the current conversation; it changes on every /start.
	ID        string
	State     State
	StartOver bool
	Inventory inventory.Store

	selector *Selector
}

// NewSession returns an idle session whose locations hold at most limit items each.
func NewSession(limit int) Session {
	return Session{State: StateIdle, Inventory: inventory.NewStore(limit)}
}

// Active reports whether a conversation is running.
func (s *Session) Active() bool {
	return s.State != StateIdle && s.State != StateStopped
}

// Typing reports whether the next free-text message is a feature value.
func (s *Session) Typing() bool {
	return s.State == StateNested && s.selector != nil && s.selector.typing()
}

// Snapshot is a read-only view of the session fields, flattened for logs and tests.
type Snapshot struct {
	State     State
	Purpose   Purpose
	Location  inventory.Location
	ItemIndex int
	Feature   inventory.Feature
	Draft     *inventory.Item
	StartOver bool
}

// Snapshot flattens the nested machines. ItemIndex is -1 unless an existing item is being edited.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{State: s.State, ItemIndex: -1, StartOver: s.StartOver}
	sel := s.selector
	if s.State != StateNested || sel == nil {
		return snap
	}
	snap.Purpose = sel.purpose
	snap.Location = sel.location
	if ed := sel.editor; ed != nil {
		if t, ok := ed.target.(EditingAt); ok {
			snap.ItemIndex = t.Index
		}
		if ed.state == typing {
			snap.Feature = ed.feature
		}
		if ed.draft != nil {
			d := *ed.draft
			snap.Draft = &d
		}
	}
	return snap
}
