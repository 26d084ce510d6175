package dialog

import (
	"fmt"

	"github.com/m3rciful/fridgebot/fridge/inventory"
	"github.com/m3rciful/fridgebot/fridge/presenter"
)

type editorState int

const (
	selectingFeature editorState = iota
	typing
)

// step is what a child machine returns for one event. When done is set the
// parent renders the follow-up view from result and resp is empty.
type step struct {
	resp   Response
	done   bool
	result Result
	// recovered carries an error the child already handled, for logging.
	recovered error
}

func finished(r Result) step { return step{done: true, result: r} }

// Editor builds one item by letting the user pick a feature and type its value,
// as many times as needed, until Done or Remove.
type Editor struct {
	target  Target
	draft   *inventory.Item
	state   editorState
	feature inventory.Feature
}

// NewEditor starts editing target. draft is the working copy for an existing item and nil for a new one.
func NewEditor(target Target, draft *inventory.Item) *Editor {
	e := &Editor{target: target}
	if draft != nil {
		d := *draft
		e.draft = &d
	}
	return e
}

func (e *Editor) changing() bool { return e.target.Purpose() == PurposeChange }

func (e *Editor) handleButton(store *inventory.Store, tok presenter.Token) (step, error) {
	if e.state == typing {
		return step{}, fmt.Errorf("%s while typing %s: %w", tok, e.feature.Key(), ErrUnexpectedToken)
	}
	switch {
	case tok.Is(presenter.ActionDone):
		return e.commit(store)
	case tok.Is(presenter.ActionRemove):
		return e.remove(store)
	}
	f, ok := tok.Feature()
	if !ok {
		return step{}, fmt.Errorf("%s in feature menu: %w", tok, ErrUnexpectedToken)
	}
	if e.draft == nil {
		d := inventory.NewItem()
		e.draft = &d
	}
	e.feature = f
	e.state = typing
	return step{resp: edit(presenter.FeaturePrompt(f, *e.draft))}, nil
}

func (e *Editor) handleText(text string) (step, error) {
	if e.state != typing {
		return step{}, ErrUnexpectedText
	}
	updated := e.draft.With(e.feature, text)
	e.draft = &updated
	e.feature = 0
	e.state = selectingFeature
	return step{resp: send(presenter.DescribeMenu(e.draft, e.changing()))}, nil
}

func (e *Editor) commit(store *inventory.Store) (step, error) {
	switch t := e.target.(type) {
	case AddingDraft:
		if e.draft == nil {
			return finished(ResultCancelled), nil
		}
		if err := store.Append(t.At, *e.draft); err != nil {
			return step{}, fmt.Errorf("%w: %w", ErrLocationFull, err)
		}
		e.draft = nil
		return finished(ResultAdded), nil
	case EditingAt:
		if err := store.Replace(t.At, t.Index, *e.draft); err != nil {
			return step{}, fmt.Errorf("%w: %w", ErrItemNotFound, err)
		}
		e.draft = nil
		return finished(ResultChanged), nil
	}
	return step{}, fmt.Errorf("commit without target: %w", ErrUnexpectedToken)
}

func (e *Editor) remove(store *inventory.Store) (step, error) {
	t, ok := e.target.(EditingAt)
	if !ok {
		return step{}, fmt.Errorf("remove on %s path: %w", e.target.Purpose(), ErrUnexpectedToken)
	}
	if _, err := store.Remove(t.At, t.Index); err != nil {
		return step{}, fmt.Errorf("%w: %w", ErrItemNotFound, err)
	}
	e.draft = nil
	return finished(ResultRemoved), nil
}
