package dialog

import (
	"errors"
	"fmt"

	"github.com/m3rciful/fridgebot/fridge/inventory"
	"github.com/m3rciful/fridgebot/fridge/presenter"
)

type selectorState int

const (
	choosingLocation selectorState = iota
	choosingItem
	editing
)

// Selector resolves a location, and on the Change path an item, then runs an Editor on it.
type Selector struct {
	purpose  Purpose
	state    selectorState
	location inventory.Location
	editor   *Editor
}

// NewSelector starts a selection for purpose.
func NewSelector(purpose Purpose) *Selector {
	return &Selector{purpose: purpose}
}

func (sel *Selector) changing() bool { return sel.purpose == PurposeChange }

func (sel *Selector) typing() bool {
	return sel.state == editing && sel.editor != nil && sel.editor.state == typing
}

func (sel *Selector) enter() Response {
	return edit(presenter.LocationMenu(sel.changing(), ""))
}

func (sel *Selector) handleButton(s *Session, tok presenter.Token) (step, error) {
	switch sel.state {
	case choosingLocation:
		if tok.Is(presenter.ActionBack) {
			return finished(ResultCancelled), nil
		}
		loc, ok := tok.Location()
		if !ok {
			return step{}, fmt.Errorf("%s in location menu: %w", tok, ErrUnexpectedToken)
		}
		if !sel.changing() {
			if s.Inventory.Full(loc) {
				return step{
					resp:      edit(presenter.LocationMenu(false, presenter.FullNotice(loc))),
					recovered: fmt.Errorf("%s: %w", loc.Key(), ErrLocationFull),
				}, nil
			}
			sel.location = loc
			sel.editor = NewEditor(AddingDraft{At: loc}, nil)
			sel.state = editing
			return step{resp: edit(presenter.DescribeMenu(nil, false))}, nil
		}
		sel.location = loc
		return sel.chooseItem(s, ""), nil

	case choosingItem:
		if tok.Is(presenter.ActionBack) {
			return finished(ResultCancelled), nil
		}
		i, ok := tok.Index()
		if !ok {
			return step{}, fmt.Errorf("%s in item list: %w", tok, ErrUnexpectedToken)
		}
		it, err := s.Inventory.Get(sel.location, i)
		if err != nil {
			st := sel.chooseItem(s, presenter.ItemGoneNotice)
			st.recovered = fmt.Errorf("%w: %w", ErrItemNotFound, err)
			return st, nil
		}
		sel.editor = NewEditor(EditingAt{At: sel.location, Index: i}, &it)
		sel.state = editing
		return step{resp: edit(presenter.EditMenu(it))}, nil

	case editing:
		st, err := sel.editor.handleButton(&s.Inventory, tok)
		if errors.Is(err, ErrItemNotFound) {
			st = sel.chooseItem(s, presenter.ItemGoneNotice)
			st.recovered = err
			return st, nil
		}
		return st, err
	}
	return step{}, fmt.Errorf("%s: %w", tok, ErrUnexpectedToken)
}

func (sel *Selector) handleText(text string) (step, error) {
	if sel.state != editing || sel.editor == nil {
		return step{}, ErrUnexpectedText
	}
	return sel.editor.handleText(text)
}

// chooseItem shows the items of the selected location. The list replaces the
// location menu, so a later return to the action menu edits in place.
func (sel *Selector) chooseItem(s *Session, notice string) step {
	sel.state = choosingItem
	sel.editor = nil
	s.StartOver = true
	return step{resp: edit(presenter.ItemList(s.Inventory.Items(sel.location), notice))}
}
