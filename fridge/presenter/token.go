package presenter

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/m3rciful/fridgebot/fridge/inventory"
)

// ErrUnknownToken is returned when a button token is not one this package issued.
var ErrUnknownToken = errors.New("presenter: unknown token")

// Kind separates the token namespaces. Each kind is registered as its own callback
// unique, so an item index can never be mistaken for an action.
type Kind string

const (
	KindAction   Kind = "act"
	KindLocation Kind = "loc"
	KindFeature  Kind = "feat"
	KindItem     Kind = "item"
)

// Kinds lists every token kind.
func Kinds() []Kind {
	return []Kind{KindAction, KindLocation, KindFeature, KindItem}
}

// Action is a fixed menu command.
type Action string

const (
	ActionAdd    Action = "add"
	ActionChange Action = "change"
	ActionShow   Action = "show"
	ActionStop   Action = "stop"
	ActionDone   Action = "done"
	ActionRemove Action = "remove"
	ActionBack   Action = "back"
)

var knownActions = map[Action]struct{}{
	ActionAdd:    {},
	ActionChange: {},
	ActionShow:   {},
	ActionStop:   {},
	ActionDone:   {},
	ActionRemove: {},
	ActionBack:   {},
}

// Token is the opaque value attached to a button and echoed back when it is pressed.
type Token struct {
	Kind  Kind
	Value string
}

func ActionToken(a Action) Token { return Token{Kind: KindAction, Value: string(a)} }

func LocationToken(l inventory.Location) Token { return Token{Kind: KindLocation, Value: l.Key()} }

func FeatureToken(f inventory.Feature) Token { return Token{Kind: KindFeature, Value: f.Key()} }

func ItemToken(i int) Token { return Token{Kind: KindItem, Value: strconv.Itoa(i)} }

func (t Token) String() string {
	return string(t.Kind) + "|" + t.Value
}

// ParseToken validates a kind/value pair received from the transport.
func ParseToken(kind, value string) (Token, error) {
	t := Token{Kind: Kind(kind), Value: value}
	var ok bool
	switch t.Kind {
	case KindAction:
		_, ok = t.Action()
	case KindLocation:
		_, ok = t.Location()
	case KindFeature:
		_, ok = t.Feature()
	case KindItem:
		_, ok = t.Index()
	}
	if !ok {
		return Token{}, fmt.Errorf("%q: %w", t.String(), ErrUnknownToken)
	}
	return t, nil
}

// Action returns the action carried by an action token.
func (t Token) Action() (Action, bool) {
	if t.Kind != KindAction {
		return "", false
	}
	a := Action(t.Value)
	_, ok := knownActions[a]
	return a, ok
}

// Location returns the location carried by a location token.
func (t Token) Location() (inventory.Location, bool) {
	if t.Kind != KindLocation {
		return 0, false
	}
	l, err := inventory.ParseLocation(t.Value)
	return l, err == nil
}

// Feature returns the feature carried by a feature token.
func (t Token) Feature() (inventory.Feature, bool) {
	if t.Kind != KindFeature {
		return 0, false
	}
	f, err := inventory.ParseFeature(t.Value)
	return f, err == nil
}

// Index returns the item index carried by an item token.
func (t Token) Index() (int, bool) {
	if t.Kind != KindItem {
		return 0, false
	}
	i, err := strconv.Atoi(t.Value)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// Is reports whether t is the action token for a.
func (t Token) Is(a Action) bool {
	got, ok := t.Action()
	return ok && got == a
}
