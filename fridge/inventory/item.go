package inventory

import "fmt"

// NotAvailable marks an attribute that has not been set yet.
const NotAvailable = "N.A."

// Feature names one editable attribute of an Item.
type Feature int

const (
	Label Feature = iota + 1
	Quantity
	Expiry
)

var featureKeys = map[Feature]string{
	Label:    "label",
	Quantity: "qty",
	Expiry:   "expiry",
}

var featureNames = map[Feature]string{
	Label:    "Label",
	Quantity: "Quantity",
	Expiry:   "Expiry",
}

// Valid reports whether f is a known feature.
func (f Feature) Valid() bool {
	_, ok := featureKeys[f]
	return ok
}

// Key returns the stable identifier used in button tokens and logs.
func (f Feature) Key() string {
	return featureKeys[f]
}

func (f Feature) String() string {
	if n, ok := featureNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Feature(%d)", int(f))
}

// ParseFeature resolves a key produced by Feature.Key.
func ParseFeature(key string) (Feature, error) {
	for f, k := range featureKeys {
		if k == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("inventory: unknown feature %q", key)
}

// Item is a stored record. Quantity and Expiry are free text and are never parsed.
type Item struct {
	Label    string
	Quantity string
	Expiry   string
}

// NewItem returns an item with every attribute set to NotAvailable.
func NewItem() Item {
	return Item{Label: NotAvailable, Quantity: NotAvailable, Expiry: NotAvailable}
}

// Get returns the value stored under f.
func (it Item) Get(f Feature) string {
	switch f {
	case Label:
		return it.Label
	case Quantity:
		return it.Quantity
	case Expiry:
		return it.Expiry
	}
	return ""
}

// With returns a copy of it with f set to value. The receiver is left untouched.
func (it Item) With(f Feature, value string) Item {
	switch f {
	case Label:
		it.Label = value
	case Quantity:
		it.Quantity = value
	case Expiry:
		it.Expiry = value
	}
	return it
}
