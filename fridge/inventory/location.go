package inventory

import "fmt"

// Location is one of the fixed storage compartments of the fridge.
type Location int

const (
	FreezerTop Location = iota + 1
	FreezerBottom
	FreezerSide
	Chiller
	FridgeTop
	FridgeBottom
	FridgeSide
	VegArea
)

var allLocations = [...]Location{
	FreezerTop,
	FreezerBottom,
	FreezerSide,
	Chiller,
	FridgeTop,
	FridgeBottom,
	FridgeSide,
	VegArea,
}

var locationKeys = map[Location]string{
	FreezerTop:    "freezer_top",
	FreezerBottom: "freezer_bottom",
	FreezerSide:   "freezer_side",
	Chiller:       "chiller",
	FridgeTop:     "fridge_top",
	FridgeBottom:  "fridge_bottom",
	FridgeSide:    "fridge_side",
	VegArea:       "veg_area",
}

var locationNames = map[Location]string{
	FreezerTop:    "Freezer Top",
	FreezerBottom: "Freezer Bottom",
	FreezerSide:   "Freezer Side",
	Chiller:       "Chiller",
	FridgeTop:     "Fridge Top",
	FridgeBottom:  "Fridge Bottom",
	FridgeSide:    "Fridge Side",
	VegArea:       "Veg Area",
}

// Locations returns every location in display order.
func Locations() []Location {
	out := make([]Location, len(allLocations))
	copy(out, allLocations[:])
	return out
}

// Valid reports whether l is one of the known locations.
func (l Location) Valid() bool {
	_, ok := locationKeys[l]
	return ok
}

// Key returns the stable machine identifier used in button tokens and logs.
func (l Location) Key() string {
	if k, ok := locationKeys[l]; ok {
		return k
	}
	return ""
}

// String returns the human readable name.
func (l Location) String() string {
	if n, ok := locationNames[l]; ok {
		return n
	}
	return fmt.Sprintf("Location(%d)", int(l))
}

// ParseLocation resolves a key produced by Location.Key.
func ParseLocation(key string) (Location, error) {
	for l, k := range locationKeys {
		if k == key {
			return l, nil
		}
	}
	return 0, fmt.Errorf("inventory: unknown location %q", key)
}
