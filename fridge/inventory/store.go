package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when an index does not address an item of the location.
	ErrIndexOutOfRange = errors.New("inventory: item index out of range")
	// ErrLocationFull is returned by Append when the location reached its capacity.
	ErrLocationFull = errors.New("inventory: location is full")
	// ErrUnknownLocation is returned for locations outside the fixed set.
	ErrUnknownLocation = errors.New("inventory: unknown location")
)

// Store maps every location to an ordered list of items. Insertion order is display order
// and the position in the list is the index used to address an item.
//
// A Store belongs to exactly one chat and is not safe for concurrent use; callers serialize
// access per chat.
type Store struct {
	// Limit caps the number of items per location; zero means unlimited.
	Limit int

	items map[Location][]Item
}

// NewStore returns an empty store with the given per-location capacity.
func NewStore(limit int) Store {
	if limit < 0 {
		limit = 0
	}
	return Store{Limit: limit}
}

// Len returns the number of items stored at loc.
func (s *Store) Len(loc Location) int {
	return len(s.items[loc])
}

// Total returns the number of items across all locations.
func (s *Store) Total() int {
	n := 0
	for _, list := range s.items {
		n += len(list)
	}
	return n
}

// Full reports whether another item can not be appended to loc.
func (s *Store) Full(loc Location) bool {
	return s.Limit > 0 && s.Len(loc) >= s.Limit
}

// Items returns a copy of the list stored at loc.
func (s *Store) Items(loc Location) []Item {
	list := s.items[loc]
	if len(list) == 0 {
		return nil
	}
	out := make([]Item, len(list))
	copy(out, list)
	return out
}

// Get returns the item at index i of loc.
func (s *Store) Get(loc Location, i int) (Item, error) {
	if err := s.check(loc, i); err != nil {
		return Item{}, err
	}
	return s.items[loc][i], nil
}

// Append adds it to the end of loc.
func (s *Store) Append(loc Location, it Item) error {
	if !loc.Valid() {
		return fmt.Errorf("append %d: %w", int(loc), ErrUnknownLocation)
	}
	if s.Full(loc) {
		return fmt.Errorf("append to %s: %w", loc.Key(), ErrLocationFull)
	}
	if s.items == nil {
		s.items = make(map[Location][]Item, len(allLocations))
	}
	s.items[loc] = append(s.items[loc], it)
	return nil
}

// Replace swaps the whole record at index i of loc for it.
func (s *Store) Replace(loc Location, i int, it Item) error {
	if err := s.check(loc, i); err != nil {
		return err
	}
	s.items[loc][i] = it
	return nil
}

// Remove deletes the item at index i of loc; later items shift down by one.
func (s *Store) Remove(loc Location, i int) (Item, error) {
	if err := s.check(loc, i); err != nil {
		return Item{}, err
	}
	list := s.items[loc]
	removed := list[i]
	list = append(list[:i], list[i+1:]...)
	if len(list) == 0 {
		delete(s.items, loc)
	} else {
		s.items[loc] = list
	}
	return removed, nil
}

func (s *Store) check(loc Location, i int) error {
	if !loc.Valid() {
		return fmt.Errorf("location %d: %w", int(loc), ErrUnknownLocation)
	}
	if i < 0 || i >= s.Len(loc) {
		return fmt.Errorf("%s[%d]: %w", loc.Key(), i, ErrIndexOutOfRange)
	}
	return nil
}
