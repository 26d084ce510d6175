package inventory

import (
	"errors"
	"testing"
)

func item(label string) Item {
	return NewItem().With(Label, label)
}

func TestStoreAppendGrowsByOne(t *testing.T) {
	for _, loc := range Locations() {
		s := NewStore(0)
		_ = s.Append(loc, item("first"))
		before := s.Len(loc)

		want := Item{Label: "Milk", Quantity: "2L", Expiry: "2024-01-01"}
		if err := s.Append(loc, want); err != nil {
			t.Fatalf("%s: append: %v", loc, err)
		}
		list := s.Items(loc)
		if len(list) != before+1 {
			t.Fatalf("%s: len = %d, want %d", loc, len(list), before+1)
		}
		if list[len(list)-1] != want {
			t.Fatalf("%s: last = %+v, want %+v", loc, list[len(list)-1], want)
		}
	}
}

func TestStoreReplaceKeepsNeighbours(t *testing.T) {
	s := NewStore(0)
	for _, l := range []string{"a", "b", "c"} {
		_ = s.Append(Chiller, item(l))
	}
	repl := Item{Label: "B", Quantity: "1", Expiry: "tomorrow"}
	if err := s.Replace(Chiller, 1, repl); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got := s.Items(Chiller)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Label != "a" || got[2].Label != "c" {
		t.Fatalf("neighbours changed: %+v", got)
	}
	if got[1] != repl {
		t.Fatalf("item 1 = %+v, want %+v", got[1], repl)
	}
}

func TestStoreRemoveShiftsDown(t *testing.T) {
	s := NewStore(0)
	for _, l := range []string{"a", "b", "c"} {
		_ = s.Append(FridgeTop, item(l))
	}
	removed, err := s.Remove(FridgeTop, 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.Label != "a" {
		t.Fatalf("removed %q, want a", removed.Label)
	}
	got := s.Items(FridgeTop)
	if len(got) != 2 || got[0].Label != "b" || got[1].Label != "c" {
		t.Fatalf("after remove: %+v", got)
	}

	_, _ = s.Remove(FridgeTop, 1)
	_, _ = s.Remove(FridgeTop, 0)
	if s.Len(FridgeTop) != 0 || s.Items(FridgeTop) != nil {
		t.Fatalf("expected empty location, got %+v", s.Items(FridgeTop))
	}
}

func TestStoreAddressingErrors(t *testing.T) {
	s := NewStore(0)
	_ = s.Append(VegArea, item("carrots"))

	cases := []struct {
		name string
		run  func() error
		want error
	}{
		{"get negative", func() error { _, err := s.Get(VegArea, -1); return err }, ErrIndexOutOfRange},
		{"replace past end", func() error { return s.Replace(VegArea, 1, NewItem()) }, ErrIndexOutOfRange},
		{"remove empty location", func() error { _, err := s.Remove(Chiller, 0); return err }, ErrIndexOutOfRange},
		{"unknown location", func() error { return s.Append(Location(42), NewItem()) }, ErrUnknownLocation},
	}
	for _, tc := range cases {
		if err := tc.run(); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
	if s.Len(VegArea) != 1 {
		t.Fatalf("failed operations must not mutate the store")
	}
}

func TestStoreLimit(t *testing.T) {
	s := NewStore(2)
	_ = s.Append(Chiller, item("a"))
	_ = s.Append(Chiller, item("b"))
	if !s.Full(Chiller) {
		t.Fatal("expected chiller to be full")
	}
	if err := s.Append(Chiller, item("c")); !errors.Is(err, ErrLocationFull) {
		t.Fatalf("err = %v, want ErrLocationFull", err)
	}
	if s.Full(VegArea) {
		t.Fatal("limit is per location")
	}
	if s.Total() != 2 {
		t.Fatalf("total = %d, want 2", s.Total())
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	s := NewStore(0)
	_ = s.Append(Chiller, item("a"))
	list := s.Items(Chiller)
	list[0].Label = "mutated"
	if got, _ := s.Get(Chiller, 0); got.Label != "a" {
		t.Fatalf("store mutated through Items copy: %+v", got)
	}
}

func TestItemDefaultsAndWith(t *testing.T) {
	it := NewItem()
	for _, f := range []Feature{Label, Quantity, Expiry} {
		if it.Get(f) != NotAvailable {
			t.Fatalf("%s default = %q", f, it.Get(f))
		}
	}
	next := it.With(Quantity, "5")
	if it.Quantity != NotAvailable {
		t.Fatal("With must not mutate the receiver")
	}
	if next.Quantity != "5" || next.Label != NotAvailable {
		t.Fatalf("unexpected item %+v", next)
	}
}

func TestParseRoundTrip(t *testing.T) {
	seen := map[string]bool{}
	for _, loc := range Locations() {
		if seen[loc.Key()] {
			t.Fatalf("duplicate key %q", loc.Key())
		}
		seen[loc.Key()] = true
		got, err := ParseLocation(loc.Key())
		if err != nil || got != loc {
			t.Fatalf("ParseLocation(%q) = %v, %v", loc.Key(), got, err)
		}
	}
	if len(seen) != 8 {
		t.Fatalf("expected 8 locations, got %d", len(seen))
	}
	if _, err := ParseLocation("garage"); err == nil {
		t.Fatal("expected error for unknown location")
	}
	for _, f := range []Feature{Label, Quantity, Expiry} {
		got, err := ParseFeature(f.Key())
		if err != nil || got != f {
			t.Fatalf("ParseFeature(%q) = %v, %v", f.Key(), got, err)
		}
	}
}
