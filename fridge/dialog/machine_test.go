package dialog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/m3rciful/fridgebot/fridge/inventory"
	"github.com/m3rciful/fridgebot/fridge/presenter"
)

type harness struct {
	t *testing.T
	m *Machine
	s Session
	n int
}

func newHarness(t *testing.T, limit int) *harness {
	t.Helper()
	h := &harness{t: t, s: NewSession(limit)}
	h.m = NewMachine(Options{NewID: func() string {
		h.n++
		return fmt.Sprintf("conv-%d", h.n)
	}})
	return h
}

func (h *harness) command(c Command) Response {
	return h.m.Handle(context.Background(), &h.s, CommandEvent(c))
}

func (h *harness) press(tok presenter.Token) Response {
	return h.m.Handle(context.Background(), &h.s, ButtonEvent(tok))
}

func (h *harness) text(v string) Response {
	return h.m.Handle(context.Background(), &h.s, TextEvent(v))
}

func (h *harness) addItem(loc inventory.Location, values map[inventory.Feature]string) {
	h.t.Helper()
	h.press(presenter.ActionToken(presenter.ActionAdd))
	h.press(presenter.LocationToken(loc))
	for _, f := range []inventory.Feature{inventory.Label, inventory.Quantity, inventory.Expiry} {
		v, ok := values[f]
		if !ok {
			continue
		}
		h.press(presenter.FeatureToken(f))
		h.text(v)
	}
	resp := h.press(presenter.ActionToken(presenter.ActionDone))
	if got := single(h.t, resp).View.Text; got != presenter.SavedHeadline {
		h.t.Fatalf("add commit headline: got %q", got)
	}
}

func single(t *testing.T, resp Response) Message {
	t.Helper()
	if len(resp.Messages) != 1 {
		t.Fatalf("expected one message, got %d: %+v", len(resp.Messages), resp)
	}
	return resp.Messages[0]
}

func TestStartSendsGreetingAndMenu(t *testing.T) {
	h := newHarness(t, 0)
	resp := h.command(CommandStart)
	if len(resp.Messages) != 2 {
		t.Fatalf("expected greeting and menu, got %d messages", len(resp.Messages))
	}
	for _, msg := range resp.Messages {
		if msg.Delivery != DeliverSend {
			t.Fatalf("start must send new messages, got %s", msg.Delivery)
		}
	}
	if resp.Messages[1].View.Buttons() != 4 {
		t.Fatalf("menu buttons: got %d", resp.Messages[1].View.Buttons())
	}
	if h.s.State != StateSelectingAction || h.s.ID != "conv-1" {
		t.Fatalf("unexpected session after start: %+v", h.s)
	}
	h.command(CommandStart)
	if h.s.ID != "conv-2" {
		t.Fatalf("restart should assign a new id, got %q", h.s.ID)
	}
}

func TestAddScenarioDefaultsMissingFeatures(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	h.addItem(inventory.VegArea, map[inventory.Feature]string{
		inventory.Label:    "Carrots",
		inventory.Quantity: "5",
	})
	want := []inventory.Item{{Label: "Carrots", Quantity: "5", Expiry: inventory.NotAvailable}}
	if got := h.s.Inventory.Items(inventory.VegArea); !reflect.DeepEqual(got, want) {
		t.Fatalf("VegArea: got %+v want %+v", got, want)
	}
	if h.s.State != StateSelectingAction {
		t.Fatalf("expected action menu after commit, got %s", h.s.State)
	}
	if snap := h.s.Snapshot(); snap.Draft != nil || snap.Purpose != PurposeNone {
		t.Fatalf("draft should be cleared after commit: %+v", snap)
	}
}

func TestAddAppendsAtEnd(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	h.addItem(inventory.FridgeTop, map[inventory.Feature]string{inventory.Label: "Eggs"})
	h.addItem(inventory.FridgeTop, map[inventory.Feature]string{inventory.Label: "Jam"})
	items := h.s.Inventory.Items(inventory.FridgeTop)
	if len(items) != 2 || items[1].Label != "Jam" {
		t.Fatalf("expected Jam appended last, got %+v", items)
	}
}

func TestAddThenShowRoundTrip(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	h.addItem(inventory.FridgeSide, map[inventory.Feature]string{
		inventory.Label:    "Milk",
		inventory.Quantity: "2L",
		inventory.Expiry:   "2024-01-01",
	})
	msg := single(t, h.press(presenter.ActionToken(presenter.ActionShow)))
	if msg.Delivery != DeliverEdit {
		t.Fatalf("show should edit, got %s", msg.Delivery)
	}
	if !strings.Contains(msg.View.Text, "Fridge Side:\nMilk | 2L | 2024-01-01") {
		t.Fatalf("show data missing item:\n%s", msg.View.Text)
	}
	if h.s.State != StateShowing || !h.s.StartOver {
		t.Fatalf("unexpected session after show: %+v", h.s)
	}
}

func TestFeaturePromptEchoesDraft(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	h.press(presenter.ActionToken(presenter.ActionAdd))
	if msg := single(t, h.press(presenter.LocationToken(inventory.Chiller))); msg.View.Text != "Okay, please describe your entry." {
		t.Fatalf("describe menu text: %q", msg.View.Text)
	}
	msg := single(t, h.press(presenter.FeatureToken(inventory.Quantity)))
	if msg.View.Text != "Type out the Quantity!\nCurrent Item: \nN.A. | N.A. | N.A." {
		t.Fatalf("prompt text: %q", msg.View.Text)
	}
	if !h.s.Typing() {
		t.Fatal("expected typing state")
	}
	msg = single(t, h.text("3 bottles"))
	if msg.Delivery != DeliverSend {
		t.Fatalf("typed value reply should be a new message, got %s", msg.Delivery)
	}
	if !strings.HasSuffix(msg.View.Text, "N.A. | 3 bottles | N.A.") {
		t.Fatalf("describe menu should echo draft: %q", msg.View.Text)
	}
}

func TestSlashTextWhileTypingIsNotAValue(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	h.press(presenter.ActionToken(presenter.ActionAdd))
	h.press(presenter.LocationToken(inventory.Chiller))
	h.press(presenter.FeatureToken(inventory.Label))

	if got := single(t, h.text("/foo")).View.Text; got != presenter.ButtonsHint {
		t.Fatalf("slash text: got %q", got)
	}
	if !h.s.Typing() {
		t.Fatal("slash text must keep the typing state")
	}
	msg := single(t, h.text("Milk"))
	if !strings.HasSuffix(msg.View.Text, "Milk | N.A. | N.A.") {
		t.Fatalf("value after slash text: %q", msg.View.Text)
	}
}

func TestChangeReplacesOnlySelectedItem(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	for _, l := range []string{"A", "B", "C"} {
		h.addItem(inventory.FridgeBottom, map[inventory.Feature]string{inventory.Label: l})
	}
	h.press(presenter.ActionToken(presenter.ActionChange))
	list := single(t, h.press(presenter.LocationToken(inventory.FridgeBottom)))
	if list.View.Buttons() != 4 {
		t.Fatalf("item list should hold three items and Back, got %d buttons", list.View.Buttons())
	}
	msg := single(t, h.press(presenter.ItemToken(1)))
	if !strings.HasSuffix(msg.View.Text, "B | N.A. | N.A.") {
		t.Fatalf("edit menu should show the item: %q", msg.View.Text)
	}
	if snap := h.s.Snapshot(); snap.ItemIndex != 1 || snap.Location != inventory.FridgeBottom || snap.Purpose != PurposeChange {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	h.press(presenter.FeatureToken(inventory.Quantity))
	h.text("7")
	if got := h.s.Inventory.Items(inventory.FridgeBottom)[1].Quantity; got != inventory.NotAvailable {
		t.Fatalf("store must not change before Done, got %q", got)
	}
	resp := single(t, h.press(presenter.ActionToken(presenter.ActionDone)))
	if resp.View.Text != presenter.SavedHeadline {
		t.Fatalf("expected saved headline, got %q", resp.View.Text)
	}
	want := []inventory.Item{
		{Label: "A", Quantity: "N.A.", Expiry: "N.A."},
		{Label: "B", Quantity: "7", Expiry: "N.A."},
		{Label: "C", Quantity: "N.A.", Expiry: "N.A."},
	}
	if got := h.s.Inventory.Items(inventory.FridgeBottom); !reflect.DeepEqual(got, want) {
		t.Fatalf("drawer: got %+v want %+v", got, want)
	}
}

func TestChangeRemoveLastItem(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	h.addItem(inventory.FreezerSide, map[inventory.Feature]string{inventory.Label: "Peas"})
	h.press(presenter.ActionToken(presenter.ActionChange))
	h.press(presenter.LocationToken(inventory.FreezerSide))
	h.press(presenter.ItemToken(0))
	msg := single(t, h.press(presenter.ActionToken(presenter.ActionRemove)))
	if msg.View.Text != presenter.DeletedHeadline || msg.View.Buttons() != 4 {
		t.Fatalf("expected post-action menu, got %+v", msg.View)
	}
	if n := h.s.Inventory.Len(inventory.FreezerSide); n != 0 {
		t.Fatalf("expected empty location, got %d items", n)
	}
	if h.s.State != StateSelectingAction {
		t.Fatalf("expected action menu, got %s", h.s.State)
	}
}

func TestStopWhileTyping(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	h.press(presenter.ActionToken(presenter.ActionAdd))
	h.press(presenter.LocationToken(inventory.Chiller))
	h.press(presenter.FeatureToken(inventory.Label))

	msg := single(t, h.command(CommandStop))
	if msg.Delivery != DeliverRespond || msg.View.Text != presenter.FarewellText {
		t.Fatalf("unexpected farewell: %+v", msg)
	}
	if h.s.Typing() || h.s.Active() {
		t.Fatal("session should be stopped")
	}
	resp := h.text("Butter")
	if got := single(t, resp).View.Text; got != presenter.StartHintText {
		t.Fatalf("text after stop: got %q", got)
	}
	if h.s.Inventory.Total() != 0 {
		t.Fatal("nothing should be committed")
	}
	if resp := h.press(presenter.FeatureToken(inventory.Label)); resp.Notice != presenter.StartHintText || len(resp.Messages) != 0 {
		t.Fatalf("button after stop: %+v", resp)
	}
}

func TestMenuContentIndependentOfStartOver(t *testing.T) {
	h := newHarness(t, 0)
	fresh := h.command(CommandStart).Messages[1]
	h.press(presenter.ActionToken(presenter.ActionShow))
	back := single(t, h.press(presenter.ActionToken(presenter.ActionBack)))
	if back.Delivery != DeliverEdit || fresh.Delivery != DeliverSend {
		t.Fatalf("deliveries: fresh=%s back=%s", fresh.Delivery, back.Delivery)
	}
	if !reflect.DeepEqual(fresh.View, back.View) {
		t.Fatalf("menu content differs:\n%+v\n%+v", fresh.View, back.View)
	}
	if h.s.StartOver {
		t.Fatal("start should reset StartOver")
	}
}

func TestStaleTokenResetsToMenu(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	msg := single(t, h.press(presenter.ItemToken(4)))
	if msg.Delivery != DeliverEdit || !strings.HasPrefix(msg.View.Text, presenter.UnavailableNotice) {
		t.Fatalf("expected reset menu, got %+v", msg)
	}
	if h.s.State != StateSelectingAction {
		t.Fatalf("got %s", h.s.State)
	}
}

func TestButtonWhileTypingResets(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	h.press(presenter.ActionToken(presenter.ActionAdd))
	h.press(presenter.LocationToken(inventory.Chiller))
	h.press(presenter.FeatureToken(inventory.Label))
	h.press(presenter.ActionToken(presenter.ActionDone))
	if h.s.State != StateSelectingAction || h.s.Inventory.Total() != 0 {
		t.Fatalf("expected reset without commit: %+v", h.s)
	}
}

func TestTextOutsideTypingHints(t *testing.T) {
	h := newHarness(t, 0)
	if got := single(t, h.text("hi")).View.Text; got != presenter.StartHintText {
		t.Fatalf("idle text: %q", got)
	}
	h.command(CommandStart)
	if got := single(t, h.text("hi")).View.Text; got != presenter.ButtonsHint {
		t.Fatalf("menu text: %q", got)
	}
	h.press(presenter.ActionToken(presenter.ActionAdd))
	if got := single(t, h.text("hi")).View.Text; got != presenter.ButtonsHint {
		t.Fatalf("location menu text: %q", got)
	}
	if h.s.State != StateNested {
		t.Fatalf("stray text must not leave the flow, got %s", h.s.State)
	}
}

func TestAddIntoFullLocationStaysOnPicker(t *testing.T) {
	h := newHarness(t, 1)
	h.command(CommandStart)
	h.addItem(inventory.Chiller, map[inventory.Feature]string{inventory.Label: "Ketchup"})
	h.press(presenter.ActionToken(presenter.ActionAdd))
	msg := single(t, h.press(presenter.LocationToken(inventory.Chiller)))
	if !strings.HasPrefix(msg.View.Text, presenter.FullNotice(inventory.Chiller)) {
		t.Fatalf("expected full notice, got %q", msg.View.Text)
	}
	if snap := h.s.Snapshot(); snap.State != StateNested || snap.Location.Valid() {
		t.Fatalf("should remain on location picker: %+v", snap)
	}
}

func TestStaleItemIndexShowsListAgain(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	h.addItem(inventory.FreezerTop, map[inventory.Feature]string{inventory.Label: "Ice"})
	h.press(presenter.ActionToken(presenter.ActionChange))
	h.press(presenter.LocationToken(inventory.FreezerTop))
	msg := single(t, h.press(presenter.ItemToken(3)))
	if !strings.HasPrefix(msg.View.Text, presenter.ItemGoneNotice) || msg.View.Buttons() != 2 {
		t.Fatalf("expected item list with notice, got %+v", msg.View)
	}
	if h.s.State != StateNested {
		t.Fatalf("got %s", h.s.State)
	}
}

func TestItemRemovedDuringEditIsNotFound(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	h.addItem(inventory.FreezerTop, map[inventory.Feature]string{inventory.Label: "Ice"})
	h.press(presenter.ActionToken(presenter.ActionChange))
	h.press(presenter.LocationToken(inventory.FreezerTop))
	h.press(presenter.ItemToken(0))
	if _, err := h.s.Inventory.Remove(inventory.FreezerTop, 0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	msg := single(t, h.press(presenter.ActionToken(presenter.ActionDone)))
	if !strings.HasPrefix(msg.View.Text, presenter.ItemGoneNotice) {
		t.Fatalf("expected item list with notice, got %q", msg.View.Text)
	}
}

func TestDoneWithoutDraftCancels(t *testing.T) {
	h := newHarness(t, 0)
	h.command(CommandStart)
	h.press(presenter.ActionToken(presenter.ActionAdd))
	h.press(presenter.LocationToken(inventory.FreezerBottom))
	msg := single(t, h.press(presenter.ActionToken(presenter.ActionDone)))
	if msg.Delivery != DeliverEdit || msg.View.Buttons() != 4 {
		t.Fatalf("expected menu edited in, got %+v", msg)
	}
	if h.s.Inventory.Total() != 0 {
		t.Fatal("empty draft must not be committed")
	}
}

func TestBackReturnsToMenu(t *testing.T) {
	for _, purpose := range []presenter.Action{presenter.ActionAdd, presenter.ActionChange} {
		h := newHarness(t, 0)
		h.command(CommandStart)
		h.press(presenter.ActionToken(purpose))
		if purpose == presenter.ActionChange {
			h.press(presenter.LocationToken(inventory.FreezerBottom))
		}
		msg := single(t, h.press(presenter.ActionToken(presenter.ActionBack)))
		if msg.Delivery != DeliverEdit || msg.View.Buttons() != 4 {
			t.Fatalf("%s: expected menu edited in, got %+v", purpose, msg)
		}
		if h.s.State != StateSelectingAction || h.s.StartOver {
			t.Fatalf("%s: unexpected session %+v", purpose, h.s)
		}
	}
}

func TestRemoveOnAddPathIsUnexpected(t *testing.T) {
	ed := NewEditor(AddingDraft{At: inventory.FreezerBottom}, nil)
	store := inventory.NewStore(0)
	_, err := ed.handleButton(&store, presenter.ActionToken(presenter.ActionRemove))
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("expected ErrUnexpectedToken, got %v", err)
	}
}

func TestEditorWorksOnCopy(t *testing.T) {
	it := inventory.Item{Label: "Cheese", Quantity: "1", Expiry: "soon"}
	ed := NewEditor(EditingAt{At: inventory.FreezerBottom, Index: 0}, &it)
	store := inventory.NewStore(0)
	if _, err := ed.handleButton(&store, presenter.FeatureToken(inventory.Label)); err != nil {
		t.Fatalf("feature: %v", err)
	}
	if _, err := ed.handleText("Brie"); err != nil {
		t.Fatalf("text: %v", err)
	}
	if it.Label != "Cheese" {
		t.Fatalf("caller's item mutated: %+v", it)
	}
	if _, err := ed.handleText("again"); !errors.Is(err, ErrUnexpectedText) {
		t.Fatalf("expected ErrUnexpectedText, got %v", err)
	}
}
