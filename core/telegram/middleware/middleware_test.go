package middleware

import (
	"errors"
	"testing"
	"time"

	"github.com/m3rciful/fridgebot/core/telegram/teletest"

	tele "gopkg.in/telebot.v4"
)

func TestRateLimitDropsBurst(t *testing.T) {
	now := time.Unix(1000, 0)
	limited := 0
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval:  time.Second,
		Now:       func() time.Time { return now },
		OnLimited: func(tele.Context) error { limited++; return nil },
	})
	calls := 0
	h := mw(func(tele.Context) error { calls++; return nil })

	_ = h(teletest.NewMessage(5, "a"))
	_ = h(teletest.NewMessage(5, "b"))
	_ = h(teletest.NewMessage(6, "c"))
	now = now.Add(2 * time.Second)
	_ = h(teletest.NewMessage(5, "d"))

	if calls != 3 || limited != 1 {
		t.Fatalf("calls=%d limited=%d", calls, limited)
	}
}

func TestRateLimitExcludesCallbacks(t *testing.T) {
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval: time.Hour,
		Exclude:  map[string]struct{}{"callback": {}},
	})
	calls := 0
	h := mw(func(tele.Context) error { calls++; return nil })
	for i := 0; i < 3; i++ {
		_ = h(teletest.NewCallback(5, "\fact|add"))
	}
	if calls != 3 {
		t.Fatalf("calls=%d", calls)
	}
}

func TestAdminOnly(t *testing.T) {
	rejected := 0
	mw := AdminOnlyMiddleware(AdminOptions{AdminID: 7, OnReject: func(tele.Context) error { rejected++; return nil }})
	calls := 0
	h := mw(func(tele.Context) error { calls++; return nil })
	_ = h(teletest.NewMessage(7, "/stats"))
	_ = h(teletest.NewMessage(8, "/stats"))
	if calls != 1 || rejected != 1 {
		t.Fatalf("calls=%d rejected=%d", calls, rejected)
	}
	if IsAdmin(teletest.NewMessage(7, ""), 0) {
		t.Fatal("no admin configured must reject everyone")
	}
}

func TestRecoverTurnsPanicIntoError(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	var pe *PanicError
	if err := h(teletest.NewMessage(1, "x")); !errors.As(err, &pe) || pe.Value != "boom" || pe.Code() != "PANIC" {
		t.Fatalf("expected PanicError, got %v", err)
	}
	want := errors.New("fine")
	if err := RecoverMiddleware(func(tele.Context) error { return want })(teletest.NewMessage(1, "x")); !errors.Is(err, want) {
		t.Fatalf("got %v", err)
	}
}

func TestMetricsCountsMessages(t *testing.T) {
	c := teletest.NewMessage(1, "x")
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		_ = c.Send("one")
		return c.Send("two", &tele.ReplyMarkup{})
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	msgs, kb := GetCounters(c)
	if msgs != 2 || !kb {
		t.Fatalf("msgs=%d kb=%v", msgs, kb)
	}
}

func TestMetricsTotalsSplitSendsAndEdits(t *testing.T) {
	before := ReadTotals()
	cb := teletest.NewCallback(1, "\fact|add")
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		if err := c.Edit("menu"); err != nil {
			return err
		}
		return c.EditOrSend("again")
	})
	if err := h(cb); err != nil {
		t.Fatalf("handler: %v", err)
	}
	after := ReadTotals()
	if after.Updates-before.Updates != 1 || after.Edited-before.Edited != 2 || after.Sent != before.Sent {
		t.Fatalf("before=%+v after=%+v", before, after)
	}
}

func TestGetCountersWithoutMiddleware(t *testing.T) {
	if msgs, kb := GetCounters(teletest.NewMessage(1, "x")); msgs != 0 || kb {
		t.Fatalf("msgs=%d kb=%v", msgs, kb)
	}
}

func TestUpdateRingEvictsOldest(t *testing.T) {
	r := newUpdateRing(2)
	if r.add(1) || r.add(2) {
		t.Fatal("fresh ids reported as seen")
	}
	if !r.add(1) {
		t.Fatal("id 1 should be remembered")
	}
	r.add(3)
	if r.add(1) {
		t.Fatal("id 1 should have been evicted")
	}
	if !r.add(3) {
		t.Fatal("id 3 should be remembered")
	}
}

func TestLastSeenSweepsStaleUsers(t *testing.T) {
	seen := &lastSeen{at: make(map[int64]time.Time), sweepAt: 4}
	start := time.Unix(0, 0)
	for id := int64(1); id <= 3; id++ {
		seen.allow(id, start, time.Second)
	}
	if !seen.allow(4, start.Add(time.Minute), time.Second) {
		t.Fatal("fresh user limited")
	}
	if len(seen.at) != 1 {
		t.Fatalf("expected stale users swept, %d left", len(seen.at))
	}
	if seen.allow(4, start.Add(time.Minute), time.Second) {
		t.Fatal("burst from same user allowed")
	}
}
