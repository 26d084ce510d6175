package middleware

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

const countersKey = "metrics"

// Totals are process-wide counters since start.
type Totals struct {
	Updates uint64 `json:"updates"`
	Sent    uint64 `json:"sent"`
	Edited  uint64 `json:"edited"`
}

var totals struct {
	updates, sent, edited atomic.Uint64
}

// ReadTotals returns a snapshot of the process-wide counters.
func ReadTotals() Totals {
	return Totals{
		Updates: totals.updates.Load(),
		Sent:    totals.sent.Load(),
		Edited:  totals.edited.Load(),
	}
}

// updateCounters belongs to one update. Sends may run on dispatcher workers
// while the handler summary reads them, hence the atomics.
type updateCounters struct {
	messages atomic.Int64
	kb       atomic.Bool
}

// metricsContext wraps tele.Context to count produced messages and detect keyboards.
type metricsContext struct {
	tele.Context
	counters *updateCounters
}

func (m metricsContext) record(err error, edit bool, opts []any) error {
	if err != nil {
		return err
	}
	m.counters.messages.Add(1)
	if edit {
		totals.edited.Add(1)
	} else {
		totals.sent.Add(1)
	}
	if hasKeyboard(opts) {
		m.counters.kb.Store(true)
	}
	return nil
}

func hasKeyboard(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m metricsContext) Send(what any, opts ...any) error {
	return m.record(m.Context.Send(what, opts...), false, opts)
}

func (m metricsContext) Reply(what any, opts ...any) error {
	return m.record(m.Context.Reply(what, opts...), false, opts)
}

func (m metricsContext) Edit(what any, opts ...any) error {
	return m.record(m.Context.Edit(what, opts...), true, opts)
}

// EditOrSend counts as an edit when the update carries a button press.
func (m metricsContext) EditOrSend(what any, opts ...any) error {
	return m.record(m.Context.EditOrSend(what, opts...), m.Callback() != nil, opts)
}

func (m metricsContext) EditOrReply(what any, opts ...any) error {
	return m.record(m.Context.EditOrReply(what, opts...), m.Callback() != nil, opts)
}

// MessageMetricsMiddleware instruments context to track messages count and keyboard usage.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		totals.updates.Add(1)
		counters := &updateCounters{}
		c.Set(countersKey, counters)
		return next(metricsContext{Context: c, counters: counters})
	}
}

// GetCounters reads message count and keyboard presence for the current update.
func GetCounters(c tele.Context) (int, bool) {
	counters, ok := c.Get(countersKey).(*updateCounters)
	if !ok {
		return 0, false
	}
	return int(counters.messages.Load()), counters.kb.Load()
}
