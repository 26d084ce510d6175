package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/fridgebot/core/logger"
	tghelpers "github.com/m3rciful/fridgebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
	// Now is used in tests; defaults to time.Now.
	Now func() time.Time
}

// UpdateKind classifies an update for rate limit exclusions.
func UpdateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	case upd.Query != nil:
		return "inline_query"
	}
	return "other"
}

// lastSeen records the latest accepted update per user. Entries older than
// the interval are swept once the map reaches sweepAt, which then doubles.
type lastSeen struct {
	mu      sync.Mutex
	at      map[int64]time.Time
	sweepAt int
}

func (l *lastSeen) allow(userID int64, now time.Time, interval time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if last, ok := l.at[userID]; ok && now.Sub(last) < interval {
		return false
	}
	l.at[userID] = now
	if len(l.at) >= l.sweepAt {
		for id, ts := range l.at {
			if now.Sub(ts) >= interval {
				delete(l.at, id)
			}
		}
		l.sweepAt = max(2*len(l.at), 1024)
	}
	return true
}

// RateLimitMiddleware drops updates that arrive within Interval of the
// previous accepted update from the same user. Dropped updates go to OnLimited.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	seen := &lastSeen{at: make(map[int64]time.Time), sweepAt: 1024}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			kind := UpdateKind(c.Update())
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}
			if seen.allow(user.ID, now(), opts.Interval) {
				return next(c)
			}
			logger.Warn(tghelpers.BuildContext(c), "tg", "tg.rate_limit",
				slog.String("kind", kind),
				slog.Bool("rate_limited", true),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
