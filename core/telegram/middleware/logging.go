package middleware

import (
	"log/slog"
	"sync"

	"github.com/m3rciful/fridgebot/core/logger"
	"github.com/m3rciful/fridgebot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/fridgebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// recentUpdates remembers the last update IDs whose receipt was logged, so
// routes that apply LoggerMiddleware on top of the global chain log once.
var recentUpdates = newUpdateRing(256)

type updateRing struct {
	mu   sync.Mutex
	ids  []int
	seen map[int]struct{}
	next int
}

func newUpdateRing(size int) *updateRing {
	return &updateRing{ids: make([]int, 0, size), seen: make(map[int]struct{}, size)}
}

// add records id and reports whether it was already present. The oldest id is
// evicted once the ring is full.
func (r *updateRing) add(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[id]; ok {
		return true
	}
	if len(r.ids) < cap(r.ids) {
		r.ids = append(r.ids, id)
	} else {
		delete(r.seen, r.ids[r.next])
		r.ids[r.next] = id
		r.next = (r.next + 1) % len(r.ids)
	}
	r.seen[id] = struct{}{}
	return false
}

// LoggerMiddleware prepares the request context of the update and logs its
// receipt at debug level, once per update even when applied on several branches.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		if logger.ShouldSampleDebug() && !recentUpdates.add(c.Update().ID) {
			logger.Debug(ctx, "tg", "update.received", receiptAttrs(c)...)
		}
		return next(c)
	}
}

// receiptAttrs describes who sent the update and what it carried. Ids come
// from the request context.
func receiptAttrs(c tele.Context) []slog.Attr {
	attrs := []slog.Attr{slog.String("status", "ok")}
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
	}
	if user := c.Sender(); user != nil {
		if user.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
		}
		if user.LanguageCode != "" {
			attrs = append(attrs, slog.String("lang", user.LanguageCode))
		}
	}
	payload := c.Text()
	if cb := c.Callback(); cb != nil {
		var key string
		key, payload = callbacks.ParseCallbackData(cb)
		if key != "" {
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
		}
	}
	if payload != "" {
		attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
	}
	return attrs
}
