package telegram

import (
	"time"

	coreconfig "github.com/m3rciful/fridgebot/core/config"
	"github.com/m3rciful/fridgebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares builds the shared chain: panic recovery, the per-user rate
// limit when configured, update logging and message counters.
// onLimited runs for every dropped update and may be nil.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited tele.HandlerFunc) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}
	if rl, ok := rateLimit(cfg, onLimited); ok {
		mws = append(mws, rl)
	}
	return append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)
}

// rateLimit expects ExcludeUpdates already lower-cased by config.Normalize.
func rateLimit(cfg *coreconfig.Config, onLimited tele.HandlerFunc) (Middleware, bool) {
	if cfg == nil || cfg.RateLimit.IntervalMS <= 0 {
		return Middleware{}, false
	}
	exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
	for _, kind := range cfg.RateLimit.ExcludeUpdates {
		if kind != "" {
			exclude[kind] = struct{}{}
		}
	}
	return Middleware{
		Name: "rate_limit",
		Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
			Interval:  time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
			Exclude:   exclude,
			OnLimited: onLimited,
		}),
	}, true
}
