// Package app wires configuration, the fridge dialog and the Telegram runtime together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/fridgebot/core/bootstrap"
	corecmd "github.com/m3rciful/fridgebot/core/cmd"
	"github.com/m3rciful/fridgebot/core/logger"
	"github.com/m3rciful/fridgebot/core/ops"
	tg "github.com/m3rciful/fridgebot/core/telegram"
	"github.com/m3rciful/fridgebot/core/telegram/middleware"
	"github.com/m3rciful/fridgebot/core/telegram/router"
	"github.com/m3rciful/fridgebot/core/telegram/sender"
	"github.com/m3rciful/fridgebot/core/telegram/ui"
	"github.com/m3rciful/fridgebot/fridge/bot"
	"github.com/m3rciful/fridgebot/fridge/dialog"
)

const shutdownTimeout = 5 * time.Second

// App owns the long-lived components of one bot process.
type App struct {
	cfg      *Config
	registry *tg.Registry
	sessions *bot.Sessions
	bot      *bot.Bot
	ops      *ops.Server

	dispatcher *sender.Dispatcher
}

// Stats is the document served by the ops /stats endpoint.
type Stats struct {
	bot.Stats
	Telegram middleware.Totals `json:"telegram"`
	Sender   *sender.Stats     `json:"sender,omitempty"`
}

// New builds the application from a loaded configuration.
func New(ctx context.Context, cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	a := &App{cfg: cfg, registry: tg.NewRegistry()}
	err := bootstrap.Run(ctx, bootstrap.Options{
		Config: &cfg.Config,
		Steps: []bootstrap.Step{
			bootstrap.StepFunc("sessions", func() error {
				a.sessions = bot.NewSessions(cfg.Fridge.MaxItemsPerLocation)
				return nil
			}),
			bootstrap.StepFunc("dialog", func() error {
				a.bot = bot.New(a.sessions, dialog.NewMachine(dialog.Options{}))
				return a.bot.Register(a.registry)
			}),
			bootstrap.StepFunc("ops", func() error {
				if cfg.Ops.Listen == "" {
					return nil
				}
				a.ops = ops.New(ops.Options{Listen: cfg.Ops.Listen, Stats: a.Stats})
				return nil
			}),
		},
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "app", "bootstrap.complete",
		slog.Int("limit", cfg.Fridge.MaxItemsPerLocation),
		slog.Bool("ops", a.ops != nil),
	)
	return a, nil
}

// Bootstrap adapts New to the runner.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	return New(context.Background(), cfg)
}

// Stats gathers session, update and sender counters.
func (a *App) Stats(ctx context.Context) any {
	st := Stats{Stats: a.bot.Stats(ctx), Telegram: middleware.ReadTotals()}
	if a.dispatcher != nil {
		ds := a.dispatcher.Stats()
		st.Sender = &ds
	}
	return st
}

// TelegramRunOptions assembles middlewares, routes and lifecycle hooks.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := &a.cfg.Config

	var fallbacks ui.FallbackProvider = a.bot

	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{AdminID: core.Telegram.AdminID})
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{NotFound: fallbacks.UnknownCallback()}))
	routes = append(routes, router.TextRoutes(a.bot, a.registry, router.TextOptions{
		UnknownText:     fallbacks.UnknownText(),
		UnknownDocument: fallbacks.UnknownDocument(),
	})...)

	return tg.RunOptions{
		Config:      core,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(core, fallbacks.RateLimited()),
		Routes:      routes,
		DispatcherOptions: sender.Options{
			QueueSize:    core.Sender.QueueSize,
			Workers:      core.Sender.Workers,
			MaxRetries:   core.Sender.MaxRetries,
			RetryBackoff: time.Duration(core.Sender.RetryBackoffMS) * time.Millisecond,
		},
		OnStart: a.onStart,
		OnStop:  a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, rt tg.Runtime) error {
	a.dispatcher = rt.Dispatcher
	if a.ops == nil {
		return nil
	}
	if err := a.ops.Start(ctx); err != nil {
		return err
	}
	a.ops.SetReady(true)
	return nil
}

func (a *App) onStop(ctx context.Context, _ tg.Runtime) error {
	if a.ops == nil {
		return nil
	}
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := a.ops.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("app: ops shutdown: %w", err)
	}
	return nil
}
