package router

import (
	"context"
	"log/slog"

	"github.com/m3rciful/fridgebot/core/logger"
	tg "github.com/m3rciful/fridgebot/core/telegram"
	"github.com/m3rciful/fridgebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes prepares command handlers wrapped with shared middleware,
// in command name order.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOpts := middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	}

	names := reg.CommandNames()
	routes := make([]tg.Route, 0, len(names))
	for _, cmd := range names {
		def, _ := reg.Command(cmd)
		name, inner := normalizeHandlerName(cmd), def.Handler
		h := func(c tele.Context) error { return runHandler(c, name, inner) }
		if def.AdminOnly {
			h = middleware.AdminOnlyMiddleware(adminOpts)(h)
		}
		h = middleware.LoggerMiddleware(h)
		h = middleware.RecoverMiddleware(h)
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  h,
		})
	}

	cbs := reg.ListCallbacks()
	cmdList, cmdMore := logger.SummarizeStrings(names, 10)
	cbList, cbMore := logger.SummarizeStrings(cbs, 10)
	logger.Info(context.Background(), "tg.wire", "routes.complete",
		slog.Int("commands", len(names)),
		slog.String("command_list", cmdList),
		slog.Bool("commands_truncated", cmdMore),
		slog.Int("callbacks", len(cbs)),
		slog.String("callback_list", cbList),
		slog.Bool("callbacks_truncated", cbMore),
	)

	return routes
}
