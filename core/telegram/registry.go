package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/m3rciful/fridgebot/core/logger"
	"github.com/m3rciful/fridgebot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrInvalidRegistration rejects empty names, nil handlers and command
	// names without a leading slash.
	ErrInvalidRegistration = errors.New("telegram: invalid registration")
	// ErrDuplicateRegistration rejects a second handler for the same name.
	ErrDuplicateRegistration = errors.New("telegram: already registered")
)

// Registry holds bot commands, callback handlers by button unique key and
// the fallbacks used when nothing matches.
type Registry struct {
	mu               sync.RWMutex
	commands         map[string]commands.Command
	callbacks        map[string]tele.HandlerFunc
	callbackNotFound tele.HandlerFunc
	textFallback     tele.HandlerFunc
}

// NewRegistry creates an empty Registry without fallbacks.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		callbacks: make(map[string]tele.HandlerFunc),
	}
}

// RegisterCommand adds a slash command. Commands need a description so the
// published menu never shows an empty entry.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	if !strings.HasPrefix(name, "/") || len(name) < 2 || cmd.Handler == nil || cmd.Description == "" {
		return r.reject("command", name, ErrInvalidRegistration)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		return r.reject("command", name, ErrDuplicateRegistration)
	}
	r.commands[name] = cmd
	return nil
}

// RegisterCallback adds a callback handler mapped to its key.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	if key == "" || handler == nil {
		return r.reject("callback", key, ErrInvalidRegistration)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		return r.reject("callback", key, ErrDuplicateRegistration)
	}
	r.callbacks[key] = handler
	return nil
}

func (r *Registry) reject(kind, name string, err error) error {
	logger.Warn(context.Background(), "tg.wire", "register."+kind+".skip",
		slog.String("name", name),
		slog.String("reason", err.Error()),
	)
	return fmt.Errorf("%w: %s %q", err, kind, name)
}

// CommandNames returns the registered command names sorted.
func (r *Registry) CommandNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.commands)
}

// Command returns the command registered under name.
func (r *Registry) Command(name string) (commands.Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// ListCommands returns the command menu sorted by name. With visibleOnly set
// only published commands are included.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for _, name := range r.CommandNames() {
		meta, _ := r.Command(name)
		if visibleOnly && !meta.Published() {
			continue
		}
		list = append(list, tele.Command{Text: name, Description: meta.Description})
	}
	return list
}

// LookupCommand resolves "/name", "/name@bot" or an alias to the canonical
// command. Aliases match the whole text case-insensitively, so "Cancel"
// reaches a command aliased "cancel".
func (r *Registry) LookupCommand(text string) (string, commands.Command, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", commands.Command{}, false
	}
	if strings.HasPrefix(text, "/") {
		name, _, _ := strings.Cut(text, " ")
		name, _, _ = strings.Cut(name, "@")
		if cmd, ok := r.Command(name); ok {
			return name, cmd, true
		}
	}
	for _, name := range r.CommandNames() {
		cmd, _ := r.Command(name)
		if slices.ContainsFunc(cmd.Aliases, func(a string) bool { return strings.EqualFold(a, text) }) {
			return name, cmd, true
		}
	}
	return "", commands.Command{}, false
}

// GetCallback returns the handler registered for key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns sorted keys (for diagnostics).
func (r *Registry) ListCallbacks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.callbacks)
}

// SetCallbackNotFound replaces the fallback handler for unknown callbacks.
// A nil handler keeps the current one.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h == nil {
		return
	}
	r.mu.Lock()
	r.callbackNotFound = h
	r.mu.Unlock()
}

func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.callbackNotFound
}

// SetTextFallback sets the handler for text that no route claimed.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.mu.Lock()
	r.textFallback = h
	r.mu.Unlock()
}

func (r *Registry) TextFallback() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.textFallback
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// CommandSetter publishes the command menu; *tele.Bot implements it.
type CommandSetter interface {
	SetCommands(opts ...interface{}) error
}

// InitBotCommands sets the Telegram bot commands shown in the command menu.
func InitBotCommands(ctx context.Context, bot CommandSetter, reg *Registry) {
	published := reg.ListCommands(true)
	if err := bot.SetCommands(published); err != nil {
		logger.Error(ctx, "tg.wire", "register.commands.set_failed", slog.String("err", err.Error()))
		return
	}
	logger.Info(ctx, "tg.wire", "register.commands.set", slog.Int("count", len(published)))
}
