package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/m3rciful/fridgebot/core/logger"
	tghelpers "github.com/m3rciful/fridgebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// PanicError is returned by RecoverMiddleware in place of a handler panic.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Code labels recovered panics in handler summaries.
func (e *PanicError) Code() string { return "PANIC" }

// RecoverMiddleware turns handler panics into a *PanicError and logs the stack.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Error(tghelpers.BuildContext(c), "tg", "tg.panic",
				slog.Any("err", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = &PanicError{Value: r}
		}()
		return next(c)
	}
}
