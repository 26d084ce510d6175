package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Prefix marks callback data produced by buttons built with a unique key.
const Prefix = "\f"

// ParseCallbackData splits Telebot's \f<unique>|<payload> encoding.
// When telebot already routed the callback by unique, Data holds only the payload.
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw, ok := strings.CutPrefix(cb.Data, Prefix)
	if !ok {
		return "", cb.Data
	}
	unique, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(unique), payload
}

// CallbackKey returns the unique key of the pressed button.
func CallbackKey(c tele.Context) string {
	k, _ := ParseCallbackData(c.Callback())
	return k
}

// CallbackPayload returns the data attached to the pressed button.
func CallbackPayload(c tele.Context) string {
	_, p := ParseCallbackData(c.Callback())
	return p
}
