package logger

import (
	"log/slog"
	"strings"
)

// levelName maps slog levels onto the names used in log lines. Anything
// above error is reported as FATAL.
func levelName(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	case l == slog.LevelError:
		return "ERROR"
	}
	return "FATAL"
}

// enumFields constrains fields with a closed vocabulary. Unknown statuses are
// kept lowercased, unknown outcomes are dropped.
var enumFields = []struct {
	key       string
	normalize func(string) (string, bool)
}{
	{"status", func(s string) (string, bool) { return strings.ToLower(strings.TrimSpace(s)), true }},
	{"outcome", oneOf("ok", "fail", "cancelled", "rate_limited")},
}

func oneOf(allowed ...string) func(string) (string, bool) {
	return func(s string) (string, bool) {
		s = strings.ToLower(strings.TrimSpace(s))
		for _, a := range allowed {
			if s == a {
				return s, true
			}
		}
		return "", false
	}
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"session_id",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"chat_type",
	"handler",
	"kind",
	"state_from",
	"state_to",
	"state",
	"purpose",
	"location",
	"item_index",
	"feature",
	"result",
	"items",
	"sessions",
	"cb_key",
	"outcome",
	"duration_ms",
	"messages",
	"kb",
	"count",
	"payload",
	"lang",
	"username",
	"mode",
	"listen",
	"public_url",
	"http_code",
	"action",
	"endpoint",
	"err",
	"err_code",
	"cause",
	"retryable",
	"attempts",
	"backoff_ms",
	"rate_limited",
	"collapsed",
	"repeats",
}
