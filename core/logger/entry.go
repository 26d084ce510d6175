package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// entry holds the flattened fields of one log line.
type entry map[string]any

// add flattens attr under prefix, expanding groups into dotted keys.
func (e entry) add(prefix string, attr slog.Attr) {
	key := attr.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}
	val := attr.Value.Resolve()
	if val.Kind() == slog.KindGroup {
		for _, child := range val.Group() {
			e.add(key, child)
		}
		return
	}
	if key == "" {
		return
	}
	if k, v, ok := normalizeValue(key, val); ok {
		e[k] = v
	}
}

func (e entry) str(key string) string {
	switch v := e[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// setDefault stores the first non-empty candidate when key is unset.
func (e entry) setDefault(key string, candidates ...string) {
	if e.str(key) != "" {
		return
	}
	for _, c := range candidates {
		if c != "" {
			e[key] = c
			return
		}
	}
}

// contextFields lists the request metadata copied from ctx. Attributes set on
// the record itself win.
var contextFields = []struct {
	key string
	get func(context.Context) any
}{
	{"rid", func(ctx context.Context) any { return RIDFrom(ctx) }},
	{"session_id", func(ctx context.Context) any { return SessionIDFrom(ctx) }},
	{"user_id", func(ctx context.Context) any { return UserIDFrom(ctx) }},
	{"update_id", func(ctx context.Context) any { return UpdateIDFrom(ctx) }},
	{"chat_id", func(ctx context.Context) any { return ChatIDFrom(ctx) }},
	{"handler", func(ctx context.Context) any { return HandlerFrom(ctx) }},
}

func (e entry) fromContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	for _, cf := range contextFields {
		if _, ok := e[cf.key]; ok {
			continue
		}
		switch v := cf.get(ctx).(type) {
		case string:
			if v != "" {
				e[cf.key] = v
			}
		case int64:
			if v != 0 {
				e[cf.key] = v
			}
		case int:
			if v != 0 {
				e[cf.key] = v
			}
		}
	}
}

// compactRID shortens rid for readability. JSON lines keep the original as rid_full.
func (e entry) compactRID(keepFull bool) {
	rid := e.str("rid")
	compact := CompactRID(rid)
	if compact == "" || compact == rid {
		return
	}
	if _, seen := e["rid_full"]; keepFull && !seen {
		e["rid_full"] = rid
	}
	e["rid"] = compact
}

func (e entry) normalizeEnums() {
	for _, ef := range enumFields {
		raw := e.str(ef.key)
		if raw == "" {
			continue
		}
		if v, ok := ef.normalize(raw); ok {
			e[ef.key] = v
		} else {
			delete(e, ef.key)
		}
	}
}

func (e entry) prune() {
	for k, v := range e {
		switch x := v.(type) {
		case nil:
			delete(e, k)
		case string:
			if x == "" {
				delete(e, k)
			}
		case fmt.Stringer:
			if x.String() == "" {
				delete(e, k)
			}
		}
	}
}

// keys returns the fields listed in order first, then the rest sorted.
func (e entry) keys(order []string) []string {
	out := make([]string, 0, len(e))
	for _, k := range order {
		if _, ok := e[k]; ok && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	head := len(out)
	for k := range e {
		if !slices.Contains(out[:head], k) {
			out = append(out, k)
		}
	}
	slices.Sort(out[head:])
	return out
}

func (e entry) json(order []string) ([]byte, error) {
	buf := []byte{'{'}
	for i, key := range e.keys(order) {
		data, err := json.Marshal(e[key])
		if err != nil {
			return nil, fmt.Errorf("logger: encode %s: %w", key, err)
		}
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendQuote(buf, key)
		buf = append(buf, ':')
		buf = append(buf, data...)
	}
	return append(buf, '}'), nil
}

func (e entry) kv(order []string) []byte {
	var buf []byte
	for i, key := range e.keys(order) {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, key...)
		buf = append(buf, '=')
		buf = append(buf, kvValue(e[key])...)
	}
	return buf
}

func kvValue(val any) string {
	var s string
	switch v := val.(type) {
	case string:
		s = v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		s = fmt.Sprint(v)
	}
	if strings.IndexFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) >= 0 {
		return strconv.Quote(s)
	}
	return s
}

func normalizeValue(key string, val slog.Value) (string, any, bool) {
	switch val.Kind() {
	case slog.KindString:
		return key, cleanString(val.String()), true
	case slog.KindBool:
		return key, val.Bool(), true
	case slog.KindInt64:
		return key, val.Int64(), true
	case slog.KindUint64:
		if u := val.Uint64(); u <= math.MaxInt64 {
			return key, int64(u), true
		}
		return key, val.Uint64(), true
	case slog.KindFloat64:
		return key, val.Float64(), true
	case slog.KindDuration:
		k, ms := durationField(key, val.Duration())
		return k, ms, true
	case slog.KindTime:
		return key, val.Time().UTC().Format(time.RFC3339Nano), true
	}
	switch x := val.Any().(type) {
	case nil:
		return key, nil, false
	case error:
		return key, cleanString(x.Error()), true
	case string:
		return key, cleanString(x), true
	case time.Duration:
		k, ms := durationField(key, x)
		return k, ms, true
	case fmt.Stringer:
		return key, x.String(), true
	default:
		return key, fmt.Sprint(x), true
	}
}

// durationField renames key to carry a _ms suffix and converts d to whole milliseconds.
func durationField(key string, d time.Duration) (string, int64) {
	ms := RoundMS(d).Milliseconds()
	if !strings.HasSuffix(key, "_ms") {
		key += "_ms"
	}
	return key, ms
}

var botTokenRe = regexp.MustCompile(`\b(bot)?[0-9]{5,}:[A-Za-z0-9_-]{30,}`)

// cleanString trims s and masks anything shaped like a bot token, which
// Telegram errors echo back inside request URLs.
func cleanString(s string) string {
	s = strings.TrimSpace(s)
	if strings.IndexByte(s, ':') < 0 {
		return s
	}
	return botTokenRe.ReplaceAllString(s, "bot<redacted>")
}
