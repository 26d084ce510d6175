package logger

import (
	"log/slog"
	"testing"

	coreconfig "github.com/m3rciful/fridgebot/core/config"
)

func TestSelectLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	} {
		cfg := &coreconfig.Config{Logging: coreconfig.LoggingConfig{Level: in}}
		if got := selectLevel(cfg); got != want {
			t.Errorf("selectLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSelectKeyOrderKeepsDefaultsAfterCustomKeys(t *testing.T) {
	cfg := &coreconfig.Config{Logging: coreconfig.LoggingConfig{KeysOrder: "event, ts ,custom"}}
	order := selectKeyOrder(cfg)
	if order[0] != "event" || order[1] != "ts" || order[2] != "custom" {
		t.Fatalf("custom prefix: %v", order[:3])
	}
	if len(order) != len(defaultKeyOrder)+1 {
		t.Fatalf("expected defaults appended once, got %d keys", len(order))
	}
	if order[3] != "level" {
		t.Fatalf("first remaining default: %q", order[3])
	}
}

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		format, profile string
		want            logFormat
	}{
		{"json", "debug", formatJSON},
		{"text", "", formatKV},
		{"", "dev", formatKV},
		{"", "prod", formatJSON},
	}
	for _, tt := range tests {
		cfg := &coreconfig.Config{Logging: coreconfig.LoggingConfig{Format: tt.format, Profile: tt.profile}}
		if got := selectFormat(cfg); got != tt.want {
			t.Errorf("selectFormat(%q, %q) = %q, want %q", tt.format, tt.profile, got, tt.want)
		}
	}
}

func TestResolveSettings(t *testing.T) {
	s := resolve(nil)
	if s.profile != "prod" || s.sample != [2]int{1, 50} || s.format != formatJSON {
		t.Fatalf("defaults: %+v", s)
	}
	s = resolve(&coreconfig.Config{Logging: coreconfig.LoggingConfig{Profile: "Dev", DebugSample: "1/10"}})
	if s.profile != "dev" || s.format != formatKV || s.sample != [2]int{1, 10} {
		t.Fatalf("dev profile: %+v", s)
	}
	s = resolve(&coreconfig.Config{Logging: coreconfig.LoggingConfig{DebugSample: "-1/4"}})
	if s.sample != [2]int{1, 50} {
		t.Fatalf("invalid ratio should keep default, got %v", s.sample)
	}
}
