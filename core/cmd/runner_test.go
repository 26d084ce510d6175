package cmd

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/m3rciful/fridgebot/core/config"
	coretelegram "github.com/m3rciful/fridgebot/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type stubApp struct {
	started, stopped *bool
}

func (a stubApp) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error { *a.started = true; return nil },
		OnStop:  func(context.Context, coretelegram.Runtime) error { *a.stopped = true; return nil },
	}, nil
}

func TestConfigPathPrecedence(t *testing.T) {
	t.Setenv("FRIDGE_CONFIG", "/etc/fridge.yaml")
	opts := Options{ConfigEnvVar: "FRIDGE_CONFIG", DefaultConfigPath: "config.yaml"}
	if p, _ := configPath(opts); p != "/etc/fridge.yaml" {
		t.Fatalf("env path: %q", p)
	}
	opts.ConfigPath = "local.yaml"
	if p, _ := configPath(opts); p != "local.yaml" {
		t.Fatalf("explicit path: %q", p)
	}
	t.Setenv("FRIDGE_CONFIG", "")
	if _, err := configPath(Options{ConfigEnvVar: "FRIDGE_CONFIG"}); err == nil {
		t.Fatal("expected error without any path")
	}
}

func TestRunWrapsLifecycleHooks(t *testing.T) {
	var started, stopped, loggerClosed bool
	var loadedFrom string
	err := Run(Options{
		ConfigPath: "test.yaml",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			loadedFrom = path
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(ConfigCarrier) (TelegramApp, error) {
			return stubApp{started: &started, stopped: &stopped}, nil
		},
		ShutdownLogger: func() error { loggerClosed = true; return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if loadedFrom != "test.yaml" || !started || !stopped || !loggerClosed {
		t.Fatalf("loaded=%q started=%v stopped=%v logger closed=%v", loadedFrom, started, stopped, loggerClosed)
	}
}

func TestRunReportsBootstrapFailure(t *testing.T) {
	boom := errors.New("boom")
	err := Run(Options{
		ConfigPath:     "test.yaml",
		LoadConfig:     func(string) (ConfigCarrier, error) { return carrier{cfg: &coreconfig.Config{}}, nil },
		Bootstrap:      func(ConfigCarrier) (TelegramApp, error) { return nil, boom },
		ShutdownLogger: func() error { return nil },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected bootstrap error, got %v", err)
	}
}
