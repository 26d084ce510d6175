package main

import (
	"fmt"
	"strings"

	"github.com/m3rciful/fridgebot/core/buildinfo"
	corecmd "github.com/m3rciful/fridgebot/core/cmd"
	"github.com/m3rciful/fridgebot/core/logger"
	"github.com/m3rciful/fridgebot/fridge/app"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

// runner is swapped in tests.
var runner = corecmd.Run

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "fridgebot",
		Short:        "Telegram bot that keeps track of what is in your fridge",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Run with ./config.yaml (or $CONFIG_PATH)
  fridgebot run

  # Run with an explicit config
  fridgebot run --config /etc/fridgebot/config.yaml
`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Start the bot",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runner(corecmd.Options{
				ConfigPath:        configPath,
				DefaultConfigPath: defaultConfigPath,
				LoadConfig:        app.LoadCarrier,
				Bootstrap:         app.Bootstrap,
				InitLogger:        logger.InitLogger,
			})
		},
	}
	run.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML config (default $CONFIG_PATH or "+defaultConfigPath+")")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "fridgebot %s\n", buildinfo.Summary())
			return err
		},
	}

	cmd.AddCommand(run, version)
	return cmd
}
