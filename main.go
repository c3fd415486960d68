package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/soocke/mosaic-go/app"
	"github.com/soocke/mosaic-go/config"
	"github.com/soocke/mosaic-go/debug"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		debugFlag  bool
	)

	root := &cobra.Command{
		Use:           "mosaic [image]",
		Short:         "Select a region of an image and preview it as a mirrored mosaic",
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if debugFlag {
				cfg.Debug = true
			}

			level := slog.LevelInfo
			if cfg.Debug {
				level = slog.LevelDebug
			}
			logger := NewLogger(level)
			if err != nil {
				logger.Warn("config not loaded, using defaults", "path", configPath, "error", err)
			}

			if cfg.Debug {
				interval := time.Duration(cfg.StatsIntervalSeconds) * time.Second
				debug.StartGoroutineLogger(interval, logger)
				debug.StartMemLogger(interval, logger)
			}

			var initial string
			if len(args) == 1 {
				initial = args[0]
			}
			app.NewApp("Mosaic", cfg, logger, initial).Start()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the JSON config file")
	root.Flags().BoolVar(&debugFlag, "debug", false, "enable debug logging and runtime stats")

	root.AddCommand(newInitConfigCmd(&configPath))
	return root
}

func newInitConfigCmd(configPath *string) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := homedir.Expand(*configPath)
			if err != nil {
				return err
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
