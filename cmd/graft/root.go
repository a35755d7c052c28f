package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/graft/internal/cli"
	"github.com/aretw0/graft/internal/config"
	"github.com/aretw0/graft/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "graft",
	Short: "graft resolves configuration trees into runtime objects",
	Long: `graft walks a JSON, YAML, TOML, HCL or CUE document and replaces every node
carrying a "require" key with the referenced module: another configuration
file, a registered function, a Go script, a vault document, a Redis entry or
an allow-listed command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./graft.{yaml,json,toml})")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringSlice("path", nil, "Additional module search paths")
}

// setup loads the configuration, applies flag overrides and builds the runtime.
func setup(cmd *cobra.Command, reg prometheus.Registerer) (*config.Config, *cli.Runtime, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if paths, _ := cmd.Flags().GetStringSlice("path"); len(paths) > 0 {
		cfg.ModulePaths = append(cfg.ModulePaths, paths...)
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	rt, err := cli.NewRuntime(cfg, logger, reg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, rt, logger, nil
}
