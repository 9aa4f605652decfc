package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rsclarke/clicktrace/internal/config"
	"github.com/rsclarke/clicktrace/internal/logging"
)

var (
	logger *zap.Logger
	cfg    config.Config
)

var rootFlags struct {
	configPath string
	collectorFlags
}

var rootCmd = &cobra.Command{
	Use:   "clicktrace",
	Short: "Capture interaction context from HTML pages",
	Long: `clicktrace instruments a page so that every click and key release is
framed by a meaningful ancestor element (the holder) and shipped as an event
descriptor to a local collector at http://<host>:<port>/event.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		res, err := config.LoadFrom(rootFlags.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = res.Config
		rootFlags.apply(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		for _, w := range res.Warnings {
			logger.Warn("config warning", zap.String("warning", w))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logging.Sync(logger)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", getEnv("CLICKTRACE_CONFIG", config.DefaultPath()), "path to TOML config file")
	addCollectorFlags(rootCmd, &rootFlags.collectorFlags)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
