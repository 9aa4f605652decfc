package main

import (
	"github.com/spf13/cobra"

	"github.com/rsclarke/clicktrace/internal/config"
)

type collectorFlags struct {
	host string
	port int
}

func addCollectorFlags(cmd *cobra.Command, f *collectorFlags) {
	cmd.PersistentFlags().StringVar(&f.host, "host", "", "collector host (overrides config and CLICKTRACE_HOST)")
	cmd.PersistentFlags().IntVar(&f.port, "port", 0, "collector port (overrides config and CLICKTRACE_PORT)")
}

// apply overrides cfg with the flags the user actually set.
func (f *collectorFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Collector.Host = f.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Collector.Port = f.port
	}
}
