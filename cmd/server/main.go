package main

import (
	"fmt"
	"os"

	"grillmaster-pos/internal/config"
	"grillmaster-pos/internal/logger"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

var log = logging.MustGetLogger("main")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		cfg      *config.Config
		logLevel string
	)

	cmd := &cobra.Command{
		Use:           "pos",
		Short:         "GrillMaster point of sale terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				loaded.LogLevel = logLevel
			}
			if err := logger.Init(loaded.LogLevel); err != nil {
				return fmt.Errorf("invalid log level %q: %w", loaded.LogLevel, err)
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (DEBUG, INFO, WARNING, ERROR)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset-demo",
		Short: "Replace the stored menu, customers and orders with the demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetDemo(cfg)
		},
	})
	return cmd
}
