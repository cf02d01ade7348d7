package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/animus/internal/config"
	"github.com/danmuck/animus/internal/logging"
)

// Version is set via ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "animusd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "animusd",
		Short:         "animusd: serve the animus control channel",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.ConfigureRuntime()

			cfg, err := loadServiceConfig(cfgFile)
			if err != nil {
				return err
			}
			if cfg.HasLogLevel {
				log.Logger = log.Logger.Level(cfg.LogLevel)
				zerolog.SetGlobalLevel(cfg.LogLevel)
			}
			log.Info().Str("path", cfgFile).Msg("loaded animusd config")

			svc, err := newService(cfg, log.Logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return svc.run(ctx)
		},
	}
	rootCmd.Flags().StringVar(&cfgFile, "config", "animusd.toml", "config file path")
	rootCmd.AddCommand(newInitCmd())
	return rootCmd
}

func newInitCmd() *cobra.Command {
	var (
		cfgFile     string
		networkFile string
		force       bool
	)
	c := &cobra.Command{
		Use:   "init",
		Short: "Write starter daemon and network files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplate(cfgFile, config.KindDaemon, force); err != nil {
				return err
			}
			if err := config.WriteTemplate(networkFile, config.KindNetwork, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", cfgFile, networkFile)
			return nil
		},
	}
	c.Flags().StringVar(&cfgFile, "config", "animusd.toml", "daemon config path")
	c.Flags().StringVar(&networkFile, "network", "network.toml", "network state path")
	c.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return c
}
