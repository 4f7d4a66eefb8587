package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rcpro-configurator/internal/config"
	"rcpro-configurator/internal/observability"
	"rcpro-configurator/internal/pricing"
	"rcpro-configurator/internal/tui"
)

func tuiCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the configurator in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			// the screen belongs to the UI, so logs only go to a file
			if cfg.Log.File != "" {
				if err := observability.InitLogger(cfg.Log.Debug, cfg.Log.File); err != nil {
					return fmt.Errorf("init logger: %w", err)
				}
				defer observability.SyncLogger()
			}

			catalog, policy, err := quoteSetup(cfg)
			if err != nil {
				return err
			}
			client := pricing.NewClient(cfg.Pricing.URL, cfg.Pricing.APIKey, cfg.Pricing.Timeout)

			return tui.Run(ctx, client, cfg.Profile, catalog, policy)
		},
	}

	cmd.Flags().String("log-file", "", "write logs to this file")
	return cmd
}
