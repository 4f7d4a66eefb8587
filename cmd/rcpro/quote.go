package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rcpro-configurator/internal/config"
	"rcpro-configurator/internal/configurator"
	"rcpro-configurator/internal/formula"
	"rcpro-configurator/internal/observability"
	"rcpro-configurator/internal/pricing"
	"rcpro-configurator/internal/quote"
)

type quoteOptions struct {
	deductible string
	ceiling    string
	covers     []string
	json       bool
}

func quoteCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var opts quoteOptions

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Fetch a single quote and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if err := observability.InitLogger(cfg.Log.Debug, logOutputs(cfg.Log)...); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer observability.SyncLogger()

			catalog, policy, err := quoteSetup(cfg)
			if err != nil {
				return err
			}
			client := pricing.NewClient(cfg.Pricing.URL, cfg.Pricing.APIKey, cfg.Pricing.Timeout)

			vm, err := runQuote(ctx, client, cfg.Profile, catalog, policy, opts)
			if err != nil {
				return err
			}

			if opts.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(vm)
			}
			return printQuote(cmd.OutOrStdout(), vm)
		},
	}

	cmd.Flags().StringVar(&opts.deductible, "deductible", "1", "deductible tier (0-2)")
	cmd.Flags().StringVar(&opts.ceiling, "ceiling", "1", "coverage ceiling tier (0-1)")
	cmd.Flags().StringSliceVar(&opts.covers, "cover", nil, "selected cover ids (default: the recommended covers)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the view as JSON")
	return cmd
}

// runQuote drives one selection through the configurator reducers with a
// single synchronous request.
func runQuote(ctx context.Context, q configurator.Quoter, profile pricing.Profile, catalog *quote.Catalog, policy configurator.StalePolicy, opts quoteOptions) (configurator.ViewModel, error) {
	d, err := formula.ParseDeductibleTier(opts.deductible)
	if err != nil {
		return configurator.ViewModel{}, err
	}
	c, err := formula.ParseCeilingTier(opts.ceiling)
	if err != nil {
		return configurator.ViewModel{}, err
	}
	sel := formula.Selection{Deductible: d, Ceiling: c}

	covers := catalog.InitialSelection()
	if len(opts.covers) > 0 {
		covers = quote.NewSelection(opts.covers...)
	}

	state := configurator.NewState(sel, covers, policy)
	state, _, err = configurator.TierChanged(state, sel)
	if err != nil {
		return configurator.ViewModel{}, err
	}

	req, err := pricing.NewRequest(profile, sel)
	if err != nil {
		return configurator.ViewModel{}, err
	}

	res, err := q.Quote(ctx, req)
	if err != nil {
		observability.LoggerWithTrace(ctx).Warn("quote request failed", zap.Error(err))
		return configurator.View(configurator.QuoteFailed(state, state.Issued), catalog), fmt.Errorf("%s: %w", configurator.ErrorMessage, err)
	}

	return configurator.View(configurator.QuoteReceived(state, state.Issued, res), catalog), nil
}

func printQuote(w io.Writer, vm configurator.ViewModel) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, line := range vm.Covers {
		mark := "[ ]"
		if line.Selected {
			mark = "[x]"
		}
		fmt.Fprintf(tw, "%s\t%s\t+ €%s\n", mark, line.Title, line.Cost)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Deductible\t€%s\t\n", vm.Deductible)
	fmt.Fprintf(tw, "Coverage ceiling\t€%s\t\n", vm.CoverageCeiling)
	fmt.Fprintf(tw, "Total\t€%s\t\n", vm.Total)

	return tw.Flush()
}
