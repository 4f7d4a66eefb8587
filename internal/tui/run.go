package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"rcpro-configurator/internal/configurator"
	"rcpro-configurator/internal/pricing"
	"rcpro-configurator/internal/quote"
)

// Run starts the terminal configurator and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, q configurator.Quoter, profile pricing.Profile, catalog *quote.Catalog, policy configurator.StalePolicy) error {
	p := tea.NewProgram(
		New(ctx, q, profile, catalog, policy),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run configurator: %w", err)
	}
	return nil
}
