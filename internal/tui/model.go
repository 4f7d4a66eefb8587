package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"rcpro-configurator/internal/configurator"
	"rcpro-configurator/internal/formula"
	"rcpro-configurator/internal/observability"
	"rcpro-configurator/internal/pricing"
	"rcpro-configurator/internal/quote"
)

// quoteMsg carries a settled pricing request back into Update.
type quoteMsg struct {
	seq   uint64
	quote pricing.Quote
	err   error
}

// Model is the terminal configurator. It drives the configurator reducers
// directly; every pricing call runs as a tea.Cmd.
type Model struct {
	ctx     context.Context
	quoter  configurator.Quoter
	profile pricing.Profile
	catalog *quote.Catalog

	state configurator.State
	focus int

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	width   int
}

func New(ctx context.Context, q configurator.Quoter, profile pricing.Profile, catalog *quote.Catalog, policy configurator.StalePolicy) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = focusStyle

	state := configurator.NewState(formula.DefaultSelection(), catalog.InitialSelection(), policy)
	// the first request goes out from Init; the default selection is valid
	state, _, _ = configurator.TierChanged(state, state.Formula)

	return Model{
		ctx:     ctx,
		quoter:  q,
		profile: profile,
		catalog: catalog,
		state:   state,
		keys:    DefaultKeyMap,
		help:    help.New(),
		spinner: s,
	}
}

// State exposes the current configurator state.
func (m Model) State() configurator.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.state))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case quoteMsg:
		if msg.err != nil {
			observability.Logger.Warn("quote request failed",
				zap.Uint64("seq", msg.seq),
				zap.Error(msg.err),
			)
			m.state = configurator.QuoteFailed(m.state, msg.seq)
		} else {
			m.state = configurator.QuoteReceived(m.state, msg.seq, msg.quote)
		}
		m.clampFocus()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := m.state.Formula

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		if !m.state.Error {
			return m, nil
		}
		m.state = configurator.Reloaded(m.state)
		return m, m.fetch(m.state)

	case key.Matches(msg, m.keys.DeductibleDown):
		if sel.Deductible > 0 {
			sel.Deductible--
		}
	case key.Matches(msg, m.keys.DeductibleUp):
		if sel.Deductible < formula.MaxDeductibleTier {
			sel.Deductible++
		}
	case key.Matches(msg, m.keys.CeilingDown):
		if sel.Ceiling > 0 {
			sel.Ceiling--
		}
	case key.Matches(msg, m.keys.CeilingUp):
		if sel.Ceiling < formula.MaxCeilingTier {
			sel.Ceiling++
		}

	case key.Matches(msg, m.keys.Next):
		m.focus++
		m.clampFocus()
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.focus--
		m.clampFocus()
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		// covers are hidden behind the error message
		if m.state.Error {
			return m, nil
		}
		lines := m.lines()
		if len(lines) > 0 {
			m.state = configurator.CoverToggled(m.state, lines[m.focus].ID)
		}
		return m, nil

	default:
		return m, nil
	}

	next, fetch, err := configurator.TierChanged(m.state, sel)
	if err != nil {
		// sliders are clamped, so this is a programming error
		observability.Logger.Error("tier change rejected", zap.Error(err))
		return m, nil
	}
	m.state = next
	if !fetch {
		return m, nil
	}
	return m, m.fetch(next)
}

// fetch returns a command requesting a quote for s.Formula tagged with
// s.Issued.
func (m Model) fetch(s configurator.State) tea.Cmd {
	seq := s.Issued
	req, err := pricing.NewRequest(m.profile, s.Formula)
	if err != nil {
		return func() tea.Msg { return quoteMsg{seq: seq, err: err} }
	}

	ctx, q := m.ctx, m.quoter
	return func() tea.Msg {
		res, err := q.Quote(ctx, req)
		return quoteMsg{seq: seq, quote: res, err: err}
	}
}

func (m Model) lines() []quote.Line {
	return m.catalog.Lines(m.state.CoverQuotes, m.state.Covers)
}

func (m *Model) clampFocus() {
	n := len(m.lines())
	switch {
	case n == 0:
		m.focus = 0
	case m.focus < 0:
		m.focus = n - 1
	case m.focus >= n:
		m.focus = 0
	}
}

func (m Model) View() string {
	vm := configurator.View(m.state, m.catalog)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Your insurance"))
	b.WriteString("\n")

	if vm.Error != "" {
		b.WriteString(errorStyle.Render(vm.Error))
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	b.WriteString(headingStyle.Render("Covers"))
	b.WriteString("\n")
	b.WriteString(tipStyle.Render("We've pre-selected the covers we believe are the most important for you."))
	b.WriteString("\n")

	if vm.Loading {
		b.WriteString(m.spinner.View() + " fetching your quote…\n")
	} else {
		for i, line := range vm.Covers {
			b.WriteString(m.renderLine(i, line))
			b.WriteString("\n")
		}
	}

	b.WriteString(sectionStyle.Render(
		headingStyle.Render("Deductible : ") + highlightStyle.Render("€"+vm.Deductible),
	))
	b.WriteString("\n")
	b.WriteString(slider([]formula.Formula{formula.Small, formula.Medium, formula.Large}, vm.DeductibleTier))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render(
		headingStyle.Render("Coverage ceiling : ") + highlightStyle.Render("€"+vm.CoverageCeiling),
	))
	b.WriteString("\n")
	b.WriteString(slider([]formula.Formula{formula.Small, formula.Large}, vm.CeilingTier))
	b.WriteString("\n")

	total := "Your total insurance cost : " + highlightStyle.Render("€"+vm.Total)
	b.WriteString(footerStyle.Width(max(m.width, 40)).Render(total))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderLine(i int, line quote.Line) string {
	box := "[ ]"
	if line.Selected {
		box = "[x]"
	}

	cursor := "  "
	if i == m.focus {
		cursor = focusStyle.Render("> ")
	}

	row := fmt.Sprintf("%s%s %s", cursor, box, line.Title)
	cost := costStyle.Render("+ €" + line.Cost)
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(44).Render(row), cost)
}

func slider(tiers []formula.Formula, active int) string {
	parts := make([]string, len(tiers))
	for i, f := range tiers {
		if i == active {
			parts[i] = highlightStyle.Render("(" + string(f) + ")")
		} else {
			parts[i] = tipStyle.Render(" " + string(f) + " ")
		}
	}
	return strings.Join(parts, " ─ ")
}
