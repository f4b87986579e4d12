package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"jan-server/services/model-browser/internal/domain/catalog"
)

const (
	searchDebounce = 200 * time.Millisecond
	requestTimeout = 10 * time.Second
	browseLimit    = 100
)

// Theme holds the color scheme for the browser.
type Theme struct {
	Accent   lipgloss.Color
	Selected lipgloss.Color
	Count    lipgloss.Color
	Warning  lipgloss.Color
	Error    lipgloss.Color
	Hint     lipgloss.Color
}

var defaultTheme = Theme{
	Accent:   lipgloss.Color("#5FAFD7"),
	Selected: lipgloss.Color("#00D787"),
	Count:    lipgloss.Color("#AF87FF"),
	Warning:  lipgloss.Color("#FFAF00"),
	Error:    lipgloss.Color("#FF005F"),
	Hint:     lipgloss.Color("#6C6C6C"),
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) selectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Selected).Bold(true)
}

func (t Theme) countStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Count)
}

func (t Theme) warningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Warning)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// debounceMsg fires after input settles. Only the current token runs a query.
type debounceMsg struct {
	token int
}

type searchResultMsg struct {
	token int
	rows  []catalog.Row
	err   error
}

type openResultMsg struct {
	model  string
	action *catalog.ActionDefinition
	err    error
}

// browseModel is the bubbletea model for the model search dialog.
type browseModel struct {
	api      API
	input    textinput.Model
	open     bool
	rows     []catalog.Row
	selected int
	loading  bool
	err      error
	warning  string
	// token counts input changes; applied is the newest token whose rows are shown.
	token    int
	applied  int
	limit    int
	debounce time.Duration
	result   *catalog.ActionDefinition
	quitting bool
	theme    Theme
}

func newBrowseModel(api API, limit int) browseModel {
	input := textinput.New()
	input.Placeholder = "Search models..."
	input.Prompt = "> "
	input.Focus()

	return browseModel{
		api:      api,
		input:    input,
		open:     true,
		loading:  true,
		limit:    limit,
		debounce: searchDebounce,
		theme:    defaultTheme,
	}
}

// Init loads the unfiltered listing.
func (m browseModel) Init() tea.Cmd {
	return m.search(m.token, "")
}

// Update handles messages and returns the updated model.
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if cmd, handled := m.handleKey(msg.String()); handled {
			return m, cmd
		}
		if !m.open {
			return m, nil
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			return m, tea.Batch(cmd, m.scheduleSearch())
		}
		return m, cmd

	case debounceMsg:
		if msg.token != m.token {
			return m, nil
		}
		return m, m.search(msg.token, m.input.Value())

	case searchResultMsg:
		if msg.token < m.applied {
			return m, nil
		}
		m.applied = msg.token
		if msg.token == m.token {
			m.loading = false
		}
		if msg.err != nil {
			m.err = msg.err
			m.rows = nil
			m.selected = 0
			return m, nil
		}
		m.err = nil
		m.rows = msg.rows
		m.selected = 0
		return m, nil

	case openResultMsg:
		m.loading = false
		if msg.err != nil || msg.action == nil {
			m.warning = "Cannot open model: " + msg.model
			return m, nil
		}
		m.result = msg.action
		m.open = false
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey applies the browser's key bindings. handled is false for keys meant for the input.
func (m *browseModel) handleKey(key string) (tea.Cmd, bool) {
	switch key {
	case "ctrl+c":
		m.quitting = true
		return tea.Quit, true
	case "alt+m":
		m.open = !m.open
		if !m.open {
			return nil, true
		}
		m.input.SetValue("")
		m.warning = ""
		return m.scheduleSearch(), true
	}

	if !m.open {
		if key == "q" {
			m.quitting = true
			return tea.Quit, true
		}
		return nil, false
	}

	switch key {
	case "esc":
		m.open = false
		return nil, true
	case "up":
		if m.selected > 0 {
			m.selected--
		}
		return nil, true
	case "down":
		if m.selected < len(m.rows)-1 {
			m.selected++
		}
		return nil, true
	case "enter":
		if len(m.rows) == 0 {
			return nil, true
		}
		row := m.rows[m.selected]
		if row.Model == catalog.ErrorRowModel {
			return nil, true
		}
		m.warning = ""
		m.loading = true
		return m.resolve(row.Model), true
	}
	return nil, false
}

// scheduleSearch bumps the request token and waits for input to settle.
func (m *browseModel) scheduleSearch() tea.Cmd {
	m.token++
	m.loading = true
	token := m.token
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{token: token}
	})
}

func (m browseModel) search(token int, term string) tea.Cmd {
	api, limit := m.api, m.limit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		rows, err := api.Search(ctx, term, limit)
		return searchResultMsg{token: token, rows: rows, err: err}
	}
}

func (m browseModel) resolve(model string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		action, err := api.Open(ctx, model)
		return openResultMsg{model: model, action: action, err: err}
	}
}

// View renders the dialog.
func (m browseModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m browseModel) renderContent() string {
	if m.quitting || m.result != nil {
		return ""
	}
	if !m.open {
		return m.theme.hintStyle().Render("Press alt+m to search models, q to quit") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.theme.titleStyle().Render("Browse models"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(m.theme.errorStyle().Render("Search failed: " + m.err.Error()))
		b.WriteString("\n")
	case m.loading && len(m.rows) == 0:
		b.WriteString(m.theme.hintStyle().Render("Loading..."))
		b.WriteString("\n")
	case len(m.rows) == 0:
		b.WriteString(m.theme.hintStyle().Render("No models found"))
		b.WriteString("\n")
	}

	for i, row := range m.rows {
		line := fmt.Sprintf("%-40s %-32s", row.Name, row.Model)
		count := m.theme.countStyle().Render(formatCount(row.Count))
		if i == m.selected {
			b.WriteString(m.theme.selectedStyle().Render("> "+line) + " " + count + "\n")
			continue
		}
		b.WriteString("  " + line + " " + count + "\n")
	}

	if m.warning != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.warningStyle().Render(m.warning))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.hintStyle().Render("up/down select, enter open, esc close, ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}

func newBrowseCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search models interactively",
		Long: `Open the interactive model search dialog.

Typing filters models by name or technical identifier. Enter opens the
selected model's list view, esc closes the dialog and alt+m reopens it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", browseLimit, "max model descriptors to scan per search")
	return cmd
}

func runBrowse(cmd *cobra.Command, opts *rootOptions, limit int) error {
	p := tea.NewProgram(newBrowseModel(opts.api(), limit),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("browse UI error: %w", err)
	}

	if m, ok := final.(browseModel); ok && m.result != nil {
		printNavigation(cmd.OutOrStdout(), opts.settings, m.result)
	}
	return nil
}
