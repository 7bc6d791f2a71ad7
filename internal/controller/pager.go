package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const defaultWrapWidth = 80

var (
	pagerTitleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
	pagerInfoStyle = lipgloss.NewStyle().Faint(true)
)

// Pager shows a markdown report, interactively when output is a terminal.
type Pager struct {
	output      io.Writer
	interactive bool
}

// NewPager creates a Pager writing to output.
func NewPager(output io.Writer, interactive bool) *Pager {
	return &Pager{output: output, interactive: interactive}
}

// Show renders markdown and, on a terminal, opens a scrollable view of it.
// Non-interactive output receives the raw markdown.
func (p *Pager) Show(ctx context.Context, title string, markdown []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !p.interactive {
		_, err := p.output.Write(markdown)
		return err
	}

	model := newPagerModel(title, renderMarkdown(string(markdown), defaultWrapWidth))

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run pager: %w", err)
	}

	return nil
}

func renderMarkdown(markdown string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		slog.Warn("Markdown renderer unavailable", "error", err)
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		slog.Warn("Failed to render markdown", "error", err)
		return markdown
	}

	return rendered
}

// pagerModel is the Bubble Tea model behind Pager.
type pagerModel struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
}

func newPagerModel(title, content string) pagerModel {
	return pagerModel{title: title, content: content}
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return pm, tea.Quit
		}
	case tea.WindowSizeMsg:
		chrome := lipgloss.Height(pm.headerView()) + lipgloss.Height(pm.footerView())
		if !pm.ready {
			pm.viewport = viewport.New(msg.Width, msg.Height-chrome)
			pm.viewport.SetContent(pm.content)
			pm.ready = true
		} else {
			pm.viewport.Width = msg.Width
			pm.viewport.Height = msg.Height - chrome
		}
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	if !pm.ready {
		return "Loading..."
	}

	return strings.Join([]string{pm.headerView(), pm.viewport.View(), pm.footerView()}, "\n")
}

func (pm pagerModel) headerView() string {
	return pagerTitleStyle.Render(pm.title)
}

func (pm pagerModel) footerView() string {
	percent := 0.0
	if pm.ready {
		percent = pm.viewport.ScrollPercent() * 100
	}

	return pagerInfoStyle.Render(fmt.Sprintf("%3.f%%  q to quit", percent))
}
