package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPager_ShowNonInteractive(t *testing.T) {
	var buf bytes.Buffer

	pager := NewPager(&buf, false)
	require.NoError(t, pager.Show(context.Background(), "survival-analysis.md", []byte("# Title\n")))

	assert.Equal(t, "# Title\n", buf.String())
}

func TestPager_ShowCanceled(t *testing.T) {
	var buf bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, NewPager(&buf, false).Show(ctx, "x", []byte("y")), context.Canceled)
	assert.Empty(t, buf.String())
}

func TestRenderMarkdown(t *testing.T) {
	out := renderMarkdown("# Heading\n\nSome **bold** text.\n", 40)

	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "bold")
}

func TestPagerModel_Lifecycle(t *testing.T) {
	model := newPagerModel("filter-summary.md", "line one\nline two\n")
	assert.Nil(t, model.Init())
	assert.Equal(t, "Loading...", model.View())

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	pm, ok := updated.(pagerModel)
	require.True(t, ok)
	require.True(t, pm.ready)

	view := pm.View()
	assert.Contains(t, view, "filter-summary.md")
	assert.Contains(t, view, "line one")
	assert.Contains(t, view, "q to quit")

	updated, _ = pm.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	pm = updated.(pagerModel)
	assert.Equal(t, 30, pm.viewport.Width)
	assert.Less(t, pm.viewport.Height, 10)
}

func TestPagerModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		t.Run(strings.TrimSpace(key.String()), func(t *testing.T) {
			_, cmd := newPagerModel("t", "c").Update(key)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}
