package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gooze.dev/pkg/triage/internal/model"
)

func writeYAML(t *testing.T, content string) m.Path {
	t.Helper()

	path := filepath.Join(t.TempDir(), "file.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return m.Path(path)
}

func TestYAMLLoader_LoadRules(t *testing.T) {
	loader := NewYAMLLoader(NewLocalArtifactFSAdapter())
	path := writeYAML(t, `categories:
  - name: Event Emission
    summary: Event emission rewrites
    patterns:
      - 'emit .*,assert\(true\)'
  - name: Pause Flags
    patterns: ['if \(paused\)']
`)

	categories, err := loader.LoadRules(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []m.ExclusionCategory{
		{Name: "Event Emission", Summary: "Event emission rewrites", Patterns: []string{`emit .*,assert\(true\)`}},
		{Name: "Pause Flags", Patterns: []string{`if \(paused\)`}},
	}, categories)
}

func TestYAMLLoader_LoadRules_Errors(t *testing.T) {
	loader := NewYAMLLoader(NewLocalArtifactFSAdapter())

	_, err := loader.LoadRules(context.Background(), writeYAML(t, "categories:\n  - name: X\n    regex: ['a']\n"))
	require.Error(t, err, "unknown fields are rejected")

	_, err = loader.LoadRules(context.Background(), m.Path(filepath.Join(t.TempDir(), "absent.yaml")))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLLoader_LoadRules_EmptyFile(t *testing.T) {
	loader := NewYAMLLoader(NewLocalArtifactFSAdapter())

	categories, err := loader.LoadRules(context.Background(), writeYAML(t, ""))
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestYAMLLoader_LoadFindings_Defaults(t *testing.T) {
	loader := NewYAMLLoader(NewLocalArtifactFSAdapter())

	findings, err := loader.LoadFindings(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, findings, 3)

	assert.Equal(t, m.Finding{
		Title:       "DeFi Integration",
		First:       148,
		Last:        174,
		Pattern:     "27 consecutive surviving mutations",
		Impact:      "Uniswap/Curve interaction security",
		TestsNeeded: "DeFi protocol failure scenarios",
	}, findings[1])
}

func TestYAMLLoader_LoadFindings_File(t *testing.T) {
	loader := NewYAMLLoader(NewLocalArtifactFSAdapter())
	path := writeYAML(t, `findings:
  - title: Oracle Updates
    first: 1
    last: 9
    pattern: Price refresh skipped
    impact: Stale pricing
    tests_needed: Oracle staleness
`)

	findings, err := loader.LoadFindings(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "Oracle Updates", findings[0].Title)
	assert.Equal(t, "Oracle staleness", findings[0].TestsNeeded)

	findings, err = loader.LoadFindings(context.Background(), writeYAML(t, "findings: []\n"))
	require.NoError(t, err)
	assert.Empty(t, findings, "an explicit empty file disables the bundled findings")
}
