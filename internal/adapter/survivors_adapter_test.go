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

func TestParseSurvivors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []int
		wantErr bool
	}{
		{name: "empty", content: "", want: nil},
		{name: "comma separated", content: "1,2,3", want: []int{1, 2, 3}},
		{name: "newline separated", content: "3\n1\n2\n", want: []int{3, 1, 2}},
		{name: "bracketed list", content: "[58, 59, 60]", want: []int{58, 59, 60}},
		{name: "comments", content: "# header\n4 5 # trailing\n", want: []int{4, 5}},
		{name: "duplicates kept", content: "7,7", want: []int{7, 7}},
		{name: "not a number", content: "1,two", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSurvivors(tt.content)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSurvivor)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSurvivorSource_LoadSurvivors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survivors.txt")
	require.NoError(t, os.WriteFile(path, []byte("10, 11\n12\n"), 0o600))

	source := NewSurvivorSource(NewLocalArtifactFSAdapter())

	ids, err := source.LoadSurvivors(context.Background(), m.Path(path))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, ids)

	_, err = source.LoadSurvivors(context.Background(), m.Path(path+".missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
