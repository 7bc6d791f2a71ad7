package adapter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	m "gooze.dev/pkg/triage/internal/model"
)

// ErrInvalidSurvivor is returned for survivor list entries that are not IDs.
var ErrInvalidSurvivor = errors.New("invalid surviving mutation id")

// SurvivorSource loads the externally supplied list of surviving mutation IDs.
type SurvivorSource interface {
	LoadSurvivors(ctx context.Context, path m.Path) ([]int, error)
}

type survivorSource struct {
	fs ArtifactFSAdapter
}

// NewSurvivorSource returns a SurvivorSource reading through fsAdapter.
func NewSurvivorSource(fsAdapter ArtifactFSAdapter) SurvivorSource {
	return &survivorSource{fs: fsAdapter}
}

func (s *survivorSource) LoadSurvivors(ctx context.Context, path m.Path) ([]int, error) {
	content, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read survivors %s: %w", path, err)
	}

	return ParseSurvivors(string(content))
}

// ParseSurvivors reads IDs separated by commas, whitespace or newlines. Text
// after '#' on a line is a comment. Order is preserved.
func ParseSurvivors(content string) ([]int, error) {
	var ids []int

	for lineNo, line := range strings.Split(content, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == '[' || r == ']' || unicode.IsSpace(r)
		})

		for _, field := range fields {
			id, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: %q: %w", lineNo+1, field, ErrInvalidSurvivor)
			}

			ids = append(ids, id)
		}
	}

	return ids, nil
}
