package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"

	m "gooze.dev/pkg/triage/internal/model"
)

// artifactPerm is the mode used for every written report artifact.
const artifactPerm = 0o644

// ReportStore persists named report artifacts inside a reports directory.
type ReportStore interface {
	SaveArtifact(ctx context.Context, dir m.Path, name string, content []byte) error
	LoadArtifact(ctx context.Context, dir m.Path, name string) ([]byte, error)
	// Compare returns a unified diff between the stored artifact and content,
	// or an empty string when they are identical.
	Compare(ctx context.Context, dir m.Path, name string, content []byte) (string, error)
}

type reportStore struct {
	fs ArtifactFSAdapter
}

// NewReportStore returns a ReportStore backed by fsAdapter.
func NewReportStore(fsAdapter ArtifactFSAdapter) ReportStore {
	return &reportStore{fs: fsAdapter}
}

func (s *reportStore) SaveArtifact(ctx context.Context, dir m.Path, name string, content []byte) error {
	if err := s.fs.MkdirAll(ctx, dir); err != nil {
		slog.Error("Failed to create reports directory", "dir", dir, "error", err)
		return fmt.Errorf("create reports directory: %w", err)
	}

	path := s.fs.JoinPath(string(dir), name)
	if err := s.fs.WriteFile(ctx, path, content, artifactPerm); err != nil {
		slog.Error("Failed to write artifact", "path", path, "error", err)
		return fmt.Errorf("write %s: %w", name, err)
	}

	slog.Debug("Wrote artifact", "path", path, "bytes", len(content))

	return nil
}

func (s *reportStore) LoadArtifact(ctx context.Context, dir m.Path, name string) ([]byte, error) {
	path := s.fs.JoinPath(string(dir), name)

	content, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return content, nil
}

func (s *reportStore) Compare(ctx context.Context, dir m.Path, name string, content []byte) (string, error) {
	stored, err := s.LoadArtifact(ctx, dir, name)

	missing := errors.Is(err, fs.ErrNotExist)
	if err != nil && !missing {
		return "", err
	}

	if !missing && string(stored) == string(content) {
		return "", nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(stored)),
		B:        difflib.SplitLines(string(content)),
		FromFile: string(s.fs.JoinPath(string(dir), name)),
		ToFile:   name + " (current run)",
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", name, err)
	}

	if missing && diff == "" {
		diff = fmt.Sprintf("--- %s (missing)\n", s.fs.JoinPath(string(dir), name))
	}

	return diff, nil
}
