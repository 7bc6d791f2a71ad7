// Package adapter contains filesystem and file-format adapters for the triage CLI.
package adapter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	m "gooze.dev/pkg/triage/internal/model"
)

// maxLineSize bounds a single mutation log line.
const maxLineSize = 1024 * 1024

// ArtifactFSAdapter abstracts the filesystem operations the workflow needs to
// read its inputs and write report artifacts, so the domain can be tested
// without touching the disk.
type ArtifactFSAdapter interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// ReadLines loads a text file as lines, without line terminators.
	ReadLines(ctx context.Context, path m.Path) ([]string, error)

	// FileInfo returns metadata for a path.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(ctx context.Context, path m.Path) error

	// WriteFile replaces path with content in a single rename so readers never
	// observe a partially written artifact.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalArtifactFSAdapter implements ArtifactFSAdapter on the local disk.
type LocalArtifactFSAdapter struct{}

// NewLocalArtifactFSAdapter constructs a LocalArtifactFSAdapter.
func NewLocalArtifactFSAdapter() *LocalArtifactFSAdapter {
	return &LocalArtifactFSAdapter{}
}

// ReadFile loads file contents from disk.
func (a *LocalArtifactFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// #nosec G304 - path is an operator supplied input artifact
	return os.ReadFile(string(path))
}

// ReadLines loads a text file and splits it into lines.
func (a *LocalArtifactFSAdapter) ReadLines(ctx context.Context, path m.Path) ([]string, error) {
	content, err := a.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}

	return lines, nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalArtifactFSAdapter) FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.Stat(string(path))
}

// MkdirAll creates path and any missing parents.
func (a *LocalArtifactFSAdapter) MkdirAll(ctx context.Context, path m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return os.MkdirAll(string(path), 0o750)
}

// WriteFile writes content to a temporary sibling and renames it over path.
func (a *LocalArtifactFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := string(path)

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()

	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}

	return os.Rename(tmpName, target)
}

// JoinPath joins path elements into a single path.
func (a *LocalArtifactFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
