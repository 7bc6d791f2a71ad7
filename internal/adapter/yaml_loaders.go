package adapter

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	m "gooze.dev/pkg/triage/internal/model"
)

//go:embed default_findings.yaml
var defaultFindings []byte

type rulesFile struct {
	Categories []m.ExclusionCategory `yaml:"categories"`
}

type findingsFile struct {
	Findings []m.Finding `yaml:"findings"`
}

// RulesLoader reads user supplied exclusion categories.
type RulesLoader interface {
	LoadRules(ctx context.Context, path m.Path) ([]m.ExclusionCategory, error)
}

// FindingsLoader reads the hand-curated gap cluster findings.
type FindingsLoader interface {
	// LoadFindings returns the findings in path, or the bundled findings when
	// path is empty.
	LoadFindings(ctx context.Context, path m.Path) ([]m.Finding, error)
}

// YAMLLoader implements RulesLoader and FindingsLoader over YAML files.
type YAMLLoader struct {
	fs ArtifactFSAdapter
}

// NewYAMLLoader returns a YAMLLoader reading through fsAdapter.
func NewYAMLLoader(fsAdapter ArtifactFSAdapter) *YAMLLoader {
	return &YAMLLoader{fs: fsAdapter}
}

// LoadRules parses a rules file of the form:
//
//	categories:
//	  - name: Event Emission
//	    summary: Event emission rewrites
//	    patterns: ['emit .*,assert\(true\)']
func (l *YAMLLoader) LoadRules(ctx context.Context, path m.Path) ([]m.ExclusionCategory, error) {
	content, err := l.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}

	var file rulesFile
	if err := decodeStrict(content, &file); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}

	return file.Categories, nil
}

// LoadFindings implements FindingsLoader.
func (l *YAMLLoader) LoadFindings(ctx context.Context, path m.Path) ([]m.Finding, error) {
	content := defaultFindings

	if path != "" {
		var err error

		content, err = l.fs.ReadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("read findings %s: %w", path, err)
		}
	}

	var file findingsFile
	if err := decodeStrict(content, &file); err != nil {
		return nil, fmt.Errorf("parse findings: %w", err)
	}

	return file.Findings, nil
}

func decodeStrict(content []byte, out any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}
