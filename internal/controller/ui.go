// Package controller provides console output for triage results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	m "gooze.dev/pkg/triage/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeRun StartMode = iota
	ModeFilter
	ModeSurvival
	ModeCheck
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithFilterMode sets the UI to filter-only mode.
func WithFilterMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeFilter
	}
}

// WithSurvivalMode sets the UI to survival-only mode.
func WithSurvivalMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeSurvival
	}
}

// WithCheckMode sets the UI to reproducibility check mode.
func WithCheckMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeCheck
	}
}

// UI defines how triage progress and results are shown to the operator.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplayParseResult(ctx context.Context, records int, malformed []int)
	DisplayFilterSummary(ctx context.Context, summary m.FilterSummary)
	DisplaySurvivalAnalysis(ctx context.Context, analysis m.SurvivalAnalysis)
	DisplayArtifacts(ctx context.Context, paths []m.Path)
	DisplayDrift(ctx context.Context, name string, diff string)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
