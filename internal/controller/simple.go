package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/triage/internal/model"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd    *cobra.Command
	styled bool
	mode   StartMode
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// NewUI returns the UI for cmd; headings are styled on a terminal.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	ui := NewSimpleUI(cmd)
	ui.styled = isTTY

	return ui
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := StartConfig{mode: ModeRun}
	for _, option := range options {
		option(&config)
	}

	s.mode = config.mode

	if s.mode == ModeCheck {
		s.heading("Checking report artifacts for drift")
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayParseResult prints how many log lines became records.
func (s *SimpleUI) DisplayParseResult(ctx context.Context, records int, malformed []int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Parsed %d mutation records", records)

	if len(malformed) > 0 {
		s.printf(" (skipped %d malformed line(s): %v)", len(malformed), malformed)
	}

	s.printf("\n")
}

// DisplayFilterSummary prints the filter statistics and per-category matches.
func (s *SimpleUI) DisplayFilterSummary(ctx context.Context, summary m.FilterSummary) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.heading("Smart Filtering Results:")
	s.printf("Total mutations: %d\n", summary.Total)
	s.printf("Excluded (low-value): %d (%.1f%%)\n", summary.Excluded, summary.ExcludedPercent)
	s.printf("Included (high-value): %d (%.1f%%)\n", summary.Included, summary.IncludedPercent)
	s.printf("\n%s", renderCategoryTable(summary))
}

func renderCategoryTable(summary m.FilterSummary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Exclusion Category", "Matches"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, category := range summary.Categories {
		table.Append([]string{category.Name, fmt.Sprintf("%d", summary.Matches[category.Name])})
	}

	table.SetFooter([]string{"Excluded", fmt.Sprintf("%d", summary.Excluded)})
	table.Render()

	return tableBuffer.String()
}

// DisplaySurvivalAnalysis prints surviving mutation counts per gap category.
func (s *SimpleUI) DisplaySurvivalAnalysis(ctx context.Context, analysis m.SurvivalAnalysis) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.heading("Survival Analysis:")
	s.printf("Surviving mutations: %d (%.1f%% of %d)\n", analysis.Surviving, analysis.SurvivalRate, analysis.TotalRecords)

	if len(analysis.Unknown) > 0 {
		s.printf("Unknown surviving IDs skipped: %v\n", analysis.Unknown)
	}

	s.printf("\n%s", renderGapTable(analysis))

	for _, cluster := range analysis.Clusters {
		s.printf("Run %d-%d: %d consecutive survivors, mostly %s\n",
			cluster.First, cluster.Last, len(cluster.IDs), cluster.Dominant.Title())
	}
}

func renderGapTable(analysis m.SurvivalAnalysis) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Gap Category", "Surviving"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, category := range m.GapCategories {
		if n := len(analysis.Buckets[category]); n > 0 {
			table.Append([]string{category.Title(), fmt.Sprintf("%d", n)})
		}
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", analysis.Surviving)})
	table.Render()

	return tableBuffer.String()
}

// DisplayArtifacts lists the files written by the run.
func (s *SimpleUI) DisplayArtifacts(ctx context.Context, paths []m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	for _, path := range paths {
		s.printf("Wrote %s\n", path)
	}
}

// DisplayDrift prints the difference between a stored and a fresh artifact.
func (s *SimpleUI) DisplayDrift(ctx context.Context, name string, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if diff == "" {
		s.printf("%s: up to date\n", name)
		return
	}

	s.printf("%s: drift detected\n%s", name, diff)
}

func (s *SimpleUI) heading(text string) {
	if s.styled {
		text = headingStyle.Render(text)
	}

	s.printf("%s\n", text)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
