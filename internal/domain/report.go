package domain

import (
	"fmt"
	"strings"

	m "gooze.dev/pkg/triage/internal/model"
)

// Fixed artifact names written into the reports directory.
const (
	ExcludedArtifact = "excluded-mutations.txt"
	IncludedArtifact = "included-mutations.txt"
	SummaryArtifact  = "filter-summary.md"
	SurvivalArtifact = "survival-analysis.md"
)

// DefaultPreviewSize is the number of example mutations shown per category.
const DefaultPreviewSize = 5

// DefaultProject is the project name used in report titles.
const DefaultProject = "YieldSource"

// ReportOptions controls the presentational parts of the reports.
type ReportOptions struct {
	Project    string
	Preview    int
	MinCluster int
}

func (o ReportOptions) withDefaults() ReportOptions {
	if strings.TrimSpace(o.Project) == "" {
		o.Project = DefaultProject
	}

	if o.Preview <= 0 {
		o.Preview = DefaultPreviewSize
	}

	if o.MinCluster <= 0 {
		o.MinCluster = DefaultMinClusterSize
	}

	return o
}

// RenderPartition renders one raw log line per classification.
func RenderPartition(classifications []m.Classification) []byte {
	var b strings.Builder

	for _, classification := range classifications {
		b.WriteString(classification.Record.Raw)
		b.WriteByte('\n')
	}

	return []byte(b.String())
}

// RenderFilterSummary renders the filter-summary.md document.
func RenderFilterSummary(summary m.FilterSummary, opts ReportOptions) []byte {
	opts = opts.withDefaults()

	var b strings.Builder

	fmt.Fprintf(&b, "# Smart Filter Results for %s\n\n", opts.Project)

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- **Total Mutations**: %d\n", summary.Total)
	fmt.Fprintf(&b, "- **Excluded**: %d (%.1f%%)\n", summary.Excluded, summary.ExcludedPercent)
	fmt.Fprintf(&b, "- **Included**: %d (%.1f%%)\n", summary.Included, summary.IncludedPercent)
	fmt.Fprintf(&b, "- **Malformed Lines Skipped**: %d\n\n", summary.Malformed)

	b.WriteString("## Filtering Efficiency\n")
	fmt.Fprintf(&b, "- **Time Savings**: ~%.0f%% reduction in testing time\n", summary.ExcludedPercent)
	b.WriteString("- **Focus**: DeFi integration and financial calculation logic\n")
	b.WriteString("- **Quality**: High-value mutations only\n\n")

	b.WriteString("## Exclusion Categories Applied\n")

	for i, category := range summary.Categories {
		label := category.Summary
		if label == "" {
			label = category.Name
		}

		fmt.Fprintf(&b, "%d. %s\n", i+1, label)
	}

	return []byte(b.String())
}

// RenderSurvivalReport renders the survival-analysis.md document.
func RenderSurvivalReport(analysis m.SurvivalAnalysis, opts ReportOptions) []byte {
	opts = opts.withDefaults()

	var b strings.Builder

	fmt.Fprintf(&b, "# %s Survival Analysis - Critical Test Coverage Gaps\n\n", opts.Project)

	b.WriteString("## Executive Summary\n")
	fmt.Fprintf(&b, "**Total Surviving**: %d mutations (%.0f%% survival rate)\n", analysis.Surviving, analysis.SurvivalRate)

	if len(analysis.Unknown) > 0 {
		fmt.Fprintf(&b, "**Unknown IDs Skipped**: %d\n", len(analysis.Unknown))
	}

	fmt.Fprintf(&b, "**Critical Finding**: %s\n\n", criticalFinding(analysis))

	for _, category := range m.GapCategories {
		writeCategorySection(&b, category, analysis.Buckets[category], opts.Preview)
	}

	writeFindings(&b, analysis.Findings)
	writeClusters(&b, analysis.Clusters, opts.MinCluster)

	return []byte(b.String())
}

func criticalFinding(analysis m.SurvivalAnalysis) string {
	if analysis.Surviving == 0 {
		return "No surviving mutations to triage"
	}

	largest := m.GapOther
	size := 0

	for _, category := range m.GapCategories {
		if category == m.GapOther {
			continue
		}

		if n := len(analysis.Buckets[category]); n > size {
			largest, size = category, n
		}
	}

	if size == 0 {
		return "Surviving mutations do not match any known gap pattern"
	}

	return fmt.Sprintf("Largest test coverage gap in %s (%d mutations)", largest.Title(), size)
}

func writeCategorySection(b *strings.Builder, category m.GapCategory, records []m.MutationRecord, preview int) {
	if len(records) == 0 {
		return
	}

	fmt.Fprintf(b, "## %s (%d mutations)\n\n", category.Title(), len(records))

	for _, record := range records[:min(preview, len(records))] {
		fmt.Fprintf(b, "**Mutation %d**: %s\n", record.ID, record.Type)
		fmt.Fprintf(b, "- Location: %s\n", record.Location)
		fmt.Fprintf(b, "- Description: %s\n\n", record.Description)
	}

	if rest := len(records) - preview; rest > 0 {
		fmt.Fprintf(b, "... and %d more similar mutations\n\n", rest)
	}
}

func writeFindings(b *strings.Builder, findings []m.Finding) {
	if len(findings) == 0 {
		return
	}

	b.WriteString("## Major Gap Clusters\n\n")

	for i, finding := range findings {
		fmt.Fprintf(b, "### Cluster %d: %s (%d-%d)\n", i+1, finding.Title, finding.First, finding.Last)
		fmt.Fprintf(b, "- **Pattern**: %s\n", finding.Pattern)
		fmt.Fprintf(b, "- **Impact**: %s\n", finding.Impact)
		fmt.Fprintf(b, "- **Tests Needed**: %s\n\n", finding.TestsNeeded)
	}
}

func writeClusters(b *strings.Builder, clusters []m.Cluster, minSize int) {
	b.WriteString("## Surviving ID Runs\n\n")

	if len(clusters) == 0 {
		fmt.Fprintf(b, "No runs of %d or more consecutive surviving mutations.\n", minSize)
		return
	}

	for _, cluster := range clusters {
		fmt.Fprintf(b, "- **%d-%d** (%d consecutive): mostly %s\n",
			cluster.First, cluster.Last, len(cluster.IDs), cluster.Dominant.Title())
	}
}
