package domain

import (
	"log/slog"

	m "gooze.dev/pkg/triage/internal/model"
)

// Filter partitions records into excluded and included sets. Both sets keep
// the relative order of the input.
func Filter(engine *RuleEngine, records []m.MutationRecord) m.FilterResult {
	result := m.FilterResult{
		Excluded: []m.Classification{},
		Included: []m.Classification{},
	}

	hits := make(map[string]int)

	for _, record := range records {
		classification := engine.ClassifyRecord(record)
		if classification.Excluded {
			hits[classification.Category]++
			result.Excluded = append(result.Excluded, classification)

			continue
		}

		result.Included = append(result.Included, classification)
	}

	result.Summary = summarize(len(result.Excluded), len(result.Included))
	result.Summary.Categories = engine.Categories()
	result.Summary.Matches = hits

	for _, category := range result.Summary.Categories {
		slog.Debug("Exclusion category applied", "category", category.Name, "matches", hits[category.Name])
	}

	slog.Info("Filtered mutations",
		"total", result.Summary.Total,
		"excluded", result.Summary.Excluded,
		"included", result.Summary.Included,
	)

	return result
}

func summarize(excluded, included int) m.FilterSummary {
	total := excluded + included

	summary := m.FilterSummary{
		Total:           total,
		Excluded:        excluded,
		Included:        included,
		ExcludedPercent: percentage(excluded, total),
	}

	if total > 0 {
		summary.IncludedPercent = 100 - summary.ExcludedPercent
	}

	return summary
}
