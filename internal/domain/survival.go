package domain

import (
	"log/slog"
	"strings"

	m "gooze.dev/pkg/triage/internal/model"
)

// DefaultProtocols are the integration venue names matched by the categorizer.
var DefaultProtocols = []string{"uniswap", "curve", "convex"}

// Categorizer buckets surviving mutations into gap categories.
type Categorizer struct {
	protocols []string
}

// NewCategorizer returns a Categorizer matching the given protocol names.
// An empty list falls back to DefaultProtocols.
func NewCategorizer(protocols []string) *Categorizer {
	normalized := make([]string, 0, len(protocols))

	for _, protocol := range protocols {
		protocol = strings.ToLower(strings.TrimSpace(protocol))
		if protocol != "" {
			normalized = append(normalized, protocol)
		}
	}

	if len(normalized) == 0 {
		normalized = append(normalized, DefaultProtocols...)
	}

	return &Categorizer{protocols: normalized}
}

// CategoryOf assigns a single record to the first matching gap category.
// A description carrying both an amount calculation and a protocol name is a
// financial calculation.
func (c *Categorizer) CategoryOf(record m.MutationRecord) m.GapCategory {
	description := strings.ToLower(record.Description)

	switch {
	case strings.Contains(description, "weight") || strings.Contains(description, "10000"):
		return m.GapWeightDistribution
	case strings.Contains(description, "slippage") || strings.Contains(description, "minout"):
		return m.GapSlippageProtection
	case strings.Contains(description, "amount") && strings.ContainsAny(description, "*/"):
		return m.GapFinancialCalculations
	case c.mentionsProtocol(description):
		return m.GapDeFiIntegration
	case record.Type == m.IfStatementMutation:
		return m.GapConditionalStatements
	case record.Type == m.AssignmentMutation:
		return m.GapAssignments
	case strings.Contains(strings.ToLower(record.Location), "constructor"):
		return m.GapConstructorLogic
	case strings.Contains(description, "i++") || strings.Contains(description, "loop"):
		return m.GapLoopOperations
	default:
		return m.GapOther
	}
}

func (c *Categorizer) mentionsProtocol(description string) bool {
	for _, protocol := range c.protocols {
		if strings.Contains(description, protocol) {
			return true
		}
	}

	return false
}

// Categorize buckets every known surviving ID. Survivors are visited in the
// supplied order; repeated IDs count once and unknown IDs are skipped.
func (c *Categorizer) Categorize(records []m.MutationRecord, survivors []int) m.SurvivalAnalysis {
	index := indexRecords(records)

	analysis := m.SurvivalAnalysis{
		Buckets:      make(map[m.GapCategory][]m.MutationRecord, len(m.GapCategories)),
		TotalRecords: len(records),
	}

	seen := make(map[int]struct{}, len(survivors))

	for _, id := range survivors {
		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}

		record, ok := index[id]
		if !ok {
			slog.Debug("Surviving mutation not found in log", "id", id)
			analysis.Unknown = append(analysis.Unknown, id)

			continue
		}

		category := c.CategoryOf(record)
		analysis.Buckets[category] = append(analysis.Buckets[category], record)
		analysis.Surviving++
	}

	analysis.SurvivalRate = percentage(analysis.Surviving, analysis.TotalRecords)

	slog.Info("Categorized surviving mutations",
		"surviving", analysis.Surviving,
		"unknown", len(analysis.Unknown),
		"rate", analysis.SurvivalRate,
	)

	return analysis
}

// indexRecords maps IDs to records. A repeated ID keeps its last occurrence.
func indexRecords(records []m.MutationRecord) map[int]m.MutationRecord {
	index := make(map[int]m.MutationRecord, len(records))

	for _, record := range records {
		if prev, dup := index[record.ID]; dup {
			slog.Debug("Duplicate mutation id", "id", record.ID, "firstLine", prev.Line, "line", record.Line)
		}

		index[record.ID] = record
	}

	return index
}
