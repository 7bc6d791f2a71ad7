package domain

import (
	"slices"

	m "gooze.dev/pkg/triage/internal/model"
)

// DefaultMinClusterSize is the shortest run of consecutive surviving IDs
// reported as a cluster.
const DefaultMinClusterSize = 5

// DetectClusters finds maximal runs of consecutive surviving IDs with at least
// minSize members. Each cluster is labelled with its most common gap category;
// ties go to the category that comes first in report order.
func DetectClusters(analysis m.SurvivalAnalysis, minSize int) []m.Cluster {
	if minSize < 1 {
		minSize = 1
	}

	categoryOf := make(map[int]m.GapCategory, analysis.Surviving)
	ids := make([]int, 0, analysis.Surviving)

	for _, category := range m.GapCategories {
		for _, record := range analysis.Buckets[category] {
			categoryOf[record.ID] = category
			ids = append(ids, record.ID)
		}
	}

	slices.Sort(ids)
	ids = slices.Compact(ids)

	var clusters []m.Cluster

	for start := 0; start < len(ids); {
		end := start + 1
		for end < len(ids) && ids[end] == ids[end-1]+1 {
			end++
		}

		if end-start >= minSize {
			run := slices.Clone(ids[start:end])
			clusters = append(clusters, m.Cluster{
				First:    run[0],
				Last:     run[len(run)-1],
				IDs:      run,
				Dominant: dominantCategory(run, categoryOf),
			})
		}

		start = end
	}

	return clusters
}

func dominantCategory(ids []int, categoryOf map[int]m.GapCategory) m.GapCategory {
	counts := make(map[m.GapCategory]int)
	for _, id := range ids {
		counts[categoryOf[id]]++
	}

	best := m.GapOther
	bestCount := 0

	for _, category := range m.GapCategories {
		if counts[category] > bestCount {
			best = category
			bestCount = counts[category]
		}
	}

	return best
}
