package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gooze.dev/pkg/triage/internal/model"
)

func analysisWith(buckets map[m.GapCategory][]int) m.SurvivalAnalysis {
	analysis := m.SurvivalAnalysis{Buckets: make(map[m.GapCategory][]m.MutationRecord)}

	for category, ids := range buckets {
		for _, id := range ids {
			analysis.Buckets[category] = append(analysis.Buckets[category], m.MutationRecord{ID: id})
			analysis.Surviving++
		}
	}

	return analysis
}

func TestDetectClusters(t *testing.T) {
	analysis := analysisWith(map[m.GapCategory][]int{
		m.GapWeightDistribution:    {58, 59, 60, 61, 62},
		m.GapFinancialCalculations: {63},
		m.GapDeFiIntegration:       {148, 149, 150},
		m.GapOther:                 {10},
	})

	clusters := DetectClusters(analysis, 5)

	require.Len(t, clusters, 1)
	assert.Equal(t, 58, clusters[0].First)
	assert.Equal(t, 63, clusters[0].Last)
	assert.Equal(t, []int{58, 59, 60, 61, 62, 63}, clusters[0].IDs)
	assert.Equal(t, m.GapWeightDistribution, clusters[0].Dominant)
}

func TestDetectClusters_SmallerMinimum(t *testing.T) {
	analysis := analysisWith(map[m.GapCategory][]int{
		m.GapDeFiIntegration:       {6},
		m.GapConditionalStatements: {7},
		m.GapWeightDistribution:    {8, 2},
	})

	clusters := DetectClusters(analysis, 3)

	require.Len(t, clusters, 1)
	assert.Equal(t, []int{6, 7, 8}, clusters[0].IDs)
	assert.Equal(t, m.GapDeFiIntegration, clusters[0].Dominant, "ties go to the first category in report order")
}

func TestDetectClusters_None(t *testing.T) {
	assert.Empty(t, DetectClusters(m.SurvivalAnalysis{}, DefaultMinClusterSize))

	analysis := analysisWith(map[m.GapCategory][]int{m.GapOther: {1, 3, 5, 7}})
	assert.Empty(t, DetectClusters(analysis, 2))
}

func TestDetectClusters_MinimumBelowOne(t *testing.T) {
	analysis := analysisWith(map[m.GapCategory][]int{m.GapOther: {4}})

	clusters := DetectClusters(analysis, 0)

	require.Len(t, clusters, 1)
	assert.Equal(t, 4, clusters[0].First)
	assert.Equal(t, 4, clusters[0].Last)
}
