package services

import (
	"testing"

	"callbot-management/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceConsultationStatsHistogram(t *testing.T) {
	consultations := []models.Consultation{
		{Result: models.ResultNotPossible, Runtime: 100},
		{Result: models.ResultNoActionNeeded, Runtime: 200},
		{Result: models.ResultNoActionNeeded, Runtime: 300},
		{Result: models.ResultDeepDiveNeeded, Runtime: 400},
	}

	hist, successRate, averageRuntime, _, _ := ReduceConsultationStats(consultations)

	assert.Equal(t, 1, hist.NotPossible)
	assert.Equal(t, 2, hist.NoActionNeeded)
	assert.Equal(t, 1, hist.DeepDiveNeeded)
	assert.InDelta(t, 75.0, successRate, 0.001)
	assert.InDelta(t, 250.0, averageRuntime, 0.001)
}

func TestReduceConsultationStatsEmpty(t *testing.T) {
	hist, successRate, averageRuntime, riskCounts, desireCounts := ReduceConsultationStats(nil)

	assert.Equal(t, ResultHistogram{}, hist)
	assert.Equal(t, 0.0, successRate)
	assert.Equal(t, 0.0, averageRuntime)
	assert.Empty(t, riskCounts)
	assert.Empty(t, desireCounts)
}

func TestReduceConsultationStatsSumsIndexCounts(t *testing.T) {
	consultations := []models.Consultation{
		{
			Result: models.ResultDeepDiveNeeded,
			ResultVulnerabilities: &models.VulnerabilityInfo{
				RiskIndexCount:   map[string]int{"2": 3, "6": 1},
				DesireIndexCount: map[string]int{"1": 2},
			},
		},
		{
			Result: models.ResultNoActionNeeded,
			ResultVulnerabilities: &models.VulnerabilityInfo{
				RiskIndexCount:   map[string]int{"2": 1, "bogus": 7},
				DesireIndexCount: map[string]int{"1": 1, "6": 4},
			},
		},
		{Result: models.ResultNotPossible}, // no vulnerability info
	}

	_, _, _, riskCounts, desireCounts := ReduceConsultationStats(consultations)

	assert.Equal(t, map[int]int{2: 4, 6: 1}, riskCounts)
	assert.Equal(t, map[int]int{1: 3, 6: 4}, desireCounts)
}

func TestTopTypesRankingAndTieBreak(t *testing.T) {
	counts := map[int]int{1: 5, 2: 9, 3: 5, 7: 1}

	top := TopTypes(counts, models.RiskTypes, 3)

	require.Len(t, top, 3)
	assert.Equal(t, 2, top[0].Index)
	assert.Equal(t, "주거위기", top[0].Label)
	// 1 and 3 tie on count; lower index ranks first.
	assert.Equal(t, 1, top[1].Index)
	assert.Equal(t, 3, top[2].Index)
}

func TestTopTypesUnknownIndexKeepsEmptyLabel(t *testing.T) {
	top := TopTypes(map[int]int{42: 1}, models.RiskTypes, 5)
	require.Len(t, top, 1)
	assert.Equal(t, 42, top[0].Index)
	assert.Equal(t, "", top[0].Label)
}
