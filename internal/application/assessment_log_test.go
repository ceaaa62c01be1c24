package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessmentLogStatsEmpty(t *testing.T) {
	log := NewAssessmentLog()
	stats := log.Stats(DefaultBudgetMs)

	assert.Equal(t, 0, stats.TotalAssessments)
	assert.Nil(t, stats.PerformanceTargetMet, "no verdict before the first assessment")
	assert.Equal(t, float64(DefaultBudgetMs), stats.TargetMs)
}

func TestAssessmentLogStats(t *testing.T) {
	log := NewAssessmentLog()
	now := time.Now()
	for _, ms := range []float64{10, 20, 60} {
		log.Append(AssessmentSample{Timestamp: now, TotalTimeMs: ms, OverallScore: 40})
	}

	stats := log.Stats(3000)
	assert.Equal(t, 3, stats.TotalAssessments)
	assert.Equal(t, 30.0, stats.AvgTimeMs)
	assert.Equal(t, 10.0, stats.MinTimeMs)
	assert.Equal(t, 60.0, stats.MaxTimeMs)
	require.NotNil(t, stats.PerformanceTargetMet)
	assert.True(t, *stats.PerformanceTargetMet)
}

func TestAssessmentLogStatsTargetMissed(t *testing.T) {
	log := NewAssessmentLog()
	log.Append(AssessmentSample{Timestamp: time.Now(), TotalTimeMs: 5000, OverallScore: 40})

	stats := log.Stats(3000)
	require.NotNil(t, stats.PerformanceTargetMet)
	assert.False(t, *stats.PerformanceTargetMet)
}
