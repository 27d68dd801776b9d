package estimate

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func scenarioA() Snapshot {
	return Snapshot{
		StartDate:       date(2024, 1, 1),
		PlannedEndDate:  date(2024, 4, 1),
		PlannedBudget:   1000,
		ActualSpent:     600,
		TotalPhases:     10,
		CompletedPhases: 2,
		RiskCount:       1,
		Status:          domain.ProjectInProgress,
	}
}

func TestExtractFeatures_ScenarioA(t *testing.T) {
	f, err := ExtractFeatures(scenarioA(), *date(2024, 2, 15))
	require.NoError(t, err)

	assert.Equal(t, 91, f.PlannedDays) // 2024 is a leap year
	assert.Equal(t, 45, f.DaysElapsed)
	assert.Equal(t, 46, f.DaysLeft)
	assert.InDelta(t, 0.2, f.ProgressRatio, 1e-9)
	assert.InDelta(t, 0.6, f.BudgetRatio, 1e-9)
	assert.Equal(t, 1, f.RiskCount)
	assert.Equal(t, domain.WeatherFair, f.Weather)
}

func TestExtractFeatures_Idempotent(t *testing.T) {
	today := time.Date(2024, 2, 15, 17, 30, 0, 0, time.UTC)
	a, err := ExtractFeatures(scenarioA(), today)
	require.NoError(t, err)
	b, err := ExtractFeatures(scenarioA(), today)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExtractFeatures_ZeroPhasesAndBudget(t *testing.T) {
	s := scenarioA()
	s.TotalPhases = 0
	s.CompletedPhases = 0
	s.PlannedBudget = 0
	f, err := ExtractFeatures(s, *date(2024, 2, 15))
	require.NoError(t, err)
	assert.Equal(t, 0.0, f.ProgressRatio)
	assert.Equal(t, 0.0, f.BudgetRatio)
}

func TestExtractFeatures_ElapsedClampedToPlannedEnd(t *testing.T) {
	f, err := ExtractFeatures(scenarioA(), *date(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, f.PlannedDays, f.DaysElapsed)
	assert.Equal(t, -61, f.DaysLeft)
}

func TestExtractFeatures_BeforeStart(t *testing.T) {
	f, err := ExtractFeatures(scenarioA(), *date(2023, 12, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, f.DaysElapsed)
	assert.Greater(t, f.DaysLeft, f.PlannedDays)
}

func TestExtractFeatures_SameDayProject(t *testing.T) {
	s := scenarioA()
	s.PlannedEndDate = s.StartDate
	f, err := ExtractFeatures(s, *date(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, f.PlannedDays)
	assert.Equal(t, 0, f.DaysElapsed)
}

func TestExtractFeatures_InvalidSnapshots(t *testing.T) {
	cases := map[string]func(*Snapshot){
		"missing start":       func(s *Snapshot) { s.StartDate = nil },
		"missing end":         func(s *Snapshot) { s.PlannedEndDate = nil },
		"end before start":    func(s *Snapshot) { s.PlannedEndDate = date(2023, 12, 31) },
		"completed > total":   func(s *Snapshot) { s.CompletedPhases = 11 },
		"negative spend":      func(s *Snapshot) { s.ActualSpent = -1 },
		"negative risk count": func(s *Snapshot) { s.RiskCount = -2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := scenarioA()
			mutate(&s)
			_, err := ExtractFeatures(s, *date(2024, 2, 15))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSnapshot))
		})
	}
}
