package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/buildflow/internal/app"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/estimate"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/alexanderramin/buildflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEstimationService_ScenarioA(t *testing.T) {
	env := setupServices(t, WithClock(fixedClock(testutil.Date(2024, 2, 15))))
	p := seedScenarioA(t, env)

	resp, err := env.estimation.Estimate(context.Background(), app.EstimateRequest{ProjectRef: p.ShortID})
	require.NoError(t, err)

	assert.Equal(t, p.ID, resp.Project.ID)
	assert.InDelta(t, 66.7, resp.Result.DelayProbability, 1e-9)
	assert.InDelta(t, 44.0, resp.Result.BudgetOverrunEstimate, 1e-9)
	assert.Equal(t, domain.SourceRules, resp.Result.Source)
	assert.Equal(t, estimate.ModelUnavailable, resp.Result.ModelStatus)
	assert.Empty(t, resp.EstimationID)
	assert.Contains(t, resp.Result.Recommendations, estimate.RecReviewRiskRegister)
}

func TestEstimationService_RequestDateOverridesClock(t *testing.T) {
	env := setupServices(t, WithClock(fixedClock(testutil.Date(2030, 1, 1))))
	p := seedScenarioA(t, env)
	day := testutil.Date(2024, 2, 15)

	resp, err := env.estimation.Estimate(context.Background(), app.EstimateRequest{ProjectRef: p.ID, Now: &day})
	require.NoError(t, err)
	assert.Equal(t, 45, resp.Result.Features.DaysElapsed)
}

func TestEstimationService_SaveAndHistory(t *testing.T) {
	env := setupServices(t, WithClock(fixedClock(testutil.Date(2024, 2, 15))))
	ctx := context.Background()
	p := seedScenarioA(t, env)

	first, err := env.estimation.Estimate(ctx, app.EstimateRequest{ProjectRef: p.ShortID, Save: true})
	require.NoError(t, err)
	require.NotEmpty(t, first.EstimationID)

	later := testutil.Date(2024, 3, 1)
	second, err := env.estimation.Estimate(ctx, app.EstimateRequest{ProjectRef: p.ShortID, Save: true, Now: &later})
	require.NoError(t, err)

	history, err := env.estimation.History(ctx, p.ShortID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.EstimationID, history[0].ID, "newest first")
	assert.Equal(t, first.EstimationID, history[1].ID)
	assert.InDelta(t, 66.7, history[1].DelayProbability, 1e-9)
	assert.Equal(t, domain.SourceRules, history[1].Source)
	assert.Equal(t, "unavailable", history[1].ModelStatus)
	assert.Equal(t, first.Result.Recommendations, history[1].Recommendations)

	var features estimate.Features
	require.NoError(t, json.Unmarshal([]byte(history[1].FeaturesJSON), &features))
	assert.Equal(t, first.Result.Features, features)

	limited, err := env.estimation.History(ctx, p.ShortID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	entries, err := env.audit.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "estimation", entries[0].ResourceType)
}

func TestEstimationService_Errors(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	_, err := env.estimation.Estimate(ctx, app.EstimateRequest{ProjectRef: "NOPE01"})
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.estimation.Estimate(ctx, app.EstimateRequest{})
	require.ErrorIs(t, err, ErrInvalidInput)

	open := testutil.NewTestProject("Open Ended")
	open.PlannedEndDate = nil
	require.NoError(t, env.projects.Create(ctx, open))
	_, err = env.estimation.Estimate(ctx, app.EstimateRequest{ProjectRef: open.ShortID})
	require.ErrorIs(t, err, estimate.ErrInvalidSnapshot)
}

func TestEstimationService_EstimateAll(t *testing.T) {
	obs := &recordingObserver{}
	env := setupServices(t,
		WithClock(fixedClock(testutil.Date(2024, 2, 15))),
		WithConcurrency(2),
		WithObserver(obs),
	)
	ctx := context.Background()

	a := seedScenarioA(t, env)
	b := testutil.NewTestProject("Warehouse", testutil.WithBudget(2000, 100))
	require.NoError(t, env.projects.Create(ctx, b))
	broken := testutil.NewTestProject("Open Ended")
	broken.PlannedEndDate = nil
	require.NoError(t, env.projects.Create(ctx, broken))
	finished := testutil.NewTestProject("Finished", testutil.WithProjectStatus(domain.ProjectDone))
	require.NoError(t, env.projects.Create(ctx, finished))

	rows, err := env.estimation.EstimateAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, rows, 3, "only in-progress projects are scored")

	byID := map[string]app.ProjectEstimate{}
	for _, r := range rows {
		byID[r.Project.ID] = r
	}
	require.Contains(t, byID, a.ID)
	require.NotNil(t, byID[a.ID].Result)
	assert.InDelta(t, 66.7, byID[a.ID].Result.DelayProbability, 1e-9)
	require.NoError(t, byID[b.ID].Err)
	require.NotNil(t, byID[b.ID].Result)
	assert.ErrorIs(t, byID[broken.ID].Err, estimate.ErrInvalidSnapshot)
	assert.Nil(t, byID[broken.ID].Result)

	history, err := env.estimation.History(ctx, a.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	assert.Contains(t, obs.names(), "estimate.all")
}

func TestEstimationService_EstimateAllCancelled(t *testing.T) {
	env := setupServices(t)
	seedScenarioA(t, env)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := env.estimation.EstimateAll(ctx, false)
	require.ErrorIs(t, err, context.Canceled)
}
