package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/estimate"
	"github.com/alexanderramin/buildflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedScenarioA(t *testing.T, ctx context.Context, r *SQLiteSnapshotReader, proj *domain.Project, withLines bool) {
	t.Helper()
	db := r.db
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	phases := NewSQLitePhaseRepo(db)
	for i := 0; i < 10; i++ {
		status := domain.PhasePending
		if i < 2 {
			status = domain.PhaseDone
		}
		require.NoError(t, phases.Create(ctx, testutil.NewTestPhase(proj.ID, "phase", testutil.WithPhaseStatus(status), testutil.WithPhaseOrder(i+1))))
	}
	require.NoError(t, NewSQLiteRiskRepo(db).Create(ctx, testutil.NewTestRisk(proj.ID, "Flooding")))
	if withLines {
		budget := NewSQLiteBudgetRepo(db)
		require.NoError(t, budget.Create(ctx, testutil.NewTestBudgetLine(proj.ID, domain.BudgetActual, 400)))
		require.NoError(t, budget.Create(ctx, testutil.NewTestBudgetLine(proj.ID, domain.BudgetActual, 200)))
		require.NoError(t, budget.Create(ctx, testutil.NewTestBudgetLine(proj.ID, domain.BudgetPlanned, 5000)))
	}
}

func TestSnapshotReader_SumsActualLines(t *testing.T) {
	ctx := context.Background()
	reader := NewSQLiteSnapshotReader(testutil.NewTestDB(t))
	proj := testutil.NewTestProject("Scenario", testutil.WithBudget(1000, 999))
	seedScenarioA(t, ctx, reader, proj, true)

	snap, err := reader.Snapshot(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 600.0, snap.ActualSpent, "actual lines take precedence over the tracked budget")
	assert.Equal(t, 1000.0, snap.PlannedBudget)
	assert.Equal(t, 10, snap.TotalPhases)
	assert.Equal(t, 2, snap.CompletedPhases)
	assert.Equal(t, 1, snap.RiskCount)
	assert.Equal(t, domain.WeatherFair, snap.Weather)

	f, err := estimate.ExtractFeatures(snap, testutil.Date(2024, 2, 15))
	require.NoError(t, err)
	assert.Equal(t, 91, f.PlannedDays)
	assert.Equal(t, 45, f.DaysElapsed)
	assert.InDelta(t, 0.2, f.ProgressRatio, 1e-9)
	assert.InDelta(t, 0.6, f.BudgetRatio, 1e-9)
}

func TestSnapshotReader_FallsBackToTrackedBudget(t *testing.T) {
	ctx := context.Background()
	reader := NewSQLiteSnapshotReader(testutil.NewTestDB(t))
	proj := testutil.NewTestProject("Tracked", testutil.WithBudget(1000, 600))
	seedScenarioA(t, ctx, reader, proj, false)

	snap, err := reader.Snapshot(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 600.0, snap.ActualSpent)
}

func TestSnapshotReader_CountsResolvedRisks(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	reader := NewSQLiteSnapshotReader(db)
	proj := testutil.NewTestProject("Resolved")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	risks := NewSQLiteRiskRepo(db)
	require.NoError(t, risks.Create(ctx, testutil.NewTestRisk(proj.ID, "open")))
	require.NoError(t, risks.Create(ctx, testutil.NewTestRisk(proj.ID, "closed", testutil.WithResolvedAt(testutil.Date(2024, 2, 1)))))

	snap, err := reader.Snapshot(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.RiskCount)
	assert.Zero(t, snap.TotalPhases)
	assert.Zero(t, snap.CompletedPhases)
}

func TestSnapshotReader_UnknownProject(t *testing.T) {
	reader := NewSQLiteSnapshotReader(testutil.NewTestDB(t))
	_, err := reader.Snapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
