package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/alexanderramin/buildflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseService_AddAppendsOrder(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	p := testutil.NewTestProject("Office")
	require.NoError(t, env.projects.Create(ctx, p))

	first := testutil.NewTestPhase(p.ID, "Foundations")
	second := testutil.NewTestPhase(p.ID, "Structure")
	require.NoError(t, env.phases.Add(ctx, first))
	require.NoError(t, env.phases.Add(ctx, second))
	assert.Equal(t, 1, first.OrderIndex)
	assert.Equal(t, 2, second.OrderIndex)

	phases, err := env.phases.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, phases, 2)
	assert.Equal(t, "Foundations", phases[0].Name)
}

func TestPhaseService_AddRejects(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	p := testutil.NewTestProject("Office")
	require.NoError(t, env.projects.Create(ctx, p))

	noName := testutil.NewTestPhase(p.ID, "")
	require.ErrorIs(t, env.phases.Add(ctx, noName), ErrInvalidInput)

	backwards := testutil.NewTestPhase(p.ID, "Roof")
	backwards.PlannedEndDate = testutil.Date(2023, 12, 1)
	require.ErrorIs(t, env.phases.Add(ctx, backwards), ErrInvalidInput)

	badStatus := testutil.NewTestPhase(p.ID, "Roof", testutil.WithPhaseStatus("late"))
	require.ErrorIs(t, env.phases.Add(ctx, badStatus), ErrInvalidInput)

	orphan := testutil.NewTestPhase("missing-project", "Roof")
	require.ErrorIs(t, env.phases.Add(ctx, orphan), repository.ErrNotFound)
}

func TestPhaseService_MarkDoneAndDelete(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	p := testutil.NewTestProject("Office")
	require.NoError(t, env.projects.Create(ctx, p))
	ph := testutil.NewTestPhase(p.ID, "Finishing")
	require.NoError(t, env.phases.Add(ctx, ph))

	done, err := env.phases.MarkDone(ctx, ph.ID, testutil.Date(2024, 2, 10))
	require.NoError(t, err)
	assert.True(t, done.IsDone())
	require.NotNil(t, done.ActualEndDate)
	assert.Equal(t, testutil.Date(2024, 2, 10), *done.ActualEndDate)

	snap, err := repository.NewSQLiteSnapshotReader(env.db).Snapshot(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CompletedPhases)

	require.NoError(t, env.phases.Delete(ctx, ph.ID))
	_, err = env.phases.MarkDone(ctx, ph.ID, testutil.Date(2024, 2, 10))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBudgetService_Add(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	p := testutil.NewTestProject("Office")
	require.NoError(t, env.projects.Create(ctx, p))

	negative := testutil.NewTestBudgetLine(p.ID, domain.BudgetActual, -50)
	require.ErrorIs(t, env.budget.Add(ctx, negative), ErrInvalidInput)

	badKind := testutil.NewTestBudgetLine(p.ID, "forecast", 50)
	require.ErrorIs(t, env.budget.Add(ctx, badKind), ErrInvalidInput)

	credit := testutil.NewTestBudgetLine(p.ID, domain.BudgetAdjustment, -50)
	require.NoError(t, env.budget.Add(ctx, credit))

	undated := &domain.BudgetLine{ProjectID: p.ID, Kind: domain.BudgetActual, Amount: 10}
	require.NoError(t, env.budget.Add(ctx, undated))
	assert.False(t, undated.Date.IsZero())

	lines, err := env.budget.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestBudgetService_Summary(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	t.Run("lines", func(t *testing.T) {
		p := testutil.NewTestProject("Office", testutil.WithBudget(1000, 999))
		require.NoError(t, env.projects.Create(ctx, p))
		for _, line := range []*domain.BudgetLine{
			testutil.NewTestBudgetLine(p.ID, domain.BudgetPlanned, 1200),
			testutil.NewTestBudgetLine(p.ID, domain.BudgetActual, 400),
			testutil.NewTestBudgetLine(p.ID, domain.BudgetActual, 200),
			testutil.NewTestBudgetLine(p.ID, domain.BudgetAdjustment, -100),
		} {
			require.NoError(t, env.budget.Add(ctx, line))
		}

		sum, err := env.budget.Summary(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1200.0, sum.Planned)
		assert.Equal(t, 600.0, sum.Actual)
		assert.Equal(t, -100.0, sum.Adjustments)
		assert.Equal(t, 4, sum.LineCount)
		assert.Equal(t, 500.0, sum.Remaining)
	})

	t.Run("no lines", func(t *testing.T) {
		p := testutil.NewTestProject("Depot", testutil.WithBudget(800, 300))
		require.NoError(t, env.projects.Create(ctx, p))

		sum, err := env.budget.Summary(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 800.0, sum.Planned)
		assert.Equal(t, 300.0, sum.Actual)
		assert.Equal(t, 0, sum.LineCount)
		assert.Equal(t, 500.0, sum.Remaining)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := env.budget.Summary(ctx, "missing")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestRiskService_AddListResolve(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	p := testutil.NewTestProject("Office")
	require.NoError(t, env.projects.Create(ctx, p))

	r := &domain.Risk{ProjectID: p.ID, Name: "Crane failure", Probability: 20}
	require.NoError(t, env.risks.Add(ctx, r))
	assert.Equal(t, domain.RiskMedium, r.Level)
	assert.False(t, r.IdentifiedAt.IsZero())

	bad := testutil.NewTestRisk(p.ID, "Strike")
	bad.Probability = 120
	require.ErrorIs(t, env.risks.Add(ctx, bad), ErrInvalidInput)

	badLevel := testutil.NewTestRisk(p.ID, "Strike", testutil.WithRiskLevel("extreme"))
	require.ErrorIs(t, env.risks.Add(ctx, badLevel), ErrInvalidInput)

	resolved, err := env.risks.Resolve(ctx, r.ID, testutil.Date(2024, 3, 1))
	require.NoError(t, err)
	require.True(t, resolved.IsResolved())

	again, err := env.risks.Resolve(ctx, r.ID, testutil.Date(2024, 3, 9))
	require.NoError(t, err)
	assert.Equal(t, testutil.Date(2024, 3, 1), *again.ResolvedAt, "resolving twice keeps the first date")

	open, err := env.risks.ListByProject(ctx, p.ID, false)
	require.NoError(t, err)
	assert.Empty(t, open)

	all, err := env.risks.ListByProject(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestActionService_AddDefaultsAndRejects(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	p := testutil.NewTestProject("Office")
	other := testutil.NewTestProject("Depot")
	require.NoError(t, env.projects.Create(ctx, p))
	require.NoError(t, env.projects.Create(ctx, other))
	foreign := testutil.NewTestPhase(other.ID, "Groundworks")
	require.NoError(t, env.phases.Add(ctx, foreign))

	a := &domain.Action{ProjectID: p.ID, Title: "Book crane"}
	require.NoError(t, env.actions.Add(ctx, a))
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, domain.ActionTodo, a.Status)
	assert.Equal(t, domain.ActionPriorityHighest, a.Priority)

	badPriority := testutil.NewTestAction(p.ID, "Survey", testutil.WithActionPriority(6))
	require.ErrorIs(t, env.actions.Add(ctx, badPriority), ErrInvalidInput)

	badStatus := testutil.NewTestAction(p.ID, "Survey", testutil.WithActionStatus("blocked"))
	require.ErrorIs(t, env.actions.Add(ctx, badStatus), ErrInvalidInput)

	start := testutil.Date(2024, 3, 10)
	backwards := testutil.NewTestAction(p.ID, "Survey", testutil.WithActionDue(testutil.Date(2024, 3, 1)))
	backwards.StartDate = &start
	require.ErrorIs(t, env.actions.Add(ctx, backwards), ErrInvalidInput)

	crossProject := testutil.NewTestAction(p.ID, "Survey", testutil.WithActionPhase(foreign.ID))
	require.ErrorIs(t, env.actions.Add(ctx, crossProject), ErrInvalidInput)

	missingPhase := testutil.NewTestAction(p.ID, "Survey", testutil.WithActionPhase("nope"))
	require.ErrorIs(t, env.actions.Add(ctx, missingPhase), repository.ErrNotFound)

	orphan := testutil.NewTestAction("missing-project", "Survey")
	require.ErrorIs(t, env.actions.Add(ctx, orphan), repository.ErrNotFound)
}

func TestActionService_CompleteAndCancel(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	p := testutil.NewTestProject("Office")
	require.NoError(t, env.projects.Create(ctx, p))

	pour := testutil.NewTestAction(p.ID, "Pour slab")
	scrap := testutil.NewTestAction(p.ID, "Temporary road")
	require.NoError(t, env.actions.Add(ctx, pour))
	require.NoError(t, env.actions.Add(ctx, scrap))

	done, err := env.actions.Complete(ctx, pour.ID, testutil.Date(2024, 4, 2))
	require.NoError(t, err)
	assert.Equal(t, domain.ActionDone, done.Status)
	require.NotNil(t, done.ActualEndDate)

	again, err := env.actions.Complete(ctx, pour.ID, testutil.Date(2024, 4, 9))
	require.NoError(t, err)
	assert.Equal(t, testutil.Date(2024, 4, 2), *again.ActualEndDate, "completing twice keeps the first date")

	_, err = env.actions.Cancel(ctx, pour.ID)
	require.ErrorIs(t, err, ErrInvalidInput)

	cancelled, err := env.actions.Cancel(ctx, scrap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionCancelled, cancelled.Status)
	assert.Nil(t, cancelled.ActualEndDate)

	_, err = env.actions.Complete(ctx, scrap.ID, testutil.Date(2024, 4, 2))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.actions.Complete(ctx, "missing", testutil.Date(2024, 4, 2))
	require.ErrorIs(t, err, repository.ErrNotFound)

	open, err := env.actions.ListByProject(ctx, p.ID, false)
	require.NoError(t, err)
	assert.Empty(t, open)

	entries, err := env.audit.Recent(ctx, 10)
	require.NoError(t, err)
	var actionUpdates int
	for _, e := range entries {
		if e.ResourceType == "action" && e.Action == domain.AuditUpdate {
			actionUpdates++
			assert.Contains(t, e.Before, `"Status":"todo"`)
		}
	}
	assert.Equal(t, 2, actionUpdates)
}
