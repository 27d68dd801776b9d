package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Harbour Bridge",
		testutil.WithBudget(250000, 120000),
		testutil.WithWeather(domain.WeatherSevere),
	)
	proj.Stage = "structure"
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
	assert.Equal(t, "Harbour Bridge", fetched.Name)
	assert.Equal(t, "Acme Construction", fetched.Company)
	assert.Equal(t, "structure", fetched.Stage)
	assert.Equal(t, domain.ProjectInProgress, fetched.Status)
	assert.Equal(t, domain.WeatherSevere, fetched.Weather)
	assert.Equal(t, 250000.0, fetched.PlannedBudget)
	assert.Equal(t, 120000.0, fetched.ActualBudget)
	assert.True(t, proj.StartDate.Equal(fetched.StartDate))
	require.NotNil(t, fetched.PlannedEndDate)
	assert.Equal(t, "2024-04-01", fetched.PlannedEndDate.Format(dateLayout))
	assert.Nil(t, fetched.ActualEndDate)
}

func TestProjectRepo_GetByShortID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Tower", testutil.WithShortID("TWR01"))
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByShortID(ctx, "twr01")
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_FindByIDPrefix(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	a := testutil.NewTestProject("Alpha")
	a.ID = "aaaa1111-0000-0000-0000-000000000000"
	b := testutil.NewTestProject("Beta")
	b.ID = "aaaa2222-0000-0000-0000-000000000000"
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	both, err := repo.FindByIDPrefix(ctx, "aaaa")
	require.NoError(t, err)
	assert.Len(t, both, 2)

	one, err := repo.FindByIDPrefix(ctx, "aaaa2")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, b.ID, one[0].ID)
}

func TestProjectRepo_ListFiltersByStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("Running")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("Paused", testutil.WithProjectStatus(domain.ProjectOnHold))))

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onHold := domain.ProjectOnHold
	held, err := repo.List(ctx, &onHold)
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, "Paused", held[0].Name)
}

func TestProjectRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("OrigName")
	require.NoError(t, repo.Create(ctx, proj))

	finished := testutil.Date(2024, 3, 20)
	proj.Name = "NewName"
	proj.Status = domain.ProjectDone
	proj.ActualEndDate = &finished
	proj.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "NewName", fetched.Name)
	assert.Equal(t, domain.ProjectDone, fetched.Status)
	require.NotNil(t, fetched.ActualEndDate)
	assert.True(t, finished.Equal(*fetched.ActualEndDate))
}

func TestProjectRepo_UpdateAndDelete_Missing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Update(ctx, testutil.NewTestProject("Ghost")), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
}

func TestProjectRepo_DeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewSQLiteProjectRepo(db)
	phases := NewSQLitePhaseRepo(db)
	risks := NewSQLiteRiskRepo(db)

	proj := testutil.NewTestProject("Cascade")
	require.NoError(t, projects.Create(ctx, proj))
	phase := testutil.NewTestPhase(proj.ID, "Foundations")
	require.NoError(t, phases.Create(ctx, phase))
	risk := testutil.NewTestRisk(proj.ID, "Flooding")
	require.NoError(t, risks.Create(ctx, risk))

	require.NoError(t, projects.Delete(ctx, proj.ID))

	_, err := phases.GetByID(ctx, phase.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = risks.GetByID(ctx, risk.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
