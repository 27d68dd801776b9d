package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/alexanderramin/buildflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CreateAppliesDefaults(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	p := &domain.Project{ShortID: "brg01", Name: "Bridge", StartDate: testutil.Date(2024, 3, 1)}
	require.NoError(t, env.projects.Create(ctx, p))

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "BRG01", p.ShortID)
	assert.Equal(t, domain.ProjectInProgress, p.Status)
	assert.Equal(t, domain.WeatherFair, p.Weather)

	got, err := env.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bridge", got.Name)

	entries, err := env.audit.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditCreate, entries[0].Action)
	assert.Equal(t, "project", entries[0].ResourceType)
	assert.Equal(t, p.ID, entries[0].ResourceID)
}

func TestProjectService_CreateRejectsInvalid(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(p *domain.Project)
	}{
		{"bad short id", func(p *domain.Project) { p.ShortID = "X1" }},
		{"missing name", func(p *domain.Project) { p.Name = "" }},
		{"bad weather", func(p *domain.Project) { p.Weather = "stormy" }},
		{"bad status", func(p *domain.Project) { p.Status = "paused" }},
		{"negative budget", func(p *domain.Project) { p.PlannedBudget = -1 }},
		{"end before start", func(p *domain.Project) {
			end := testutil.Date(2023, 12, 1)
			p.PlannedEndDate = &end
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.NewTestProject("Invalid")
			tt.mutate(p)
			err := env.projects.Create(ctx, p)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	all, err := env.projects.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProjectService_Resolve(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	a := testutil.NewTestProject("Alpha", testutil.WithShortID("ALP01"))
	a.ID = "aaaa1111-0000-4000-8000-000000000001"
	b := testutil.NewTestProject("Beta", testutil.WithShortID("BET01"))
	b.ID = "aaaa2222-0000-4000-8000-000000000002"
	require.NoError(t, env.projects.Create(ctx, a))
	require.NoError(t, env.projects.Create(ctx, b))

	got, err := env.projects.Resolve(ctx, "alp01")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID, "short id lookup is case-insensitive")

	got, err = env.projects.Resolve(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	got, err = env.projects.Resolve(ctx, "AAAA2222")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = env.projects.Resolve(ctx, "aaaa")
	require.ErrorIs(t, err, ErrAmbiguousProject)

	_, err = env.projects.Resolve(ctx, "ffff0000")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.projects.Resolve(ctx, "aa")
	require.ErrorIs(t, err, repository.ErrNotFound, "short refs never prefix-match")

	_, err = env.projects.Resolve(ctx, "  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Harbour")
	require.NoError(t, env.projects.Create(ctx, p))

	p.Weather = domain.WeatherSevere
	p.Status = domain.ProjectOnHold
	require.NoError(t, env.projects.Update(ctx, p))

	got, err := env.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WeatherSevere, got.Weather)
	assert.Equal(t, domain.ProjectOnHold, got.Status)

	require.NoError(t, env.projects.Delete(ctx, p.ID))
	_, err = env.projects.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = env.projects.Delete(ctx, p.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	entries, err := env.audit.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.AuditDelete, entries[0].Action)
	assert.Equal(t, domain.AuditUpdate, entries[1].Action)
	assert.Equal(t, domain.AuditCreate, entries[2].Action)

	var before, after domain.Project
	require.NoError(t, json.Unmarshal([]byte(entries[1].Before), &before))
	require.NoError(t, json.Unmarshal([]byte(entries[1].After), &after))
	assert.Equal(t, domain.WeatherFair, before.Weather)
	assert.Equal(t, domain.ProjectInProgress, before.Status)
	assert.Equal(t, domain.WeatherSevere, after.Weather)
	assert.Equal(t, domain.ProjectOnHold, after.Status)

	assert.Empty(t, entries[2].Before)
	assert.Contains(t, entries[2].After, `"Name":"Harbour"`)
	assert.Contains(t, entries[0].Before, `"Name":"Harbour"`)
	assert.Empty(t, entries[0].After)
}

func TestProjectService_AuditFailureDoesNotFailCreate(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), failingAuditRepo{})

	p := testutil.NewTestProject("Depot")
	require.NoError(t, svc.Create(context.Background(), p))

	got, err := svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Depot", got.Name)
}

func TestProjectService_ObservesUseCases(t *testing.T) {
	database := testutil.NewTestDB(t)
	obs := &recordingObserver{}
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), nil, obs)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, testutil.NewTestProject("Quay")))
	bad := testutil.NewTestProject("Quay")
	bad.Name = ""
	require.Error(t, svc.Create(ctx, bad))

	require.Len(t, obs.events, 2)
	assert.Equal(t, []string{"project.create", "project.create"}, obs.names())
	assert.True(t, obs.events[0].Success)
	assert.False(t, obs.events[1].Success)
	assert.ErrorIs(t, obs.events[1].Err, ErrInvalidInput)
}
