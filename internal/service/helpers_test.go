package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/estimate"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/alexanderramin/buildflow/internal/testutil"
)

type testEnv struct {
	db          *sql.DB
	projectRepo *repository.SQLiteProjectRepo
	auditRepo   *repository.SQLiteAuditRepo
	projects    ProjectService
	phases      PhaseService
	budget      BudgetService
	risks       RiskService
	actions     ActionService
	estimation  EstimationService
	audit       AuditService
	imports     ImportService
}

func setupServices(t *testing.T, opts ...EstimationOption) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)

	phaseRepo := repository.NewSQLitePhaseRepo(database)
	projects := NewProjectService(projectRepo, auditRepo)
	engine := estimate.NewEngine(nil, nil)
	opts = append([]EstimationOption{WithAudit(auditRepo)}, opts...)
	return &testEnv{
		db:          database,
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		projects:    projects,
		phases:      NewPhaseService(phaseRepo, projectRepo, auditRepo),
		budget:      NewBudgetService(repository.NewSQLiteBudgetRepo(database), projectRepo, auditRepo),
		risks:       NewRiskService(repository.NewSQLiteRiskRepo(database), projectRepo, auditRepo),
		actions:     NewActionService(repository.NewSQLiteActionRepo(database), phaseRepo, projectRepo, auditRepo),
		estimation: NewEstimationService(projects, repository.NewSQLiteSnapshotReader(database),
			repository.NewSQLiteEstimationRepo(database), engine, opts...),
		audit:   NewAuditService(auditRepo),
		imports: NewImportService(testutil.NewTestUoW(database), auditRepo, domain.WeatherFair),
	}
}

// seedScenarioA stores a project 45 days into a 91 day schedule with 2 of 10
// phases done, 600 of 1000 spent and one risk.
func seedScenarioA(t *testing.T, env *testEnv, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	ctx := context.Background()
	p := testutil.NewTestProject("Riverside Tower", opts...)
	if err := env.projects.Create(ctx, p); err != nil {
		t.Fatalf("creating project: %v", err)
	}
	for i := 0; i < 10; i++ {
		status := domain.PhasePending
		if i < 2 {
			status = domain.PhaseDone
		}
		ph := testutil.NewTestPhase(p.ID, "phase", testutil.WithPhaseStatus(status), testutil.WithPhaseOrder(i+1))
		if err := env.phases.Add(ctx, ph); err != nil {
			t.Fatalf("adding phase: %v", err)
		}
	}
	if err := env.budget.Add(ctx, testutil.NewTestBudgetLine(p.ID, domain.BudgetActual, 600)); err != nil {
		t.Fatalf("adding budget line: %v", err)
	}
	if err := env.risks.Add(ctx, testutil.NewTestRisk(p.ID, "Flooding")); err != nil {
		t.Fatalf("adding risk: %v", err)
	}
	return p
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}

type failingAuditRepo struct{}

func (failingAuditRepo) Create(context.Context, *domain.AuditEntry) error {
	return errors.New("audit table locked")
}

func (failingAuditRepo) ListRecent(context.Context, int) ([]*domain.AuditEntry, error) {
	return nil, nil
}
