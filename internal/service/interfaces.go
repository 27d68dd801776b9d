package service

import (
	"context"
	"time"

	"github.com/alexanderramin/buildflow/internal/app"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts a short ID, a full UUID or a unique UUID prefix.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, status *domain.ProjectStatus) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type PhaseService interface {
	Add(ctx context.Context, p *domain.Phase) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error)
	MarkDone(ctx context.Context, id string, at time.Time) (*domain.Phase, error)
	Delete(ctx context.Context, id string) error
}

type BudgetService interface {
	Add(ctx context.Context, b *domain.BudgetLine) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.BudgetLine, error)
	Summary(ctx context.Context, projectID string) (*app.BudgetSummary, error)
}

type RiskService interface {
	Add(ctx context.Context, r *domain.Risk) error
	ListByProject(ctx context.Context, projectID string, includeResolved bool) ([]*domain.Risk, error)
	Resolve(ctx context.Context, id string, at time.Time) (*domain.Risk, error)
}

type ActionService interface {
	Add(ctx context.Context, a *domain.Action) error
	ListByProject(ctx context.Context, projectID string, includeClosed bool) ([]*domain.Action, error)
	Complete(ctx context.Context, id string, at time.Time) (*domain.Action, error)
	Cancel(ctx context.Context, id string) (*domain.Action, error)
}

type EstimationService interface {
	app.EstimateUseCase
	// EstimateAll scores every in-progress project concurrently. Per-project
	// failures are reported in the rows rather than failing the batch.
	EstimateAll(ctx context.Context, save bool) ([]app.ProjectEstimate, error)
	History(ctx context.Context, projectRef string, limit int) ([]*domain.Estimation, error)
}

type AuditService interface {
	Recent(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath string) (*app.ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*app.ImportResult, error)
}
