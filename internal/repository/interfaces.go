package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/estimate"
)

// ErrNotFound is wrapped by every Get* method when no row matches.
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	// FindByIDPrefix returns every project whose UUID starts with prefix.
	FindByIDPrefix(ctx context.Context, prefix string) ([]*domain.Project, error)
	List(ctx context.Context, status *domain.ProjectStatus) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type PhaseRepo interface {
	Create(ctx context.Context, p *domain.Phase) error
	GetByID(ctx context.Context, id string) (*domain.Phase, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error)
	Update(ctx context.Context, p *domain.Phase) error
	Delete(ctx context.Context, id string) error
	// NextOrder returns one past the highest order_index used by the project.
	NextOrder(ctx context.Context, projectID string) (int, error)
}

type BudgetRepo interface {
	Create(ctx context.Context, b *domain.BudgetLine) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.BudgetLine, error)
	// SumByKind returns the total and the number of lines of one kind.
	SumByKind(ctx context.Context, projectID string, kind domain.BudgetKind) (float64, int, error)
	Delete(ctx context.Context, id string) error
}

type RiskRepo interface {
	Create(ctx context.Context, r *domain.Risk) error
	GetByID(ctx context.Context, id string) (*domain.Risk, error)
	ListByProject(ctx context.Context, projectID string, includeResolved bool) ([]*domain.Risk, error)
	Update(ctx context.Context, r *domain.Risk) error
	Delete(ctx context.Context, id string) error
}

type ActionRepo interface {
	Create(ctx context.Context, a *domain.Action) error
	GetByID(ctx context.Context, id string) (*domain.Action, error)
	// ListByProject orders by priority, then planned end. Closed actions are
	// skipped unless includeClosed is set.
	ListByProject(ctx context.Context, projectID string, includeClosed bool) ([]*domain.Action, error)
	Update(ctx context.Context, a *domain.Action) error
	Delete(ctx context.Context, id string) error
}

type EstimationRepo interface {
	Create(ctx context.Context, e *domain.Estimation) error
	ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.Estimation, error)
}

type AuditRepo interface {
	Create(ctx context.Context, e *domain.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}

// SnapshotReader aggregates one project's rows into the engine's input.
type SnapshotReader interface {
	Snapshot(ctx context.Context, projectID string) (estimate.Snapshot, error)
}
