package app

import (
	"context"

	"github.com/alexanderramin/buildflow/internal/domain"
)

// EstimateUseCase is the slice of the estimation service the HTTP and MCP surfaces need.
type EstimateUseCase interface {
	Estimate(ctx context.Context, req EstimateRequest) (*EstimateResponse, error)
}

// ProjectQueryUseCase is the read-only project access of the outer surfaces.
type ProjectQueryUseCase interface {
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, status *domain.ProjectStatus) ([]*domain.Project, error)
}
