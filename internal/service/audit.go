package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// auditor writes best-effort audit entries. A nil repo disables auditing.
type auditor struct {
	repo repository.AuditRepo
}

func (a auditor) record(ctx context.Context, action domain.AuditAction, resourceType, resourceID, details string) {
	a.recordChange(ctx, action, resourceType, resourceID, details, nil, nil)
}

// recordChange also stores JSON snapshots of the resource. A nil snapshot is left empty.
func (a auditor) recordChange(ctx context.Context, action domain.AuditAction, resourceType, resourceID, details string, before, after any) {
	if a.repo == nil {
		return
	}
	entry := &domain.AuditEntry{
		ID:           uuid.New().String(),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		Before:       snapshotJSON(before),
		After:        snapshotJSON(after),
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		log.Warn().Err(err).
			Str("action", string(action)).
			Str("resource_type", resourceType).
			Str("resource_id", resourceID).
			Msg("audit write failed")
	}
}

func snapshotJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Msg("audit snapshot encoding failed")
		return ""
	}
	return string(b)
}

type auditService struct {
	audit repository.AuditRepo
}

func NewAuditService(audit repository.AuditRepo) AuditService {
	return &auditService{audit: audit}
}

func (s *auditService) Recent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	entries, err := s.audit.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	return entries, nil
}
