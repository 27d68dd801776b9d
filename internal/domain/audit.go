package domain

import "time"

// AuditEntry records one change. Before and After hold JSON snapshots of the
// resource and are empty when not applicable (no Before on create, no After on delete).
type AuditEntry struct {
	ID           string
	Action       AuditAction
	ResourceType string
	ResourceID   string
	Details      string
	Before       string
	After        string
	CreatedAt    time.Time
}
