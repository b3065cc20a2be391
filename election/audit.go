package election

import (
	"context"

	"github.com/ballothub/election-backend/storage"
	"github.com/google/uuid"
)

func newAuditID() string {
	return uuid.NewString()
}

// appendAudit prepends an entry to the workspace's audit log (newest first)
// and returns the updated list without persisting it, so callers can bundle
// the write with the mutation it describes.
func (s *Service) appendAudit(ctx context.Context, wsID string, action AuditAction, details string, actor Actor) []AuditEntry {
	log := s.loadAuditLog(ctx, wsID)
	entry := AuditEntry{
		ID:        newAuditID(),
		Timestamp: s.nowMillis(),
		Action:    action,
		Details:   details,
		Actor:     actor,
	}
	return append([]AuditEntry{entry}, log...)
}

// audit appends and persists one entry in a single step, for actions whose
// only workspace mutation is the log itself.
func (s *Service) audit(ctx context.Context, wsID string, action AuditAction, details string, actor Actor) error {
	log := s.appendAudit(ctx, wsID, action, details, actor)
	return s.save(ctx, storage.WorkspaceKey(wsID, storage.FieldAuditLog), log)
}

// AuditLog returns the workspace's audit trail, newest first.
func (s *Service) AuditLog(ctx context.Context, wsID string) []AuditEntry {
	return s.loadAuditLog(ctx, wsID)
}
