package storage

import (
	"context"
	"errors"
	"fmt"
)

var ErrKeyNotFound = errors.New("key not found in storage")

// Store is the key/value persistence contract the election core runs on.
// Values are opaque serialized blobs; the core owns the encoding.
// SetMulti must apply all writes as one storage operation so that a reader
// never observes a partial commit.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMulti(ctx context.Context, values map[string][]byte) error
	Remove(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// Flat keys shared across workspaces.
const (
	KeyWorkspaces       = "election_workspaces"
	KeySuperAdmin       = "election_superAdminProfile"
	KeyLastWorkspaceID  = "election_last_workspace_id"
	KeyThemePreference  = "election_theme"
	workspaceKeyPattern = "workspace_%s_%s"
)

// Per-workspace field names. The full key for a field is WorkspaceKey(id, field).
const (
	FieldPositions        = "positions"
	FieldCandidates       = "candidates"
	FieldVoters           = "voters"
	FieldVotes            = "votes"
	FieldElectionStatus   = "electionStatus"
	FieldElectionEndTime  = "electionEndTime"
	FieldAdminProfile     = "adminProfile"
	FieldAuditLog         = "auditLog"
	FieldResultsPublished = "resultsPublished"
)

// WorkspaceKey builds the namespaced key for a workspace-scoped field.
func WorkspaceKey(workspaceID, field string) string {
	return fmt.Sprintf(workspaceKeyPattern, workspaceID, field)
}

// WorkspacePrefix is the key prefix covering every field of one workspace.
// Deleting a workspace purges all keys under this prefix.
func WorkspacePrefix(workspaceID string) string {
	return fmt.Sprintf("workspace_%s_", workspaceID)
}
