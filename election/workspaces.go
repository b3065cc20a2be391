package election

import (
	"context"
	"fmt"

	"github.com/ballothub/election-backend/logging"
	"github.com/ballothub/election-backend/storage"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

func (s *Service) loadWorkspaces(ctx context.Context) []Workspace {
	return load(ctx, s.store, storage.KeyWorkspaces, []Workspace{})
}

func (s *Service) findWorkspace(ctx context.Context, wsID string) (Workspace, error) {
	for _, ws := range s.loadWorkspaces(ctx) {
		if ws.ID == wsID {
			return ws, nil
		}
	}
	return Workspace{}, ErrWorkspaceNotFound
}

// FindWorkspace looks a workspace up in the registry.
func (s *Service) FindWorkspace(ctx context.Context, wsID string) (Workspace, error) {
	return s.findWorkspace(ctx, wsID)
}

// Workspaces lists the registry.
func (s *Service) Workspaces(ctx context.Context) []Workspace {
	return s.loadWorkspaces(ctx)
}

// WorkspaceOverviews lists the registry together with each workspace's
// election status, for the super admin dashboard.
func (s *Service) WorkspaceOverviews(ctx context.Context) []WorkspaceOverview {
	workspaces := s.loadWorkspaces(ctx)
	overviews := make([]WorkspaceOverview, 0, len(workspaces))
	for _, ws := range workspaces {
		overviews = append(overviews, WorkspaceOverview{
			Workspace: ws,
			Status:    s.loadStatus(ctx, ws.ID),
		})
	}
	return overviews
}

// CreateWorkspace registers a new isolated workspace. The creation entry is
// the first line of the workspace's own audit trail; registry and audit log
// are committed in one write so neither can exist without the other.
func (s *Service) CreateWorkspace(ctx context.Context, name string, actor Actor) (Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := gonanoid.New(10)
	if err != nil {
		logging.Log.Errorf("WS: failed to generate workspace id: %v", err)
		return Workspace{}, err
	}

	ws := Workspace{ID: id, Name: name}
	workspaces := append(s.loadWorkspaces(ctx), ws)
	details := fmt.Sprintf("Workspace '%s' was created.", name)
	auditLog := s.appendAudit(ctx, id, ActionWorkspaceCreated, details, actor)

	err = s.store.SetMulti(ctx, map[string][]byte{
		storage.KeyWorkspaces:                           marshal(storage.KeyWorkspaces, workspaces),
		storage.WorkspaceKey(id, storage.FieldAuditLog): marshal(storage.FieldAuditLog, auditLog),
	})
	if err != nil {
		return Workspace{}, err
	}

	logging.Log.Infof("WS: created workspace %s (%s)", name, id)
	return ws, nil
}

// DeleteWorkspace removes a workspace from the registry and purges every key
// under its namespace. The deletion entry carries the name captured before
// the purge; it lands in the caller's currently selected workspace log, if
// any other is selected, since the target's own log is destroyed with it.
// Registry removal and the deletion entry are committed in one write.
func (s *Service) DeleteWorkspace(ctx context.Context, wsID string, actor Actor, activeWsID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	workspaces := s.loadWorkspaces(ctx)
	name := ""
	remaining := make([]Workspace, 0, len(workspaces))
	for _, ws := range workspaces {
		if ws.ID == wsID {
			name = ws.Name
			continue
		}
		remaining = append(remaining, ws)
	}
	if name == "" {
		return ErrWorkspaceNotFound
	}

	writes := map[string][]byte{
		storage.KeyWorkspaces: marshal(storage.KeyWorkspaces, remaining),
	}
	if activeWsID != "" && activeWsID != wsID {
		details := fmt.Sprintf("Workspace '%s' (ID: %s) was deleted.", name, wsID)
		auditLog := s.appendAudit(ctx, activeWsID, ActionWorkspaceDeleted, details, actor)
		writes[storage.WorkspaceKey(activeWsID, storage.FieldAuditLog)] = marshal(storage.FieldAuditLog, auditLog)
	}
	if err := s.store.SetMulti(ctx, writes); err != nil {
		return err
	}

	keys, err := s.store.ListKeys(ctx, storage.WorkspacePrefix(wsID))
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.store.Remove(ctx, key); err != nil {
			return err
		}
	}

	if last := load(ctx, s.store, storage.KeyLastWorkspaceID, ""); last == wsID {
		if err := s.store.Remove(ctx, storage.KeyLastWorkspaceID); err != nil {
			return err
		}
	}

	s.sessions.DestroyWorkspace(wsID)
	s.sessions.UnbindWorkspace(wsID)
	logging.Log.Infof("WS: deleted workspace %s (%s), purged %d keys", name, wsID, len(keys))
	return nil
}

// SelectWorkspace activates a workspace and persists the last-selected
// pointer.
func (s *Service) SelectWorkspace(ctx context.Context, wsID string) (Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.findWorkspace(ctx, wsID)
	if err != nil {
		return Workspace{}, err
	}
	if err := s.save(ctx, storage.KeyLastWorkspaceID, ws.ID); err != nil {
		return Workspace{}, err
	}
	return ws, nil
}

// DeselectWorkspace clears the last-selected pointer.
func (s *Service) DeselectWorkspace(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Remove(ctx, storage.KeyLastWorkspaceID)
}

// LastSelectedWorkspace resolves the persisted pointer, or nil when no
// workspace was selected or the pointed-to workspace no longer exists.
func (s *Service) LastSelectedWorkspace(ctx context.Context) *Workspace {
	wsID := load(ctx, s.store, storage.KeyLastWorkspaceID, "")
	if wsID == "" {
		return nil
	}
	ws, err := s.findWorkspace(ctx, wsID)
	if err != nil {
		return nil
	}
	return &ws
}

// EnterWorkspace lets a super admin adopt a workspace's admin profile with
// no credential challenge. This is a privileged bypass distinct from admin
// authentication: the session stays a super admin session and audit entries
// keep the Super Admin actor. The binding is published as a fresh session
// value under the same token; the one passed in is never mutated.
func (s *Service) EnterWorkspace(ctx context.Context, session *Session, wsID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findWorkspace(ctx, wsID); err != nil {
		return nil, err
	}

	entered := *session
	entered.WorkspaceID = wsID
	entered.EnteredAdmin = s.loadAdminProfile(ctx, wsID)
	s.sessions.Replace(&entered)
	logging.Log.Infof("WS: super admin entered workspace %s", wsID)
	return &entered, nil
}

// WorkspaceAdminProfile reads a workspace's admin profile, nil when none was
// provisioned yet.
func (s *Service) WorkspaceAdminProfile(ctx context.Context, wsID string) (*AdminProfile, error) {
	if _, err := s.findWorkspace(ctx, wsID); err != nil {
		return nil, err
	}
	return s.loadAdminProfile(ctx, wsID), nil
}

// SetWorkspaceAdminProfile provisions or replaces a workspace's admin
// profile.
func (s *Service) SetWorkspaceAdminProfile(ctx context.Context, wsID string, profile AdminProfile, actor Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findWorkspace(ctx, wsID); err != nil {
		return err
	}
	if profile.ImageURL == "" {
		profile.ImageURL = DefaultUserImage
	}

	auditLog := s.appendAudit(ctx, wsID, ActionAdminProfileUpdated,
		fmt.Sprintf("Admin profile for '%s' was updated.", profile.ID), actor)

	return s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldAdminProfile): marshal(storage.FieldAdminProfile, profile),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog):     marshal(storage.FieldAuditLog, auditLog),
	})
}
