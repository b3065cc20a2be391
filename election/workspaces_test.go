package election

import (
	"context"
	"errors"
	"testing"

	"github.com/ballothub/election-backend/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceRegistry(t *testing.T) {
	s, ctx := newTestService(t)

	t.Run("Happy path - create and list", func(t *testing.T) {
		ws, err := s.CreateWorkspace(ctx, "Chess Club", SystemActor)
		require.NoError(t, err)
		assert.NotEmpty(t, ws.ID)

		workspaces := s.Workspaces(ctx)
		require.Len(t, workspaces, 1)
		assert.Equal(t, "Chess Club", workspaces[0].Name)

		entry := latestAudit(t, s, ctx, ws.ID)
		assert.Equal(t, ActionWorkspaceCreated, entry.Action)
	})

	t.Run("Happy path - select persists the pointer", func(t *testing.T) {
		ws := s.Workspaces(ctx)[0]
		selected, err := s.SelectWorkspace(ctx, ws.ID)
		require.NoError(t, err)
		assert.Equal(t, ws.ID, selected.ID)

		last := s.LastSelectedWorkspace(ctx)
		require.NotNil(t, last)
		assert.Equal(t, ws.ID, last.ID)
	})

	t.Run("Happy path - deselect clears the pointer", func(t *testing.T) {
		require.NoError(t, s.DeselectWorkspace(ctx))
		assert.Nil(t, s.LastSelectedWorkspace(ctx))
	})

	t.Run("Unhappy path - selecting an unknown workspace", func(t *testing.T) {
		_, err := s.SelectWorkspace(ctx, "missing")
		assert.ErrorIs(t, err, ErrWorkspaceNotFound)
	})
}

func TestDeleteWorkspaceCascades(t *testing.T) {
	s, ctx := newTestService(t)
	victim := seedWorkspace(t, s, ctx)
	other, err := s.CreateWorkspace(ctx, "Survivor", SystemActor)
	require.NoError(t, err)
	_, err = s.AddVoter(ctx, other.ID, "carol", "Carol", "pw", SystemActor)
	require.NoError(t, err)

	superAdmin := Actor{ID: "superadmin", Name: "Super Admin", Role: RoleSuperAdmin}
	require.NoError(t, s.DeleteWorkspace(ctx, victim.ID, superAdmin, other.ID))

	t.Run("registry no longer lists the workspace", func(t *testing.T) {
		for _, ws := range s.Workspaces(ctx) {
			assert.NotEqual(t, victim.ID, ws.ID)
		}
	})

	t.Run("every namespaced key is purged", func(t *testing.T) {
		keys, err := s.store.ListKeys(ctx, storage.WorkspacePrefix(victim.ID))
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("other workspaces are untouched", func(t *testing.T) {
		assert.Len(t, s.Voters(ctx, other.ID), 1)
	})

	t.Run("deletion is audited with the pre-deletion name", func(t *testing.T) {
		entry := latestAudit(t, s, ctx, other.ID)
		assert.Equal(t, ActionWorkspaceDeleted, entry.Action)
		assert.Contains(t, entry.Details, victim.Name)
		assert.Equal(t, RoleSuperAdmin, entry.Actor.Role)
	})

	t.Run("Unhappy path - deleting twice", func(t *testing.T) {
		err := s.DeleteWorkspace(ctx, victim.ID, superAdmin, other.ID)
		assert.ErrorIs(t, err, ErrWorkspaceNotFound)
	})
}

func TestDeleteWorkspaceDropsSessions(t *testing.T) {
	s, ctx := newTestService(t)
	ws := seedWorkspace(t, s, ctx)
	startElection(t, s, ctx, ws.ID)

	session, err := s.Resolve(ctx, ws.ID, "alice", "pw1")
	require.NoError(t, err)

	superAdmin := Actor{ID: "superadmin", Name: "Super Admin", Role: RoleSuperAdmin}
	require.NoError(t, s.DeleteWorkspace(ctx, ws.ID, superAdmin, ""))

	_, err = s.Sessions().Get(session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEnterWorkspaceBypass(t *testing.T) {
	s, ctx := newTestService(t)
	ws := seedWorkspace(t, s, ctx)

	session, err := s.Resolve(ctx, "", "superadmin", "super123")
	require.NoError(t, err)

	entered, err := s.EnterWorkspace(ctx, session, ws.ID)
	require.NoError(t, err)
	require.NotNil(t, entered.EnteredAdmin)
	assert.Equal(t, "admin1", entered.EnteredAdmin.ID)

	// No ADMIN_LOGIN entry: entering is a bypass, not an authentication.
	for _, entry := range s.AuditLog(ctx, ws.ID) {
		assert.NotEqual(t, ActionAdminLogin, entry.Action)
	}

	assert.Equal(t, SessionSuperAdmin, entered.Role, "session stays a super admin session")
	assert.Equal(t, ws.ID, entered.WorkspaceID)
	assert.Equal(t, RoleSuperAdmin, entered.Actor().Role)
}

func TestEnterWorkspaceRepublishesSession(t *testing.T) {
	s, ctx := newTestService(t)
	ws := seedWorkspace(t, s, ctx)

	session, err := s.Resolve(ctx, "", "superadmin", "super123")
	require.NoError(t, err)

	entered, err := s.EnterWorkspace(ctx, session, ws.ID)
	require.NoError(t, err)

	// The original session value is left untouched; the binding only exists
	// on the fresh value published under the same token.
	assert.Empty(t, session.WorkspaceID)
	assert.Nil(t, session.EnteredAdmin)
	assert.Equal(t, session.Token, entered.Token)

	resolved, err := s.Sessions().Get(session.Token)
	require.NoError(t, err)
	assert.Equal(t, ws.ID, resolved.WorkspaceID)

	// Deleting the entered workspace strips the binding, again by replacing
	// the published value rather than mutating it.
	require.NoError(t, s.DeleteWorkspace(ctx, ws.ID, entered.Actor(), entered.WorkspaceID))
	assert.Equal(t, ws.ID, entered.WorkspaceID, "handed-out value stays as issued")

	resolved, err = s.Sessions().Get(session.Token)
	require.NoError(t, err)
	assert.Empty(t, resolved.WorkspaceID)
	assert.Nil(t, resolved.EnteredAdmin)
}

// multiWriteOnlyStore rejects plain Set, so anything built on it can only
// persist through SetMulti.
type multiWriteOnlyStore struct {
	*storage.MemoryStore
}

func (s *multiWriteOnlyStore) Set(context.Context, string, []byte) error {
	return errors.New("plain Set rejected")
}

func TestWorkspaceWritesCommitTogether(t *testing.T) {
	s := NewService(&multiWriteOnlyStore{storage.NewMemoryStore()})
	ctx := context.Background()

	ws, err := s.CreateWorkspace(ctx, "Atomic", SystemActor)
	require.NoError(t, err)
	other, err := s.CreateWorkspace(ctx, "Bystander", SystemActor)
	require.NoError(t, err)

	entry := latestAudit(t, s, ctx, ws.ID)
	assert.Equal(t, ActionWorkspaceCreated, entry.Action)

	superAdmin := Actor{ID: "superadmin", Name: "Super Admin", Role: RoleSuperAdmin}
	require.NoError(t, s.DeleteWorkspace(ctx, ws.ID, superAdmin, other.ID))

	entry = latestAudit(t, s, ctx, other.ID)
	assert.Equal(t, ActionWorkspaceDeleted, entry.Action)
	assert.Len(t, s.Workspaces(ctx), 1)
}

func TestWorkspaceIsolation(t *testing.T) {
	s, ctx := newTestService(t)
	ws1 := seedWorkspace(t, s, ctx)
	ws2, err := s.CreateWorkspace(ctx, "Other", SystemActor)
	require.NoError(t, err)

	assert.Empty(t, s.Voters(ctx, ws2.ID))
	assert.Empty(t, s.Positions(ctx, ws2.ID))
	assert.NotEmpty(t, s.Voters(ctx, ws1.ID))

	// A voter of ws1 cannot resolve against ws2.
	startElection(t, s, ctx, ws2.ID)
	_, err = s.Resolve(ctx, ws2.ID, "alice", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureSuperAdminSeedsOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewService(store)
	ctx := context.Background()

	require.NoError(t, s.EnsureSuperAdmin(ctx))
	profile := s.SuperAdminProfile(ctx)
	assert.Equal(t, "superadmin", profile.ID)
	assert.Equal(t, "super123", profile.Password)

	// A rotated password must survive restarts.
	profile.Password = "rotated"
	require.NoError(t, s.UpdateSuperAdminProfile(ctx, profile))

	restarted := NewService(store)
	require.NoError(t, restarted.EnsureSuperAdmin(ctx))
	assert.Equal(t, "rotated", restarted.SuperAdminProfile(ctx).Password)
}
