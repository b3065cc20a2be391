package election

import (
	"context"
	"os"
	"testing"

	"github.com/ballothub/election-backend/logging"
	"github.com/ballothub/election-backend/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logging.Log = logrus.New()
	os.Exit(m.Run())
}

func newTestService(t *testing.T) (*Service, context.Context) {
	t.Helper()

	s := NewService(storage.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, s.EnsureSuperAdmin(ctx))
	return s, ctx
}

// seedWorkspace builds a workspace with an admin, two voters (alice and a
// blocked bob) and a single-position, two-candidate ballot.
func seedWorkspace(t *testing.T, s *Service, ctx context.Context) Workspace {
	t.Helper()

	ws, err := s.CreateWorkspace(ctx, "Student Council", SystemActor)
	require.NoError(t, err)

	require.NoError(t, s.SetWorkspaceAdminProfile(ctx, ws.ID, AdminProfile{
		ID:       "admin1",
		Name:     "Admin One",
		Password: "adminpw",
	}, SystemActor))

	_, err = s.AddVoter(ctx, ws.ID, "alice", "Alice", "pw1", SystemActor)
	require.NoError(t, err)
	_, err = s.AddVoter(ctx, ws.ID, "bob", "Bob", "pw2", SystemActor)
	require.NoError(t, err)
	require.NoError(t, s.SetVoterBlocked(ctx, ws.ID, "bob", true, SystemActor))

	position, err := s.AddPosition(ctx, ws.ID, "President", SystemActor)
	require.NoError(t, err)
	_, err = s.AddCandidate(ctx, ws.ID, position.ID, "Carol", "", SystemActor)
	require.NoError(t, err)
	_, err = s.AddCandidate(ctx, ws.ID, position.ID, "Dave", "", SystemActor)
	require.NoError(t, err)

	return ws
}

func startElection(t *testing.T, s *Service, ctx context.Context, wsID string) {
	t.Helper()
	require.NoError(t, s.Start(ctx, wsID, SystemActor))
}

func latestAudit(t *testing.T, s *Service, ctx context.Context, wsID string) AuditEntry {
	t.Helper()
	log := s.AuditLog(ctx, wsID)
	require.NotEmpty(t, log, "audit log should not be empty")
	return log[0]
}
