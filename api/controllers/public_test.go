package controllers

import (
	"context"
	"net/http"
	"testing"

	testutils "github.com/ballothub/election-backend/api/controllers/testing"
	"github.com/ballothub/election-backend/api/models"
	"github.com/ballothub/election-backend/election"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicWorkspaceRoutes(t *testing.T) {
	service, router := setupTestRouter(t)
	ws := seedWorkspace(t, service)

	t.Run("Happy path - anyone can list workspaces", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/workspaces", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		workspaces := decode[[]election.Workspace](t, res.Body.Bytes())
		require.Len(t, workspaces, 1)
		assert.Equal(t, "Student Council", workspaces[0].Name)
	})

	t.Run("Happy path - select persists the last-selected pointer", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPost, "/api/workspaces/"+ws.ID+"/select", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(router, http.MethodGet, "/api/workspaces/last", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		last := decode[election.Workspace](t, res.Body.Bytes())
		assert.Equal(t, ws.ID, last.ID)
	})

	t.Run("Happy path - deselect clears the pointer", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPost, "/api/workspaces/deselect", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(router, http.MethodGet, "/api/workspaces/last", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("Unhappy path - select unknown workspace", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPost, "/api/workspaces/nope/select", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestPublicElectionAndResults(t *testing.T) {
	service, router := setupTestRouter(t)
	ws := seedWorkspace(t, service)
	ctx := context.Background()

	t.Run("Happy path - election snapshot before start", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/election?workspace="+ws.ID, nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		state := decode[election.ElectionState](t, res.Body.Bytes())
		assert.Equal(t, election.StatusNotStarted, state.Status)
		assert.Nil(t, state.EndTime)
	})

	t.Run("Unhappy path - snapshot without a workspace", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/election", nil, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("Unhappy path - results hidden while running", func(t *testing.T) {
		startElection(t, service, ws.ID)
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results?workspace="+ws.ID, nil, nil)
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("Unhappy path - results hidden until published", func(t *testing.T) {
		require.NoError(t, service.CastVote(ctx, ws.ID, "alice", map[int][]int{
			service.Positions(ctx, ws.ID)[0].ID: {service.Candidates(ctx, ws.ID)[0].ID},
		}))
		require.NoError(t, service.End(ctx, ws.ID, election.SystemActor))

		res := testutils.PerformRequest(router, http.MethodGet, "/api/results?workspace="+ws.ID, nil, nil)
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("Happy path - published results carry the winner", func(t *testing.T) {
		require.NoError(t, service.SetResultsPublished(ctx, ws.ID, true, election.SystemActor))

		res := testutils.PerformRequest(router, http.MethodGet, "/api/results?workspace="+ws.ID, nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		results := decode[[]election.PositionResult](t, res.Body.Bytes())
		require.Len(t, results, 1)
		require.NotNil(t, results[0].Winner)
		assert.Equal(t, "Carol", results[0].Winner.Name)
	})
}

func TestVoterLookup(t *testing.T) {
	service, router := setupTestRouter(t)
	ws := seedWorkspace(t, service)

	t.Run("Happy path - partial case-insensitive match without secrets", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet,
			"/api/voter-lookup?workspace="+ws.ID+"&name=ali", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		matches := decode[[]models.VoterLookupResponse](t, res.Body.Bytes())
		require.Len(t, matches, 1)
		assert.Equal(t, "alice", matches[0].ID)
		assert.NotContains(t, res.Body.String(), "pw1")
		assert.NotContains(t, res.Body.String(), "isBlocked")
	})

	t.Run("Happy path - no match yields an empty list", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet,
			"/api/voter-lookup?workspace="+ws.ID+"&name=zzz", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "[]", res.Body.String())
	})

	t.Run("Unhappy path - name is required", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet,
			"/api/voter-lookup?workspace="+ws.ID, nil, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestThemeRoutes(t *testing.T) {
	_, router := setupTestRouter(t)

	t.Run("Happy path - defaults to light", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/theme", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		theme := decode[models.ThemeResponse](t, res.Body.Bytes())
		assert.Equal(t, "light", theme.Theme)
	})

	t.Run("Happy path - dark round-trips", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPut, "/api/theme",
			models.ThemeRequest{Theme: "dark"}, nil)
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(router, http.MethodGet, "/api/theme", nil, nil)
		theme := decode[models.ThemeResponse](t, res.Body.Bytes())
		assert.Equal(t, "dark", theme.Theme)
	})

	t.Run("Unhappy path - anything else is rejected", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodPut, "/api/theme",
			models.ThemeRequest{Theme: "sepia"}, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}
