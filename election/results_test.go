package election

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsTally(t *testing.T) {
	s, ctx := newTestService(t)
	ws := seedWorkspace(t, s, ctx)
	_, err := s.AddVoter(ctx, ws.ID, "carol", "Carol Voter", "pw3", SystemActor)
	require.NoError(t, err)
	startElection(t, s, ctx, ws.ID)

	position := s.Positions(ctx, ws.ID)[0]
	candidates := s.Candidates(ctx, ws.ID)

	require.NoError(t, s.CastVote(ctx, ws.ID, "alice", map[int][]int{position.ID: {candidates[0].ID}}))
	require.NoError(t, s.CastVote(ctx, ws.ID, "carol", map[int][]int{position.ID: {candidates[0].ID}}))

	results := s.Results(ctx, ws.ID)
	require.Len(t, results, 1)
	require.Len(t, results[0].Candidates, 2)

	assert.Equal(t, candidates[0].ID, results[0].Candidates[0].CandidateID)
	assert.Equal(t, 2, results[0].Candidates[0].Votes)
	assert.Equal(t, 0, results[0].Candidates[1].Votes)

	require.NotNil(t, results[0].Winner)
	assert.Equal(t, candidates[0].Name, results[0].Winner.Name)
}

func TestResultsEmptyPosition(t *testing.T) {
	s, ctx := newTestService(t)
	ws, err := s.CreateWorkspace(ctx, "Empty", SystemActor)
	require.NoError(t, err)
	_, err = s.AddPosition(ctx, ws.ID, "Secretary", SystemActor)
	require.NoError(t, err)

	results := s.Results(ctx, ws.ID)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Winner, "position with no candidates has no winner")
}

func TestPublicResultsGate(t *testing.T) {
	s, ctx := newTestService(t)
	ws := seedWorkspace(t, s, ctx)

	t.Run("Unhappy path - not ended", func(t *testing.T) {
		startElection(t, s, ctx, ws.ID)
		require.NoError(t, s.SetResultsPublished(ctx, ws.ID, true, SystemActor))

		_, err := s.PublicResults(ctx, ws.ID)
		assert.ErrorIs(t, err, ErrResultsNotVisible)
	})

	t.Run("Unhappy path - ended but unpublished", func(t *testing.T) {
		require.NoError(t, s.End(ctx, ws.ID, SystemActor))
		require.NoError(t, s.SetResultsPublished(ctx, ws.ID, false, SystemActor))

		_, err := s.PublicResults(ctx, ws.ID)
		assert.ErrorIs(t, err, ErrResultsNotVisible)
	})

	t.Run("Happy path - ended and published", func(t *testing.T) {
		require.NoError(t, s.SetResultsPublished(ctx, ws.ID, true, SystemActor))

		results, err := s.PublicResults(ctx, ws.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, results)
	})
}
