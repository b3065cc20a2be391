package election

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastVoteCommit(t *testing.T) {
	s, ctx := newTestService(t)
	ws := seedWorkspace(t, s, ctx)
	startElection(t, s, ctx, ws.ID)

	position := s.Positions(ctx, ws.ID)[0]
	candidates := s.Candidates(ctx, ws.ID)

	t.Run("Happy path - votes and latch land together", func(t *testing.T) {
		err := s.CastVote(ctx, ws.ID, "alice", map[int][]int{
			position.ID: {candidates[0].ID, candidates[1].ID},
		})
		require.NoError(t, err)

		votes := s.Votes(ctx, ws.ID)
		require.Len(t, votes, 2)
		for _, v := range votes {
			assert.Equal(t, "alice", v.VoterID)
			assert.Equal(t, position.ID, v.PositionID)
			assert.NotZero(t, v.Timestamp)
		}

		for _, v := range s.Voters(ctx, ws.ID) {
			if v.ID == "alice" {
				assert.True(t, v.HasVoted, "latch must be set after commit")
			}
		}

		entry := latestAudit(t, s, ctx, ws.ID)
		assert.Equal(t, ActionVoteCast, entry.Action)
		assert.Equal(t, "alice", entry.Actor.ID)
		assert.NotContains(t, entry.Details, candidates[0].Name, "ballot choices stay out of the log")
	})

	t.Run("Unhappy path - second cast rejected by the latch", func(t *testing.T) {
		err := s.CastVote(ctx, ws.ID, "alice", map[int][]int{position.ID: {candidates[0].ID}})
		assert.ErrorIs(t, err, ErrAlreadyVoted)
		assert.Len(t, s.Votes(ctx, ws.ID), 2, "no partial commit on rejection")
	})
}

func TestCastVoteValidation(t *testing.T) {
	s, ctx := newTestService(t)
	ws := seedWorkspace(t, s, ctx)
	startElection(t, s, ctx, ws.ID)

	position := s.Positions(ctx, ws.ID)[0]
	candidate := s.Candidates(ctx, ws.ID)[0]

	t.Run("Unhappy path - unknown position", func(t *testing.T) {
		err := s.CastVote(ctx, ws.ID, "alice", map[int][]int{999: {candidate.ID}})
		assert.ErrorIs(t, err, ErrUnknownPosition)
		assert.Empty(t, s.Votes(ctx, ws.ID))
	})

	t.Run("Unhappy path - unknown candidate", func(t *testing.T) {
		err := s.CastVote(ctx, ws.ID, "alice", map[int][]int{position.ID: {999}})
		assert.ErrorIs(t, err, ErrUnknownCandidate)
		assert.Empty(t, s.Votes(ctx, ws.ID))
	})

	t.Run("Unhappy path - candidate from another position", func(t *testing.T) {
		other, err := s.AddPosition(ctx, ws.ID, "Treasurer", SystemActor)
		require.NoError(t, err)

		err = s.CastVote(ctx, ws.ID, "alice", map[int][]int{other.ID: {candidate.ID}})
		assert.ErrorIs(t, err, ErrUnknownCandidate)
	})

	t.Run("Unhappy path - unknown voter", func(t *testing.T) {
		err := s.CastVote(ctx, ws.ID, "mallory", map[int][]int{position.ID: {candidate.ID}})
		assert.ErrorIs(t, err, ErrVoterNotFound)
	})

	t.Run("Happy path - duplicate pairs collapse", func(t *testing.T) {
		err := s.CastVote(ctx, ws.ID, "alice", map[int][]int{
			position.ID: {candidate.ID, candidate.ID, candidate.ID},
		})
		require.NoError(t, err)
		assert.Len(t, s.Votes(ctx, ws.ID), 1)
	})
}

func TestCastVoteStatusRecheck(t *testing.T) {
	s, ctx := newTestService(t)
	ws := seedWorkspace(t, s, ctx)

	position := s.Positions(ctx, ws.ID)[0]
	candidate := s.Candidates(ctx, ws.ID)[0]
	ballot := map[int][]int{position.ID: {candidate.ID}}

	t.Run("Unhappy path - cast before the election starts", func(t *testing.T) {
		err := s.CastVote(ctx, ws.ID, "alice", ballot)
		assert.ErrorIs(t, err, ErrElectionNotActive)
	})

	t.Run("Unhappy path - election ended between login and cast", func(t *testing.T) {
		startElection(t, s, ctx, ws.ID)
		_, err := s.Resolve(ctx, ws.ID, "alice", "pw1")
		require.NoError(t, err)

		require.NoError(t, s.End(ctx, ws.ID, SystemActor))
		err = s.CastVote(ctx, ws.ID, "alice", ballot)
		assert.ErrorIs(t, err, ErrElectionNotActive)

		assert.Empty(t, s.Votes(ctx, ws.ID))
		for _, v := range s.Voters(ctx, ws.ID) {
			if v.ID == "alice" {
				assert.False(t, v.HasVoted, "rejected cast must not latch")
			}
		}
	})
}

func TestCastVoteAbstain(t *testing.T) {
	s, ctx := newTestService(t)
	ws := seedWorkspace(t, s, ctx)
	startElection(t, s, ctx, ws.ID)

	// An empty selection map is a permitted abstention; the latch still flips.
	require.NoError(t, s.CastVote(ctx, ws.ID, "alice", map[int][]int{}))
	assert.Empty(t, s.Votes(ctx, ws.ID))

	_, err := s.Resolve(ctx, ws.ID, "alice", "pw1")
	assert.ErrorIs(t, err, ErrAlreadyVoted)
}

// Full voter journey: login, vote, relogin rejected.
func TestVoteOncePerVoterFlow(t *testing.T) {
	s, ctx := newTestService(t)
	ws := seedWorkspace(t, s, ctx)
	startElection(t, s, ctx, ws.ID)

	position := s.Positions(ctx, ws.ID)[0]
	candidate := s.Candidates(ctx, ws.ID)[0]

	session, err := s.Resolve(ctx, ws.ID, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, SessionVoter, session.Role)

	require.NoError(t, s.CastVote(ctx, ws.ID, session.Voter.ID, map[int][]int{position.ID: {candidate.ID}}))

	_, err = s.Resolve(ctx, ws.ID, "alice", "pw1")
	assert.ErrorIs(t, err, ErrAlreadyVoted)
}
