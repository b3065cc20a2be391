package election

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ballothub/election-backend/logging"
	"github.com/ballothub/election-backend/storage"
)

// CastVote commits a voter's ballot: one Vote per selected (position,
// candidate) pair, stamped with the voter's id and the current time, plus the
// voter's hasVoted latch. The vote list, the voter roll and the audit entry
// are written through one SetMulti so no reader can observe the latch without
// the votes or the votes without the latch.
//
// The caller holds a voter session, so the checks were valid at login; the
// election status and the latch are re-validated here because the election
// can end between login and cast. An empty selection map is a permitted
// abstention and still flips the latch.
func (s *Service) CastVote(ctx context.Context, wsID, voterID string, selections map[int][]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadStatus(ctx, wsID) != StatusInProgress {
		return ErrElectionNotActive
	}

	voters := s.loadVoters(ctx, wsID)
	idx := -1
	for i := range voters {
		if strings.EqualFold(voters[i].ID, voterID) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrVoterNotFound
	}
	if voters[idx].HasVoted {
		return ErrAlreadyVoted
	}

	positions := s.loadPositions(ctx, wsID)
	candidates := s.loadCandidates(ctx, wsID)
	newVotes, err := buildBallot(voters[idx].ID, selections, positions, candidates, s.nowMillis())
	if err != nil {
		return err
	}

	votes := append(s.loadVotes(ctx, wsID), newVotes...)
	voters[idx].HasVoted = true

	details := fmt.Sprintf("Voter '%s' cast their vote.", voters[idx].Name)
	actor := Actor{ID: voters[idx].ID, Name: voters[idx].Name, Role: RoleVoter}
	auditLog := s.appendAudit(ctx, wsID, ActionVoteCast, details, actor)

	err = s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldVotes):    marshal(storage.FieldVotes, votes),
		storage.WorkspaceKey(wsID, storage.FieldVoters):   marshal(storage.FieldVoters, voters),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog): marshal(storage.FieldAuditLog, auditLog),
	})
	if err != nil {
		return err
	}

	logging.Log.Infof("VOTE: voter %s committed %d selections in workspace %s", voterID, len(newVotes), wsID)
	return nil
}

// buildBallot validates every selection against the position and candidate
// lists and returns the Vote records. Duplicate pairs collapse (selections
// are sets); a candidate must belong to the position it is selected for.
func buildBallot(voterID string, selections map[int][]int, positions []Position, candidates []Candidate, timestamp int64) ([]Vote, error) {
	positionIDs := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		positionIDs[p.ID] = struct{}{}
	}
	candidatePositions := make(map[int]int, len(candidates))
	for _, c := range candidates {
		candidatePositions[c.ID] = c.PositionID
	}

	// Stable order keeps the persisted vote list deterministic.
	posIDs := make([]int, 0, len(selections))
	for posID := range selections {
		posIDs = append(posIDs, posID)
	}
	sort.Ints(posIDs)

	var votes []Vote
	for _, posID := range posIDs {
		if _, ok := positionIDs[posID]; !ok {
			return nil, fmt.Errorf("position %d: %w", posID, ErrUnknownPosition)
		}
		seen := make(map[int]struct{})
		for _, canID := range selections[posID] {
			if _, dup := seen[canID]; dup {
				continue
			}
			seen[canID] = struct{}{}

			belongsTo, ok := candidatePositions[canID]
			if !ok || belongsTo != posID {
				return nil, fmt.Errorf("candidate %d for position %d: %w", canID, posID, ErrUnknownCandidate)
			}
			votes = append(votes, Vote{
				VoterID:     voterID,
				PositionID:  posID,
				CandidateID: canID,
				Timestamp:   timestamp,
			})
		}
	}
	return votes, nil
}

// Votes returns the workspace's full vote collection.
func (s *Service) Votes(ctx context.Context, wsID string) []Vote {
	return s.loadVotes(ctx, wsID)
}
