package election

import (
	"context"

	"github.com/ballothub/election-backend/logging"
	"github.com/ballothub/election-backend/storage"
)

// Start moves the election to IN_PROGRESS and stamps the end time eight
// hours out. Calling it while already IN_PROGRESS is a no-op: re-stamping
// would silently extend the voting window.
func (s *Service) Start(ctx context.Context, wsID string, actor Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadStatus(ctx, wsID) == StatusInProgress {
		logging.Log.Warnf("ELECTION: start requested for workspace %s but election already in progress", wsID)
		return nil
	}

	endTime := s.nowMillis() + ElectionDurationMillis
	auditLog := s.appendAudit(ctx, wsID, ActionElectionStart, "The election has been started.", actor)

	return s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldElectionStatus):  marshal(storage.FieldElectionStatus, StatusInProgress),
		storage.WorkspaceKey(wsID, storage.FieldElectionEndTime): marshal(storage.FieldElectionEndTime, endTime),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog):        marshal(storage.FieldAuditLog, auditLog),
	})
}

// End moves the election to ENDED and clears the end time. The end time is
// only ever present while the election is in progress.
func (s *Service) End(ctx context.Context, wsID string, actor Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	auditLog := s.appendAudit(ctx, wsID, ActionElectionEnd, "The election has been ended.", actor)

	return s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldElectionStatus):  marshal(storage.FieldElectionStatus, StatusEnded),
		storage.WorkspaceKey(wsID, storage.FieldElectionEndTime): marshal(storage.FieldElectionEndTime, nil),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog):        marshal(storage.FieldAuditLog, auditLog),
	})
}

// Reset wipes the entire workspace election: positions, candidates, voters,
// votes, status, end time, published flag and the audit log. The reset entry
// itself becomes the first entry of the fresh log.
func (s *Service) Reset(ctx context.Context, wsID string, actor Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := AuditEntry{
		ID:        newAuditID(),
		Timestamp: s.nowMillis(),
		Action:    ActionElectionReset,
		Details:   "The entire election data was reset.",
		Actor:     actor,
	}

	logging.Log.Infof("ELECTION: full reset of workspace %s by %s", wsID, actor.ID)
	return s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldPositions):        marshal(storage.FieldPositions, []Position{}),
		storage.WorkspaceKey(wsID, storage.FieldCandidates):       marshal(storage.FieldCandidates, []Candidate{}),
		storage.WorkspaceKey(wsID, storage.FieldVoters):           marshal(storage.FieldVoters, []Voter{}),
		storage.WorkspaceKey(wsID, storage.FieldVotes):            marshal(storage.FieldVotes, []Vote{}),
		storage.WorkspaceKey(wsID, storage.FieldElectionStatus):   marshal(storage.FieldElectionStatus, StatusNotStarted),
		storage.WorkspaceKey(wsID, storage.FieldElectionEndTime):  marshal(storage.FieldElectionEndTime, nil),
		storage.WorkspaceKey(wsID, storage.FieldResultsPublished): marshal(storage.FieldResultsPublished, false),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog):         marshal(storage.FieldAuditLog, []AuditEntry{entry}),
	})
}

// EnableNewElection is the super admin's lighter reset: votes, end time and
// the published flag are cleared, every voter's hasVoted latch drops back to
// false, and the status returns to NOT_STARTED. Positions, candidates, voter
// identities and the audit history all survive; the reset entry is appended
// on top of the existing log.
func (s *Service) EnableNewElection(ctx context.Context, wsID string, actor Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findWorkspace(ctx, wsID); err != nil {
		return err
	}

	voters := s.loadVoters(ctx, wsID)
	for i := range voters {
		voters[i].HasVoted = false
	}

	auditLog := s.appendAudit(ctx, wsID, ActionElectionReset,
		"Super Admin enabled a new election for this workspace.", actor)

	logging.Log.Infof("ELECTION: new election enabled for workspace %s by %s", wsID, actor.ID)
	return s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldVotes):            marshal(storage.FieldVotes, []Vote{}),
		storage.WorkspaceKey(wsID, storage.FieldVoters):           marshal(storage.FieldVoters, voters),
		storage.WorkspaceKey(wsID, storage.FieldElectionStatus):   marshal(storage.FieldElectionStatus, StatusNotStarted),
		storage.WorkspaceKey(wsID, storage.FieldElectionEndTime):  marshal(storage.FieldElectionEndTime, nil),
		storage.WorkspaceKey(wsID, storage.FieldResultsPublished): marshal(storage.FieldResultsPublished, false),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog):         marshal(storage.FieldAuditLog, auditLog),
	})
}

// SetResultsPublished toggles the public results flag. The flag is only
// observable on the public results endpoint once the election has ended, but
// it can be flipped in any status.
func (s *Service) SetResultsPublished(ctx context.Context, wsID string, published bool, actor Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	action := ActionResultsHidden
	details := "Results were hidden from public view."
	if published {
		action = ActionResultsPublished
		details = "Results were publicly published."
	}
	auditLog := s.appendAudit(ctx, wsID, action, details, actor)

	return s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldResultsPublished): marshal(storage.FieldResultsPublished, published),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog):         marshal(storage.FieldAuditLog, auditLog),
	})
}
