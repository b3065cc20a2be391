package election

import (
	"context"
	"fmt"
	"strings"

	"github.com/ballothub/election-backend/storage"
)

// Roster management: positions, candidates and voters of one workspace.
// All of it is workspace-admin territory and every mutation lands in the
// audit log together with the data it changes.

func (s *Service) Positions(ctx context.Context, wsID string) []Position {
	return s.loadPositions(ctx, wsID)
}

func (s *Service) Candidates(ctx context.Context, wsID string) []Candidate {
	return s.loadCandidates(ctx, wsID)
}

func (s *Service) Voters(ctx context.Context, wsID string) []Voter {
	return s.loadVoters(ctx, wsID)
}

func nextID[T any](items []T, id func(T) int) int {
	max := 0
	for _, item := range items {
		if v := id(item); v > max {
			max = v
		}
	}
	return max + 1
}

func (s *Service) AddPosition(ctx context.Context, wsID, name string, actor Actor) (Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := s.loadPositions(ctx, wsID)
	position := Position{
		ID:   nextID(positions, func(p Position) int { return p.ID }),
		Name: name,
	}
	positions = append(positions, position)

	auditLog := s.appendAudit(ctx, wsID, ActionPositionAdded,
		fmt.Sprintf("Position '%s' was added.", name), actor)

	err := s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldPositions): marshal(storage.FieldPositions, positions),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog):  marshal(storage.FieldAuditLog, auditLog),
	})
	if err != nil {
		return Position{}, err
	}
	return position, nil
}

// RemovePosition drops a position and every candidate standing for it, so a
// candidate can never reference a missing position.
func (s *Service) RemovePosition(ctx context.Context, wsID string, positionID int, actor Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := s.loadPositions(ctx, wsID)
	name := ""
	remaining := make([]Position, 0, len(positions))
	for _, p := range positions {
		if p.ID == positionID {
			name = p.Name
			continue
		}
		remaining = append(remaining, p)
	}
	if name == "" {
		return ErrUnknownPosition
	}

	candidates := s.loadCandidates(ctx, wsID)
	keptCandidates := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.PositionID != positionID {
			keptCandidates = append(keptCandidates, c)
		}
	}

	auditLog := s.appendAudit(ctx, wsID, ActionPositionRemoved,
		fmt.Sprintf("Position '%s' was removed.", name), actor)

	return s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldPositions):  marshal(storage.FieldPositions, remaining),
		storage.WorkspaceKey(wsID, storage.FieldCandidates): marshal(storage.FieldCandidates, keptCandidates),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog):   marshal(storage.FieldAuditLog, auditLog),
	})
}

func (s *Service) AddCandidate(ctx context.Context, wsID string, positionID int, name, imageURL string, actor Actor) (Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, p := range s.loadPositions(ctx, wsID) {
		if p.ID == positionID {
			found = true
			break
		}
	}
	if !found {
		return Candidate{}, ErrUnknownPosition
	}

	if imageURL == "" {
		imageURL = DefaultUserImage
	}

	candidates := s.loadCandidates(ctx, wsID)
	candidate := Candidate{
		ID:         nextID(candidates, func(c Candidate) int { return c.ID }),
		PositionID: positionID,
		Name:       name,
		ImageURL:   imageURL,
	}
	candidates = append(candidates, candidate)

	auditLog := s.appendAudit(ctx, wsID, ActionCandidateAdded,
		fmt.Sprintf("Candidate '%s' was added.", name), actor)

	err := s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldCandidates): marshal(storage.FieldCandidates, candidates),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog):   marshal(storage.FieldAuditLog, auditLog),
	})
	if err != nil {
		return Candidate{}, err
	}
	return candidate, nil
}

func (s *Service) RemoveCandidate(ctx context.Context, wsID string, candidateID int, actor Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := s.loadCandidates(ctx, wsID)
	name := ""
	remaining := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == candidateID {
			name = c.Name
			continue
		}
		remaining = append(remaining, c)
	}
	if name == "" {
		return ErrUnknownCandidate
	}

	auditLog := s.appendAudit(ctx, wsID, ActionCandidateRemoved,
		fmt.Sprintf("Candidate '%s' was removed.", name), actor)

	return s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldCandidates): marshal(storage.FieldCandidates, remaining),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog):   marshal(storage.FieldAuditLog, auditLog),
	})
}

// AddVoter registers a voter. Ids must be unique case-insensitively because
// login matching is case-insensitive.
func (s *Service) AddVoter(ctx context.Context, wsID, id, name, password string, actor Actor) (Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	voters := s.loadVoters(ctx, wsID)
	for _, v := range voters {
		if strings.EqualFold(v.ID, id) {
			return Voter{}, ErrDuplicateID
		}
	}

	voter := Voter{ID: id, Name: name, Password: password}
	voters = append(voters, voter)

	auditLog := s.appendAudit(ctx, wsID, ActionVoterAdded,
		fmt.Sprintf("Voter '%s' was registered.", name), actor)

	err := s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldVoters):   marshal(storage.FieldVoters, voters),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog): marshal(storage.FieldAuditLog, auditLog),
	})
	if err != nil {
		return Voter{}, err
	}
	return voter, nil
}

func (s *Service) RemoveVoter(ctx context.Context, wsID, voterID string, actor Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	voters := s.loadVoters(ctx, wsID)
	name := ""
	remaining := make([]Voter, 0, len(voters))
	for _, v := range voters {
		if strings.EqualFold(v.ID, voterID) {
			name = v.Name
			continue
		}
		remaining = append(remaining, v)
	}
	if name == "" {
		return ErrVoterNotFound
	}

	auditLog := s.appendAudit(ctx, wsID, ActionVoterRemoved,
		fmt.Sprintf("Voter '%s' was removed.", name), actor)

	return s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldVoters):   marshal(storage.FieldVoters, remaining),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog): marshal(storage.FieldAuditLog, auditLog),
	})
}

// SetVoterBlocked flips a voter's blocked flag. A blocked voter fails login
// even with the right password.
func (s *Service) SetVoterBlocked(ctx context.Context, wsID, voterID string, blocked bool, actor Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

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
	voters[idx].IsBlocked = blocked

	action := ActionVoterUnblocked
	details := fmt.Sprintf("Voter '%s' was unblocked.", voters[idx].Name)
	if blocked {
		action = ActionVoterBlocked
		details = fmt.Sprintf("Voter '%s' was blocked.", voters[idx].Name)
	}
	auditLog := s.appendAudit(ctx, wsID, action, details, actor)

	return s.store.SetMulti(ctx, map[string][]byte{
		storage.WorkspaceKey(wsID, storage.FieldVoters):   marshal(storage.FieldVoters, voters),
		storage.WorkspaceKey(wsID, storage.FieldAuditLog): marshal(storage.FieldAuditLog, auditLog),
	})
}

// LookupVoters finds voters by (partial, case-insensitive) name so someone
// who forgot their login id can recover it. Passwords are not exposed; the
// transform layer strips them.
func (s *Service) LookupVoters(ctx context.Context, wsID, name string) []Voter {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}

	var matches []Voter
	for _, v := range s.loadVoters(ctx, wsID) {
		if strings.Contains(strings.ToLower(v.Name), name) {
			matches = append(matches, v)
		}
	}
	return matches
}
