package election

import (
	"context"
	"sort"
)

type CandidateResult struct {
	CandidateID int    `json:"candidateId"`
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	Votes       int    `json:"votes"`
}

type PositionResult struct {
	PositionID   int               `json:"positionId"`
	PositionName string            `json:"positionName"`
	Candidates   []CandidateResult `json:"candidates"`
	Winner       *CandidateResult  `json:"winner"`
}

// Results tallies the vote collection per position. Candidates are sorted by
// vote count descending; the winner is the head of the list, nil when the
// position has no candidates. Ties resolve to the earlier candidate id, the
// same order the rendering layer displays.
func (s *Service) Results(ctx context.Context, wsID string) []PositionResult {
	positions := s.loadPositions(ctx, wsID)
	candidates := s.loadCandidates(ctx, wsID)
	votes := s.loadVotes(ctx, wsID)

	counts := make(map[int]int, len(candidates))
	for _, c := range candidates {
		counts[c.ID] = 0
	}
	for _, v := range votes {
		if _, known := counts[v.CandidateID]; known {
			counts[v.CandidateID]++
		}
	}

	results := make([]PositionResult, 0, len(positions))
	for _, position := range positions {
		var ranked []CandidateResult
		for _, c := range candidates {
			if c.PositionID != position.ID {
				continue
			}
			ranked = append(ranked, CandidateResult{
				CandidateID: c.ID,
				Name:        c.Name,
				ImageURL:    c.ImageURL,
				Votes:       counts[c.ID],
			})
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Votes > ranked[j].Votes
		})

		result := PositionResult{
			PositionID:   position.ID,
			PositionName: position.Name,
			Candidates:   ranked,
		}
		if len(ranked) > 0 {
			winner := ranked[0]
			result.Winner = &winner
		}
		results = append(results, result)
	}
	return results
}

// PublicResults gates Results behind the ended-and-published rule. Admin and
// super admin sessions read through Results directly.
func (s *Service) PublicResults(ctx context.Context, wsID string) ([]PositionResult, error) {
	if s.loadStatus(ctx, wsID) != StatusEnded || !s.loadResultsPublished(ctx, wsID) {
		return nil, ErrResultsNotVisible
	}
	return s.Results(ctx, wsID), nil
}
