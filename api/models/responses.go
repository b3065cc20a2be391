package models

import (
	"github.com/ballothub/election-backend/election"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Token       string `json:"token"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspaceId,omitempty"`
}

// VoterResponse is a Voter with the password stripped.
type VoterResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsBlocked bool   `json:"isBlocked"`
	HasVoted  bool   `json:"hasVoted"`
}

func TransformVoter(v election.Voter) VoterResponse {
	return VoterResponse{
		ID:        v.ID,
		Name:      v.Name,
		IsBlocked: v.IsBlocked,
		HasVoted:  v.HasVoted,
	}
}

func TransformVoters(voters []election.Voter) []VoterResponse {
	responses := make([]VoterResponse, 0, len(voters))
	for _, v := range voters {
		responses = append(responses, TransformVoter(v))
	}
	return responses
}

// AdminProfileResponse strips the password from a profile.
type AdminProfileResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Contact  string `json:"contact"`
}

func TransformAdminProfile(p election.AdminProfile) AdminProfileResponse {
	return AdminProfileResponse{
		ID:       p.ID,
		Name:     p.Name,
		ImageURL: p.ImageURL,
		Contact:  p.Contact,
	}
}

// BallotPosition is one contest as the voting booth renders it.
type BallotPosition struct {
	ID         int                  `json:"id"`
	Name       string               `json:"name"`
	Candidates []election.Candidate `json:"candidates"`
}

type BallotResponse struct {
	WorkspaceID string           `json:"workspaceId"`
	Positions   []BallotPosition `json:"positions"`
}

func TransformBallot(wsID string, positions []election.Position, candidates []election.Candidate) BallotResponse {
	response := BallotResponse{
		WorkspaceID: wsID,
		Positions:   make([]BallotPosition, 0, len(positions)),
	}
	for _, p := range positions {
		entry := BallotPosition{ID: p.ID, Name: p.Name, Candidates: []election.Candidate{}}
		for _, c := range candidates {
			if c.PositionID == p.ID {
				entry.Candidates = append(entry.Candidates, c)
			}
		}
		response.Positions = append(response.Positions, entry)
	}
	return response
}

// VoterLookupResponse answers "find my voter id" without leaking secrets.
type VoterLookupResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	HasVoted bool   `json:"hasVoted"`
}

func TransformVoterLookup(voters []election.Voter) []VoterLookupResponse {
	responses := make([]VoterLookupResponse, 0, len(voters))
	for _, v := range voters {
		responses = append(responses, VoterLookupResponse{ID: v.ID, Name: v.Name, HasVoted: v.HasVoted})
	}
	return responses
}

type ThemeResponse struct {
	Theme string `json:"theme"`
}
