package models

type LoginRequest struct {
	WorkspaceID string `json:"workspaceId"`
	LoginID     string `json:"loginId" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreatePositionRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateCandidateRequest struct {
	PositionID int    `json:"positionId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	ImageURL   string `json:"imageUrl"`
}

type CreateVoterRequest struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SetBlockedRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

type AdminProfileRequest struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	ImageURL string `json:"imageUrl"`
	Contact  string `json:"contact"`
}

// CastVoteRequest maps each position id to the set of selected candidate
// ids. An empty map is a valid abstention.
type CastVoteRequest struct {
	Selections map[int][]int `json:"selections"`
}

type ResultsPublishedRequest struct {
	Published *bool `json:"published" binding:"required"`
}

type ThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}
