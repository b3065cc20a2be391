package election

import "errors"

// Authentication failures. All except ErrInvalidCredentials identify a known
// account and are audited; a pure not-found is not logged.
var (
	ErrNoWorkspaceSelected = errors.New("please select a workspace before logging in")
	ErrAccountBlocked      = errors.New("your account is blocked, please contact the administrator")
	ErrElectionNotActive   = errors.New("the election is not currently in progress")
	ErrAlreadyVoted        = errors.New("you have already cast your vote")
	ErrInvalidCredentials  = errors.New("invalid credentials, please check your ID and password")
)

// Vote validation.
var (
	ErrUnknownPosition  = errors.New("ballot references an unknown position")
	ErrUnknownCandidate = errors.New("ballot references an unknown candidate")
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrVoterNotFound     = errors.New("voter not found")
	ErrDuplicateID       = errors.New("an entry with this ID already exists")
	ErrResultsNotVisible = errors.New("results are not published yet")
	ErrSessionNotFound   = errors.New("session not found or expired")
)
