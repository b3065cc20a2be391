package election

// ElectionStatus values are part of the persisted contract; the literal
// strings are stored as-is.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusEnded      Status = "ENDED"
)

// ElectionDurationMillis is how long an election stays open once started.
const ElectionDurationMillis = 8 * 60 * 60 * 1000

// DefaultUserImage is the fallback avatar for profiles without one.
const DefaultUserImage = "https://ui-avatars.com/api/?name=User&background=random"

type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Position struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Candidate struct {
	ID         int    `json:"id"`
	PositionID int    `json:"positionId"`
	Name       string `json:"name"`
	ImageURL   string `json:"imageUrl"`
}

type Voter struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	IsBlocked bool   `json:"isBlocked"`
	HasVoted  bool   `json:"hasVoted"`
}

type Vote struct {
	VoterID     string `json:"voterId"`
	PositionID  int    `json:"positionId"`
	CandidateID int    `json:"candidateId"`
	Timestamp   int64  `json:"timestamp"`
}

type AdminProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password"`
	ImageURL string `json:"imageUrl"`
	Contact  string `json:"contact"`
}

type AuditAction string

const (
	ActionElectionStart       AuditAction = "ELECTION_START"
	ActionElectionEnd         AuditAction = "ELECTION_END"
	ActionElectionReset       AuditAction = "ELECTION_RESET"
	ActionResultsPublished    AuditAction = "RESULTS_PUBLISHED"
	ActionResultsHidden       AuditAction = "RESULTS_HIDDEN"
	ActionAdminLogin          AuditAction = "ADMIN_LOGIN"
	ActionVoterLoginSuccess   AuditAction = "VOTER_LOGIN_SUCCESS"
	ActionVoterLoginFail      AuditAction = "VOTER_LOGIN_FAIL"
	ActionVoteCast            AuditAction = "VOTE_CAST"
	ActionWorkspaceCreated    AuditAction = "WORKSPACE_CREATED"
	ActionWorkspaceDeleted    AuditAction = "WORKSPACE_DELETED"
	ActionPositionAdded       AuditAction = "POSITION_ADDED"
	ActionPositionRemoved     AuditAction = "POSITION_REMOVED"
	ActionCandidateAdded      AuditAction = "CANDIDATE_ADDED"
	ActionCandidateRemoved    AuditAction = "CANDIDATE_REMOVED"
	ActionVoterAdded          AuditAction = "VOTER_ADDED"
	ActionVoterRemoved        AuditAction = "VOTER_REMOVED"
	ActionVoterBlocked        AuditAction = "VOTER_BLOCKED"
	ActionVoterUnblocked      AuditAction = "VOTER_UNBLOCKED"
	ActionAdminProfileUpdated AuditAction = "ADMIN_PROFILE_UPDATED"
)

type ActorRole string

const (
	RoleSystem     ActorRole = "System"
	RoleSuperAdmin ActorRole = "Super Admin"
	RoleAdmin      ActorRole = "Admin"
	RoleVoter      ActorRole = "Voter"
)

type Actor struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Role ActorRole `json:"role"`
}

var SystemActor = Actor{ID: "System", Name: "System", Role: RoleSystem}

type AuditEntry struct {
	ID        string      `json:"id"`
	Timestamp int64       `json:"timestamp"`
	Action    AuditAction `json:"action"`
	Details   string      `json:"details"`
	Actor     Actor       `json:"actor"`
}

// WorkspaceOverview is what the super admin sees per workspace: identity
// plus the election status read straight from storage.
type WorkspaceOverview struct {
	Workspace
	Status Status `json:"status"`
}

// ElectionState is the read-only snapshot rendering clients consume.
type ElectionState struct {
	Status           Status `json:"status"`
	EndTime          *int64 `json:"endTime"`
	ResultsPublished bool   `json:"resultsPublished"`
}
