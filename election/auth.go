package election

import (
	"context"
	"fmt"
	"strings"

	"github.com/ballothub/election-backend/logging"
)

// Resolve authenticates a login id and password against, in order: the
// global super admin, the workspace admin, then the voter roll. The first
// match wins. Password comparison is byte-exact; voter ids match
// case-insensitively. Authentication never mutates voter or admin records,
// only the audit log.
func (s *Service) Resolve(ctx context.Context, workspaceID, loginID, password string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loginID = strings.TrimSpace(loginID)

	// Super admin is workspace-agnostic. Any workspace id on the request is
	// ignored: EnterWorkspace is the only path that binds a super admin
	// session to a workspace, after validating it exists.
	superAdmin := s.superAdminProfile(ctx)
	if loginID == superAdmin.ID && password == superAdmin.Password {
		logging.Log.Infof("AUTH: super admin logged in")
		return s.sessions.Create(&Session{
			Role:       SessionSuperAdmin,
			SuperAdmin: &superAdmin,
		}), nil
	}

	// Everything below needs a workspace.
	if workspaceID == "" {
		return nil, ErrNoWorkspaceSelected
	}
	if _, err := s.findWorkspace(ctx, workspaceID); err != nil {
		return nil, err
	}

	// Workspace admin logs in unconditionally, regardless of election phase.
	if admin := s.loadAdminProfile(ctx, workspaceID); admin != nil &&
		loginID == admin.ID && password == admin.Password {
		actor := Actor{ID: admin.ID, Name: admin.Name, Role: RoleAdmin}
		if err := s.audit(ctx, workspaceID, ActionAdminLogin, "Admin logged in successfully.", actor); err != nil {
			return nil, err
		}
		logging.Log.Infof("AUTH: admin %s logged in to workspace %s", admin.ID, workspaceID)
		return s.sessions.Create(&Session{
			Role:        SessionAdmin,
			WorkspaceID: workspaceID,
			Admin:       admin,
		}), nil
	}

	// Voter: id match is case-insensitive, password check comes before the
	// phase checks so a wrong password reads as invalid credentials, not as
	// a state error.
	voters := s.loadVoters(ctx, workspaceID)
	for i := range voters {
		voter := voters[i]
		if !strings.EqualFold(voter.ID, loginID) {
			continue
		}
		if password != voter.Password {
			break
		}

		actor := Actor{ID: voter.ID, Name: voter.Name, Role: RoleVoter}
		if voter.IsBlocked {
			details := fmt.Sprintf("Login failed for voter '%s' (Account blocked).", voter.Name)
			if err := s.audit(ctx, workspaceID, ActionVoterLoginFail, details, actor); err != nil {
				return nil, err
			}
			return nil, ErrAccountBlocked
		}
		if s.loadStatus(ctx, workspaceID) != StatusInProgress {
			details := fmt.Sprintf("Login failed for voter '%s' (Election not in progress).", voter.Name)
			if err := s.audit(ctx, workspaceID, ActionVoterLoginFail, details, actor); err != nil {
				return nil, err
			}
			return nil, ErrElectionNotActive
		}
		if voter.HasVoted {
			details := fmt.Sprintf("Login failed for voter '%s' (Already voted).", voter.Name)
			if err := s.audit(ctx, workspaceID, ActionVoterLoginFail, details, actor); err != nil {
				return nil, err
			}
			return nil, ErrAlreadyVoted
		}

		details := fmt.Sprintf("Voter '%s' logged in successfully.", voter.Name)
		if err := s.audit(ctx, workspaceID, ActionVoterLoginSuccess, details, actor); err != nil {
			return nil, err
		}
		logging.Log.Infof("AUTH: voter %s logged in to workspace %s", voter.ID, workspaceID)
		return s.sessions.Create(&Session{
			Role:        SessionVoter,
			WorkspaceID: workspaceID,
			Voter:       &voter,
		}), nil
	}

	// Failed lookups with no identity match are not audited; random id
	// guesses would only pollute the log.
	return nil, ErrInvalidCredentials
}
