package election

import (
	"sync"

	"github.com/ballothub/election-backend/logging"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type SessionRole string

const (
	SessionSuperAdmin SessionRole = "superadmin"
	SessionAdmin      SessionRole = "admin"
	SessionVoter      SessionRole = "voter"
)

// Session is a tagged union: exactly one of SuperAdmin, Admin or Voter is
// set, matching Role. WorkspaceID is empty for a super admin that has not
// entered a workspace. Keeping the role explicit makes an
// "admin and voter at once" state unrepresentable.
type Session struct {
	Token       string
	Role        SessionRole
	WorkspaceID string
	SuperAdmin  *AdminProfile
	Admin       *AdminProfile
	Voter       *Voter

	// EnteredAdmin is the admin profile a super admin adopted by entering a
	// workspace without a credential challenge. The session remains a super
	// admin session.
	EnteredAdmin *AdminProfile
}

// Actor is the audit identity this session acts as.
func (s *Session) Actor() Actor {
	switch s.Role {
	case SessionSuperAdmin:
		return Actor{ID: s.SuperAdmin.ID, Name: s.SuperAdmin.Name, Role: RoleSuperAdmin}
	case SessionAdmin:
		return Actor{ID: s.Admin.ID, Name: s.Admin.Name, Role: RoleAdmin}
	case SessionVoter:
		return Actor{ID: s.Voter.ID, Name: s.Voter.Name, Role: RoleVoter}
	}
	return SystemActor
}

// SessionManager hands out opaque tokens for logged-in identities. Sessions
// live in memory only; a restart logs everyone out. A published session is
// treated as immutable: rebinding (workspace enter, unbind on delete) swaps
// in a fresh value under the same token instead of mutating fields that
// concurrent requests may be reading.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

func (m *SessionManager) Create(session *Session) *Session {
	token, err := gonanoid.New(32)
	if err != nil {
		// gonanoid only fails when the OS entropy source does.
		logging.Log.Errorf("SESSION: failed to generate token: %v", err)
		return nil
	}
	session.Token = token

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = session
	return session
}

func (m *SessionManager) Get(token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Replace publishes a new value for an existing token.
func (m *SessionManager) Replace(session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Token] = session
}

// Destroy removes a session. Used on logout and after a vote commit, which
// terminates the voter session so the same login cannot cast twice.
func (m *SessionManager) Destroy(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// DestroyWorkspace drops every session bound to a workspace. Called when the
// workspace is deleted so orphaned admins and voters do not keep acting on
// purged data.
func (m *SessionManager) DestroyWorkspace(workspaceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, session := range m.sessions {
		if session.WorkspaceID == workspaceID && session.Role != SessionSuperAdmin {
			delete(m.sessions, token)
		}
	}
}

// UnbindWorkspace strips the workspace binding from super admin sessions
// that had entered the given workspace, so a deleted workspace id cannot
// keep passing the admin gate.
func (m *SessionManager) UnbindWorkspace(workspaceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, session := range m.sessions {
		if session.WorkspaceID == workspaceID && session.Role == SessionSuperAdmin {
			unbound := *session
			unbound.WorkspaceID = ""
			unbound.EnteredAdmin = nil
			m.sessions[token] = &unbound
		}
	}
}
