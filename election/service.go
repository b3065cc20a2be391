package election

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/ballothub/election-backend/logging"
	"github.com/ballothub/election-backend/storage"
)

// Service is the election core: workspace registry, authentication resolver,
// vote recorder, lifecycle transitions and audit log, all running over the
// key/value persistence adapter.
//
// Every mutation is a full read-modify-write of the affected collections,
// executed under one mutex so that two racing callers cannot interleave
// partial writes. Writes that must be observed together (vote commit, resets)
// go through Store.SetMulti as a single storage operation.
type Service struct {
	store    storage.Store
	sessions *SessionManager
	mu       sync.Mutex
	now      func() time.Time
}

func NewService(store storage.Store) *Service {
	return &Service{
		store:    store,
		sessions: NewSessionManager(),
		now:      time.Now,
	}
}

func (s *Service) Sessions() *SessionManager {
	return s.sessions
}

func (s *Service) nowMillis() int64 {
	return s.now().UnixMilli()
}

// load reads and decodes one persisted value. Missing keys and malformed
// payloads both degrade to the provided default; corruption is logged, never
// propagated.
func load[T any](ctx context.Context, store storage.Store, key string, def T) T {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			logging.Log.Warnf("CORE: failed to read %s, using default: %v", key, err)
		}
		return def
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		logging.Log.Warnf("CORE: malformed value at %s, using default: %v", key, err)
		return def
	}
	return value
}

func marshal(key string, value any) []byte {
	raw, err := json.Marshal(value)
	if err != nil {
		// Only reachable with unmarshalable values, which none of the
		// persisted types are.
		logging.Log.Errorf("CORE: failed to marshal value for %s: %v", key, err)
		return []byte("null")
	}
	return raw
}

func (s *Service) save(ctx context.Context, key string, value any) error {
	return s.store.Set(ctx, key, marshal(key, value))
}

// Workspace-scoped loaders.

func (s *Service) loadPositions(ctx context.Context, wsID string) []Position {
	return load(ctx, s.store, storage.WorkspaceKey(wsID, storage.FieldPositions), []Position{})
}

func (s *Service) loadCandidates(ctx context.Context, wsID string) []Candidate {
	return load(ctx, s.store, storage.WorkspaceKey(wsID, storage.FieldCandidates), []Candidate{})
}

func (s *Service) loadVoters(ctx context.Context, wsID string) []Voter {
	return load(ctx, s.store, storage.WorkspaceKey(wsID, storage.FieldVoters), []Voter{})
}

func (s *Service) loadVotes(ctx context.Context, wsID string) []Vote {
	return load(ctx, s.store, storage.WorkspaceKey(wsID, storage.FieldVotes), []Vote{})
}

func (s *Service) loadStatus(ctx context.Context, wsID string) Status {
	return load(ctx, s.store, storage.WorkspaceKey(wsID, storage.FieldElectionStatus), StatusNotStarted)
}

func (s *Service) loadEndTime(ctx context.Context, wsID string) *int64 {
	return load[*int64](ctx, s.store, storage.WorkspaceKey(wsID, storage.FieldElectionEndTime), nil)
}

func (s *Service) loadAdminProfile(ctx context.Context, wsID string) *AdminProfile {
	return load[*AdminProfile](ctx, s.store, storage.WorkspaceKey(wsID, storage.FieldAdminProfile), nil)
}

func (s *Service) loadAuditLog(ctx context.Context, wsID string) []AuditEntry {
	return load(ctx, s.store, storage.WorkspaceKey(wsID, storage.FieldAuditLog), []AuditEntry{})
}

func (s *Service) loadResultsPublished(ctx context.Context, wsID string) bool {
	return load(ctx, s.store, storage.WorkspaceKey(wsID, storage.FieldResultsPublished), false)
}

// ElectionState returns the public snapshot of a workspace's election.
func (s *Service) ElectionState(ctx context.Context, wsID string) ElectionState {
	return ElectionState{
		Status:           s.loadStatus(ctx, wsID),
		EndTime:          s.loadEndTime(ctx, wsID),
		ResultsPublished: s.loadResultsPublished(ctx, wsID),
	}
}

// EnsureSuperAdmin seeds the bootstrap super admin profile on first startup.
// The default credential is deliberately weak; rotating it is up to the
// operator through the profile update endpoint.
func (s *Service) EnsureSuperAdmin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Get(ctx, storage.KeySuperAdmin); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		return err
	}

	profile := AdminProfile{
		ID:       "superadmin",
		Name:     "Super Admin",
		Password: "super123",
		ImageURL: DefaultUserImage,
	}
	logging.Log.Infof("CORE: seeding default super admin profile")
	return s.save(ctx, storage.KeySuperAdmin, profile)
}

func (s *Service) superAdminProfile(ctx context.Context) AdminProfile {
	return load(ctx, s.store, storage.KeySuperAdmin, AdminProfile{
		ID:       "superadmin",
		Name:     "Super Admin",
		Password: "super123",
		ImageURL: DefaultUserImage,
	})
}

// SuperAdminProfile returns the global super admin profile.
func (s *Service) SuperAdminProfile(ctx context.Context) AdminProfile {
	return s.superAdminProfile(ctx)
}

// UpdateSuperAdminProfile replaces the global super admin profile.
func (s *Service) UpdateSuperAdminProfile(ctx context.Context, profile AdminProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profile.ImageURL == "" {
		profile.ImageURL = DefaultUserImage
	}
	return s.save(ctx, storage.KeySuperAdmin, profile)
}

// Theme returns the persisted UI theme preference, defaulting to light.
func (s *Service) Theme(ctx context.Context) string {
	return load(ctx, s.store, storage.KeyThemePreference, "light")
}

// SetTheme persists the UI theme preference.
func (s *Service) SetTheme(ctx context.Context, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, storage.KeyThemePreference, theme)
}
