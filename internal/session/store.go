package session

import (
	"context"
	"sync"

	"github.com/Mhmdshannon/Spark/internal/supabase"
	"github.com/Mhmdshannon/Spark/pkg/safecall"
)

// State is the lifecycle of the tracked session. Loading happens once, at
// startup; auth-change notifications move the store straight between
// Authenticated and Anonymous afterwards.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// ProfileEnsurer repairs the profile row behind an authenticated identity.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, identity *supabase.User) error
}

// Store tracks the current session and keeps it consistent with auth-change
// notifications. Every transition into Authenticated triggers a background
// profile sync; sync failures never affect the session itself.
type Store struct {
	auth     *supabase.AuthClient
	profiles ProfileEnsurer

	mu          sync.RWMutex
	state       State
	session     *supabase.Session
	unsubscribe func()
}

func NewStore(auth *supabase.AuthClient, profiles ProfileEnsurer) *Store {
	return &Store{auth: auth, profiles: profiles, state: StateUninitialized}
}

// Start subscribes to auth-change notifications and resolves initialToken
// into a session. Resolution that fails or runs out of budget falls back to
// anonymous; the store never sticks in Loading.
func (s *Store) Start(ctx context.Context, initialToken string) {
	s.mu.Lock()
	s.state = StateLoading
	s.unsubscribe = s.auth.OnAuthStateChange(s.handleAuthChange)
	s.mu.Unlock()

	if initialToken == "" {
		s.setAnonymous()
		return
	}

	user := safecall.Do(ctx, "session restore", safecall.AuthBudget, nil,
		func(ctx context.Context) (*supabase.User, error) {
			return s.auth.GetUser(ctx, initialToken)
		})
	if user == nil {
		s.setAnonymous()
		return
	}
	s.setAuthenticated(&supabase.Session{AccessToken: initialToken, User: user})
}

// Close unsubscribes from auth-change notifications.
func (s *Store) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// handleAuthChange maps notifications onto states. Loading is never
// re-entered here; a notification always lands on a settled state.
func (s *Store) handleAuthChange(event supabase.AuthEvent, session *supabase.Session) {
	switch event {
	case supabase.AuthSignedIn:
		if session != nil && session.User != nil {
			s.setAuthenticated(session)
		}
	case supabase.AuthSignedOut:
		s.setAnonymous()
	}
}

func (s *Store) setAuthenticated(session *supabase.Session) {
	s.mu.Lock()
	s.state = StateAuthenticated
	s.session = session
	s.mu.Unlock()

	if s.profiles != nil && session.User != nil {
		// Fire and forget; the synchronizer handles coalescing and cooldown.
		go s.profiles.EnsureProfile(context.Background(), session.User)
	}
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	s.state = StateAnonymous
	s.session = nil
	s.mu.Unlock()
}

// SignOut revokes the current token. The state transition is driven by the
// signed-out notification, which fires whether or not revocation succeeds.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.RLock()
	token := ""
	if s.session != nil {
		token = s.session.AccessToken
	}
	s.mu.RUnlock()
	return s.auth.SignOut(ctx, token)
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Session() *supabase.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Store) User() *supabase.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	return s.session.User
}

func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}
