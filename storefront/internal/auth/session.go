package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fjod/go_storefront/storefront/internal/storage"
)

// Session is the signed-in identity of the device user. The grant is
// persisted under storage.KeySession so CheckSession can restore it.
type Session struct {
	provider IdentityProvider
	state    storage.StateStore
	log      *slog.Logger

	mu      sync.RWMutex
	user    *User
	grant   *Grant
	loading bool
	lastErr string
}

func NewSession(provider IdentityProvider, state storage.StateStore, log *slog.Logger) *Session {
	return &Session{provider: provider, state: state, log: log}
}

// Login validates the form and signs in. Invalid input returns an error
// matching ErrValidation without contacting the provider.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if err := ValidateCredentials(email, password); err != nil {
		return err
	}

	s.start()
	defer s.finish()

	grant, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.log.WarnContext(ctx, "login failed", "error", err)
		s.setError(MsgLoginFailed)
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	s.signedIn(ctx, grant)
	return nil
}

func (s *Session) Signup(ctx context.Context, email, password, confirm string) error {
	if err := ValidateSignup(email, password, confirm); err != nil {
		return err
	}

	s.start()
	defer s.finish()

	grant, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		s.log.WarnContext(ctx, "signup failed", "error", err)
		s.setError(MsgSignupFailed)
		return fmt.Errorf("%w: %w", ErrSignupFailed, err)
	}
	s.signedIn(ctx, grant)
	return nil
}

// Logout signs out at the provider. On failure the user stays signed in.
func (s *Session) Logout(ctx context.Context) error {
	s.start()
	defer s.finish()

	s.mu.RLock()
	token := ""
	if s.grant != nil {
		token = s.grant.AccessToken
	}
	s.mu.RUnlock()

	if token != "" {
		if err := s.provider.SignOut(ctx, token); err != nil {
			s.log.WarnContext(ctx, "logout failed", "error", err)
			s.setError(MsgLogoutFailed)
			return fmt.Errorf("%w: %w", ErrLogoutFailed, err)
		}
	}

	s.mu.Lock()
	s.user = nil
	s.grant = nil
	s.mu.Unlock()

	if err := s.state.Delete(ctx, storage.KeySession); err != nil {
		s.log.ErrorContext(ctx, "failed to clear persisted session", "error", err)
	}
	return nil
}

// CheckSession restores the persisted grant and confirms it with the
// provider. Any failure leaves the session signed out.
func (s *Session) CheckSession(ctx context.Context) error {
	s.start()
	defer s.finish()

	var grant Grant
	found, err := storage.LoadJSON(ctx, s.state, storage.KeySession, &grant)
	if err != nil {
		return s.sessionFailed(ctx, err)
	}
	if !found || grant.AccessToken == "" {
		s.mu.Lock()
		s.user = nil
		s.grant = nil
		s.mu.Unlock()
		return nil
	}

	user, err := s.provider.GetUser(ctx, grant.AccessToken)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			_ = s.state.Delete(ctx, storage.KeySession)
		}
		return s.sessionFailed(ctx, err)
	}

	grant.User = *user
	s.mu.Lock()
	s.user = user
	s.grant = &grant
	s.mu.Unlock()
	return nil
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Email is the signed-in user's email, empty when signed out.
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Email
}

func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError is the user-facing message of the last failed action, cleared
// when the next one starts.
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Session) signedIn(ctx context.Context, grant *Grant) {
	s.mu.Lock()
	u := grant.User
	s.user = &u
	s.grant = grant
	s.mu.Unlock()

	if grant.AccessToken == "" {
		return
	}
	if err := storage.SaveJSON(ctx, s.state, storage.KeySession, grant); err != nil {
		s.log.ErrorContext(ctx, "failed to persist session", "error", err)
	}
}

func (s *Session) sessionFailed(ctx context.Context, err error) error {
	s.log.WarnContext(ctx, "session check failed", "error", err)
	s.mu.Lock()
	s.user = nil
	s.grant = nil
	s.lastErr = MsgSessionFailed
	s.mu.Unlock()
	return fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
}

func (s *Session) start() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *Session) finish() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Session) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}
