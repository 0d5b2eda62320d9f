package auth

import (
	"context"
	"sync"
)

// MockProvider implements IdentityProvider for testing
type MockProvider struct {
	mu sync.Mutex

	grant      *Grant
	user       *User
	signInErr  error
	signUpErr  error
	signOutErr error
	getUserErr error

	calls []string
}

func (m *MockProvider) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *MockProvider) SignInWithPassword(_ context.Context, _, _ string) (*Grant, error) {
	m.record("signin")
	if m.signInErr != nil {
		return nil, m.signInErr
	}
	return m.grant, nil
}

func (m *MockProvider) SignUp(_ context.Context, _, _ string) (*Grant, error) {
	m.record("signup")
	if m.signUpErr != nil {
		return nil, m.signUpErr
	}
	return m.grant, nil
}

func (m *MockProvider) SignOut(_ context.Context, _ string) error {
	m.record("signout")
	return m.signOutErr
}

func (m *MockProvider) GetUser(_ context.Context, _ string) (*User, error) {
	m.record("getuser")
	if m.getUserErr != nil {
		return nil, m.getUserErr
	}
	return m.user, nil
}
