package auth

import "errors"

var (
	ErrValidation         = errors.New("invalid credentials form")
	ErrLoginFailed        = errors.New("login failed")
	ErrSignupFailed       = errors.New("signup failed")
	ErrLogoutFailed       = errors.New("logout failed")
	ErrSessionUnavailable = errors.New("failed to retrieve session")
	ErrUnauthorized       = errors.New("identity provider rejected the request")
)

// User-facing messages recorded in Session.LastError.
const (
	MsgLoginFailed   = "Login failed. Please try again."
	MsgSignupFailed  = "Signup failed. Please try again."
	MsgLogoutFailed  = "Logout failed. Please try again."
	MsgSessionFailed = "Failed to retrieve session."
)
