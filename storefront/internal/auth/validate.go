package auth

import (
	"regexp"
	"strings"
)

const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidationError carries one message per invalid form field. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Email    string
	Password string
	Confirm  string
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, msg := range []string{e.Email, e.Password, e.Confirm} {
		if msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, " ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ValidateCredentials checks a login form.
func ValidateCredentials(email, password string) error {
	var v ValidationError
	v.Email = validateEmail(email)
	v.Password = validatePassword(password)
	if v.Email == "" && v.Password == "" {
		return nil
	}
	return &v
}

// ValidateSignup checks a signup form; confirm must equal password.
func ValidateSignup(email, password, confirm string) error {
	var v ValidationError
	v.Email = validateEmail(email)
	v.Password = validatePassword(password)
	if confirm != password {
		v.Confirm = "Passwords do not match."
	}
	if v.Email == "" && v.Password == "" && v.Confirm == "" {
		return nil
	}
	return &v
}

func validateEmail(email string) string {
	switch {
	case strings.TrimSpace(email) == "":
		return "Please enter an email address."
	case !emailPattern.MatchString(email):
		return "Invalid email address."
	}
	return ""
}

func validatePassword(password string) string {
	switch {
	case password == "":
		return "Please enter a password."
	case len([]rune(password)) < MinPasswordLength:
		return "Password must be at least 6 characters."
	}
	return ""
}
