package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Grant is the result of a successful sign-in. AccessToken is empty when the
// provider created the user but withheld a session (e.g. pending email
// confirmation).
type Grant struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IdentityProvider is the hosted email/password identity service.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Grant, error)
	SignUp(ctx context.Context, email, password string) (*Grant, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*User, error)
}

// GoTrueProvider talks to a GoTrue compatible REST API (the auth service
// behind hosted Postgres backends).
type GoTrueProvider struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewGoTrueProvider(baseURL, apiKey string, timeout time.Duration) *GoTrueProvider {
	return &GoTrueProvider{
		baseURL: strings.TrimRight(baseURL, "/") + "/auth/v1",
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type passwordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user"`
	// signup without a session returns the user object at the top level
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (r tokenResponse) grant(now time.Time) *Grant {
	g := &Grant{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
	}
	if r.ExpiresIn > 0 {
		g.ExpiresAt = now.Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	if r.User != nil {
		g.User = *r.User
	} else {
		g.User = User{ID: r.ID, Email: r.Email}
	}
	return g
}

func (p *GoTrueProvider) SignInWithPassword(ctx context.Context, email, password string) (*Grant, error) {
	var resp tokenResponse
	err := p.do(ctx, http.MethodPost, "/token?grant_type=password", "", passwordRequest{email, password}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.grant(time.Now()), nil
}

func (p *GoTrueProvider) SignUp(ctx context.Context, email, password string) (*Grant, error) {
	var resp tokenResponse
	if err := p.do(ctx, http.MethodPost, "/signup", "", passwordRequest{email, password}, &resp); err != nil {
		return nil, err
	}
	return resp.grant(time.Now()), nil
}

func (p *GoTrueProvider) SignOut(ctx context.Context, accessToken string) error {
	return p.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (p *GoTrueProvider) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := p.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (p *GoTrueProvider) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode >= 300:
		var apiErr struct {
			Message string `json:"msg"`
			Error   string `json:"error_description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("identity provider: status %d: %s%s", resp.StatusCode, apiErr.Message, apiErr.Error)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode identity response: %w", err)
	}
	return nil
}
