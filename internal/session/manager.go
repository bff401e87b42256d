// Package session owns the client-side authentication state: the tri-state
// session, the operations that move it, and the route guards that gate
// navigation on it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	slogctx "github.com/veqryn/slog-context"

	"github.com/medicoin/imaging-client/internal/apiclient"
	"github.com/medicoin/imaging-client/internal/serviceerr"
	"github.com/medicoin/imaging-client/internal/store"
)

const (
	signUpPath  = "/api/v1/auth/doctor/signup"
	signInPath  = "/api/v1/auth/doctor/signin"
	signOutPath = "/api/v1/auth/doctor/signout"
	mePath      = "/api/v1/auth/doctor/me"
)

type meResponse struct {
	Data    UserProfile `json:"data"`
	Message string      `json:"message,omitempty"`
}

type signInResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// SignUpResult is the caller-visible outcome of a registration.
type SignUpResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Manager resolves and mutates the session against the remote auth service.
// All state transitions happen under the mutex as each network call
// completes, so concurrent resolutions settle last-writer-wins.
type Manager struct {
	api    *apiclient.Client
	tokens store.Store

	mu            sync.Mutex
	current       Session
	bootstrapping bool
}

func NewManager(api *apiclient.Client, tokens store.Store) *Manager {
	return &Manager{
		api:     api,
		tokens:  tokens,
		current: Session{Status: StatusUnknown},
	}
}

// Current returns the session as of the last completed resolution.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current
}

// Bootstrap runs the initial "who am I" probe. It fires only while the
// session is still Unknown and never while another bootstrap is in flight,
// so repeated calls are safe. An explicit SignIn racing the probe is allowed;
// whichever resolution completes last wins.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.mu.Lock()
	if m.current.Status != StatusUnknown || m.bootstrapping {
		m.mu.Unlock()
		return
	}
	m.bootstrapping = true
	m.mu.Unlock()

	m.RefreshUser(ctx)

	m.mu.Lock()
	m.bootstrapping = false
	m.mu.Unlock()
}

// RefreshUser probes the "who am I" endpoint and applies the outcome: a
// valid profile authenticates the session, any failure at all resolves it to
// Anonymous. Failures are logged, never returned; the transition is the
// result.
func (m *Manager) RefreshUser(ctx context.Context) {
	var payload meResponse
	err := m.api.GetJSON(ctx, mePath, &payload)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil || payload.Data.Email == "" {
		if err != nil {
			slogctx.Debug(ctx, "Session resolved to anonymous", "error", err)
		} else {
			slogctx.Debug(ctx, "Profile response carried no user, resolving to anonymous")
		}
		m.current = Session{Status: StatusAnonymous}

		return
	}

	user := payload.Data
	m.current = Session{Status: StatusAuthenticated, User: &user}
}

// SignIn posts credentials, stores the returned bearer token, and refreshes
// the user profile. On failure the session is left untouched and the error
// is returned to the caller.
func (m *Manager) SignIn(ctx context.Context, email, password string) (Session, error) {
	credentials := map[string]string{"email": email, "password": password}

	var payload signInResponse
	if err := m.api.PostJSON(ctx, signInPath, credentials, &payload); err != nil {
		var statusErr *apiclient.StatusError
		if errors.As(err, &statusErr) && (statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusNotFound) {
			return Session{}, errors.Join(serviceerr.ErrInvalidCredentials, err)
		}

		return Session{}, fmt.Errorf("signing in: %w", err)
	}

	if payload.AccessToken == "" {
		return Session{}, errors.Join(serviceerr.ErrMalformedResponse, errors.New("sign-in response carried no access token"))
	}

	if err := m.tokens.Set(ctx, store.KeyAuthToken, payload.AccessToken); err != nil {
		return Session{}, fmt.Errorf("storing the bearer token: %w", err)
	}

	slogctx.Info(ctx, "Signed in, refreshing the user profile", "email", email)
	m.RefreshUser(ctx)

	return m.Current(), nil
}

// SignUp posts the registration payload. It does not authenticate the new
// account.
func (m *Manager) SignUp(ctx context.Context, registration Registration) (SignUpResult, error) {
	var result SignUpResult
	if err := m.api.PostJSON(ctx, signUpPath, registration, &result); err != nil {
		return SignUpResult{}, fmt.Errorf("signing up: %w", err)
	}

	return result, nil
}

// SignOut notifies the auth service best-effort, then unconditionally clears
// the stored token and resolves the session to Anonymous.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.api.GetJSON(ctx, signOutPath, nil); err != nil {
		slogctx.Warn(ctx, "Sign-out request failed, clearing the local session anyway", "error", err)
	}

	err := m.tokens.Delete(ctx, store.KeyAuthToken)

	m.mu.Lock()
	m.current = Session{Status: StatusAnonymous}
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("clearing the stored token: %w", err)
	}

	return nil
}
