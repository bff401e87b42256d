package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicoin/imaging-client/internal/session"
	memorystore "github.com/medicoin/imaging-client/internal/store/memory"
)

func TestProtectedGuard_Decide(t *testing.T) {
	guard := session.NewProtectedGuard()

	tests := []struct {
		status session.Status
		want   session.Decision
	}{
		{status: session.StatusUnknown, want: session.Decision{Action: session.ActionPending}},
		{status: session.StatusAnonymous, want: session.Decision{Action: session.ActionRedirect, Target: session.DefaultSignInTarget, ReplaceHistory: true}},
		{status: session.StatusAuthenticated, want: session.Decision{Action: session.ActionRender}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Decide(tt.status))
		})
	}
}

func TestGuestGuard_Decide(t *testing.T) {
	guard := session.NewGuestGuard()

	tests := []struct {
		status session.Status
		want   session.Decision
	}{
		{status: session.StatusUnknown, want: session.Decision{Action: session.ActionPending}},
		{status: session.StatusAnonymous, want: session.Decision{Action: session.ActionRender}},
		{status: session.StatusAuthenticated, want: session.Decision{Action: session.ActionRedirect, Target: session.DefaultHomeTarget, ReplaceHistory: true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Decide(tt.status))
		})
	}
}

// The two guards must never both redirect for the same status, or navigation
// would ping-pong between them.
func TestGuards_NeverBothRedirect(t *testing.T) {
	protected := session.NewProtectedGuard()
	guest := session.NewGuestGuard()

	for _, status := range []session.Status{session.StatusUnknown, session.StatusAnonymous, session.StatusAuthenticated} {
		bothRedirect := protected.Decide(status).Action == session.ActionRedirect &&
			guest.Decide(status).Action == session.ActionRedirect
		assert.False(t, bothRedirect, "both guards redirect for status %s", status)
	}
}

// A protected view first shows the pending indicator while the session is
// unresolved, then redirects to sign-in once it resolves to anonymous.
func TestProtectedGuard_UnknownThenAnonymous(t *testing.T) {
	server := startAuthServer(t)
	m := newManager(t, server, memorystore.New())
	guard := session.NewProtectedGuard()

	decision := guard.Decide(m.Current().Status)
	require.Equal(t, session.ActionPending, decision.Action)
	assert.Empty(t, decision.Target)

	m.Bootstrap(t.Context())

	decision = guard.Decide(m.Current().Status)
	assert.Equal(t, session.ActionRedirect, decision.Action)
	assert.Equal(t, session.DefaultSignInTarget, decision.Target)
	assert.True(t, decision.ReplaceHistory)
}
