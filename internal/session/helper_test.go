package session_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/medicoin/imaging-client/internal/session"
)

const (
	testToken    = "token-abc-123"
	testEmail    = "doc@example.com"
	testPassword = "hunter2"
)

var testProfile = session.UserProfile{
	FirstName:      "Ada",
	LastName:       "Nguyen",
	Email:          testEmail,
	Specialization: "radiology",
}

// authServer is a fake of the remote auth service, counting calls per
// endpoint so tests can assert on probe behaviour.
type authServer struct {
	*httptest.Server

	meCalls      atomic.Int64
	signOutCalls atomic.Int64

	brokenMe      bool
	failSignOut   bool
	emptyMeBody   bool
	signInPayload func() any
}

func startAuthServer(t *testing.T) *authServer {
	t.Helper()

	s := &authServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/doctor/me":
			s.meCalls.Add(1)
			if s.brokenMe {
				_, _ = w.Write([]byte("<html>proxy error</html>"))
				return
			}
			if s.emptyMeBody {
				_ = json.NewEncoder(w).Encode(map[string]any{"message": "ok"})
				return
			}
			if r.Header.Get("Authorization") != "Bearer "+testToken {
				http.Error(w, "could not validate credentials", http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data":    testProfile,
				"message": "doctor details fetched success",
			})

		case "/api/v1/auth/doctor/signin":
			var credentials map[string]string
			_ = json.NewDecoder(r.Body).Decode(&credentials)
			if credentials["email"] != testEmail || credentials["password"] != testPassword {
				http.Error(w, "invalid password", http.StatusUnauthorized)
				return
			}
			if s.signInPayload != nil {
				_ = json.NewEncoder(w).Encode(s.signInPayload())
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": testToken,
				"token_type":   "Bearer",
			})

		case "/api/v1/auth/doctor/signup":
			var registration session.Registration
			_ = json.NewDecoder(r.Body).Decode(&registration)
			if registration.Email == "" {
				http.Error(w, "email required", http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "registered"})

		case "/api/v1/auth/doctor/signout":
			s.signOutCalls.Add(1)
			if s.failSignOut {
				http.Error(w, "session store down", http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "signed out"})

		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)

	return s
}
