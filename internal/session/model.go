package session

// Status is the three-valued authentication state. It starts Unknown on
// process start and, once resolved, only moves between Anonymous and
// Authenticated; it never reverts to Unknown.
type Status string

const (
	StatusUnknown       Status = "unknown"
	StatusAnonymous     Status = "anonymous"
	StatusAuthenticated Status = "authenticated"
)

type UserProfile struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Specialization string `json:"specialization,omitempty"`
}

// Session pairs the status with the resolved user. User is non-nil exactly
// when Status is StatusAuthenticated.
type Session struct {
	Status Status
	User   *UserProfile
}

// Registration is the sign-up payload. Registering does not authenticate the
// new account; the caller signs in separately.
type Registration struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Specialization string `json:"specialization,omitempty"`
}
