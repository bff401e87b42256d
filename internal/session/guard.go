package session

// Route guards are pure functions from the session status to a navigation
// decision. ProtectedGuard and GuestGuard redirect on mutually exclusive
// statuses and are both inert on Unknown, so they can never redirect against
// each other for the same status value.

type Action string

const (
	// ActionPending renders a waiting indicator; the status is not resolved yet.
	ActionPending Action = "pending"
	// ActionRedirect navigates to Decision.Target, replacing the current
	// history entry so the back button cannot loop into the guarded view.
	ActionRedirect Action = "redirect"
	// ActionRender shows the guarded content unmodified.
	ActionRender Action = "render"
)

type Decision struct {
	Action Action
	Target string
	// ReplaceHistory is set on every redirect decision.
	ReplaceHistory bool
}

const (
	DefaultSignInTarget = "/signin"
	DefaultHomeTarget   = "/m"
)

// ProtectedGuard admits only authenticated sessions and sends anonymous ones
// to the sign-in entry point.
type ProtectedGuard struct {
	SignInTarget string
}

func NewProtectedGuard() ProtectedGuard {
	return ProtectedGuard{SignInTarget: DefaultSignInTarget}
}

func (g ProtectedGuard) Decide(status Status) Decision {
	switch status {
	case StatusUnknown:
		return Decision{Action: ActionPending}
	case StatusAnonymous:
		return Decision{Action: ActionRedirect, Target: g.SignInTarget, ReplaceHistory: true}
	default:
		return Decision{Action: ActionRender}
	}
}

// GuestGuard mirrors ProtectedGuard: it admits anonymous sessions and sends
// authenticated ones away from guest-only views.
type GuestGuard struct {
	HomeTarget string
}

func NewGuestGuard() GuestGuard {
	return GuestGuard{HomeTarget: DefaultHomeTarget}
}

func (g GuestGuard) Decide(status Status) Decision {
	switch status {
	case StatusUnknown:
		return Decision{Action: ActionPending}
	case StatusAuthenticated:
		return Decision{Action: ActionRedirect, Target: g.HomeTarget, ReplaceHistory: true}
	default:
		return Decision{Action: ActionRender}
	}
}
