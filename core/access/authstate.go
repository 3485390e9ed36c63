package access

// AuthStatus is the tri-state of authentication resolution.
type AuthStatus int

const (
	// StatusLoading: verification is in flight; render nothing protected yet.
	StatusLoading AuthStatus = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s AuthStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// AuthState is one delivered value of the authentication lifecycle.
// It starts in loading, settles into one of the terminal states on each
// sign-in/sign-out event, and may return to loading on a later event.
type AuthState struct {
	Status    AuthStatus
	Principal *Principal // set iff Status == StatusAuthenticated
}

func Loading() AuthState         { return AuthState{Status: StatusLoading} }
func Unauthenticated() AuthState { return AuthState{Status: StatusUnauthenticated} }

func Authenticated(p Principal) AuthState {
	return AuthState{Status: StatusAuthenticated, Principal: &p}
}

// AuthStateProvider is the external authentication collaborator: the
// guard consumes only its output. An error from State is treated by the
// guard as unauthenticated (fail closed).
type AuthStateProvider interface {
	State() (AuthState, error)
}
