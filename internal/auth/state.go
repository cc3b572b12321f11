package auth

import "fmt"

// Identity is what the identity provider tells us about the signed-in user.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
}

// State is the authentication state. It is one of Initial, Loading, Authenticated,
// Unauthenticated or Failed.
type State interface {
	isState()
	String() string
}

type Initial struct{}

type Loading struct{}

type Authenticated struct {
	Identity Identity
}

type Unauthenticated struct{}

type Failed struct {
	Err error
}

func (Initial) isState()         {}
func (Loading) isState()         {}
func (Authenticated) isState()   {}
func (Unauthenticated) isState() {}
func (Failed) isState()          {}

func (Initial) String() string         { return "initial" }
func (Loading) String() string         { return "loading" }
func (a Authenticated) String() string { return fmt.Sprintf("authenticated(%s)", a.Identity.ID) }
func (Unauthenticated) String() string { return "unauthenticated" }
func (f Failed) String() string        { return fmt.Sprintf("failed(%v)", f.Err) }

// Cases holds one handler per state; Match panics if a handler is missing.
type Cases[R any] struct {
	Initial         func() R
	Loading         func() R
	Authenticated   func(Identity) R
	Unauthenticated func() R
	Failed          func(error) R
}

// Match dispatches s to the handler for its variant.
func Match[R any](s State, c Cases[R]) R {
	if c.Initial == nil || c.Loading == nil || c.Authenticated == nil || c.Unauthenticated == nil || c.Failed == nil {
		panic("auth: Match requires a handler for every state")
	}
	switch v := s.(type) {
	case Initial:
		return c.Initial()
	case Loading:
		return c.Loading()
	case Authenticated:
		return c.Authenticated(v.Identity)
	case Unauthenticated:
		return c.Unauthenticated()
	case Failed:
		return c.Failed(v.Err)
	default:
		panic(fmt.Sprintf("auth: unknown state %T", s))
	}
}

// OwnerID returns the signed-in user id, or "" for every other state.
func OwnerID(s State) string {
	if a, ok := s.(Authenticated); ok {
		return a.Identity.ID
	}
	return ""
}
