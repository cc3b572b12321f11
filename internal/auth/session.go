package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"task-manager/internal/model"
)

// UserStore is the local cache of signed-in users.
type UserStore interface {
	SaveUser(ctx context.Context, u model.User) error
	DeleteUser(ctx context.Context, id string) error
}

// Session tracks the current identity and broadcasts sign-in/sign-out transitions.
type Session struct {
	log      *slog.Logger
	verifier *TokenVerifier
	users    UserStore

	mu    sync.RWMutex
	state State
	subs  map[chan State]struct{}
}

func NewSession(log *slog.Logger, verifier *TokenVerifier, users UserStore) *Session {
	return &Session{
		log:      log,
		verifier: verifier,
		users:    users,
		state:    Initial{},
		subs:     make(map[chan State]struct{}),
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// OwnerID returns the id of the signed-in user, or "" when nobody is signed in.
func (s *Session) OwnerID() string {
	return OwnerID(s.State())
}

// Subscribe returns a channel that holds the latest state; older undelivered states are dropped.
// The current state is delivered immediately.
func (s *Session) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	ch <- s.state
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
		})
	}
}

func (s *Session) set(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
	s.log.Debug("auth state changed", "state", st.String())
}

// SignIn verifies an identity token and caches the user locally.
func (s *Session) SignIn(ctx context.Context, token string) error {
	s.set(Loading{})

	id, err := s.verifier.Verify(token)
	if err != nil {
		s.set(Failed{Err: err})
		return err
	}

	user := model.User{ID: id.ID, Email: id.Email}
	if id.DisplayName != "" {
		user.DisplayName = &id.DisplayName
	}
	if id.AvatarURL != "" {
		user.AvatarURL = &id.AvatarURL
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		err = fmt.Errorf("save user: %w", err)
		s.set(Failed{Err: err})
		return err
	}

	s.log.Info("signed in", "owner", id.ID)
	s.set(Authenticated{Identity: id})
	return nil
}

// SignOut drops the local user cache row. The remote identity is untouched.
func (s *Session) SignOut(ctx context.Context) error {
	if owner := s.OwnerID(); owner != "" {
		if err := s.users.DeleteUser(ctx, owner); err != nil {
			s.log.Error("delete local user", "owner", owner, "error", err)
		}
		s.log.Info("signed out", "owner", owner)
	}
	s.set(Unauthenticated{})
	return nil
}
