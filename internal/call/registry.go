package call

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-contacts-service/internal/contact"
	"github.com/sentiric/sentiric-contacts-service/internal/dialer"
	"github.com/sentiric/sentiric-contacts-service/internal/logger"
)

// ErrNotFound: oturum yok ya da kapatıldı.
var ErrNotFound = errors.New("call: session not found")

// Registry owns the live sessions. A session leaves the registry when its
// dismiss delay elapses or on CloseAll.
type Registry struct {
	caller Caller
	log    zerolog.Logger
	opts   Options

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewRegistry(caller Caller, log zerolog.Logger, opts Options) *Registry {
	return &Registry{
		caller:   caller,
		log:      log,
		opts:     opts.withDefaults(),
		sessions: make(map[string]*Session),
	}
}

// Start opens an outgoing call to c and arms its connect timer.
func (r *Registry) Start(c contact.Contact) (*Session, error) {
	s, err := r.add(c, NewSession)
	if err != nil {
		return nil, err
	}
	if err := s.Start(); err != nil {
		r.forget(s.ID())
		return nil, err
	}
	return s, nil
}

// Ring registers an incoming call from c in the Ringing state.
func (r *Registry) Ring(c contact.Contact) (*Session, error) {
	s, err := r.add(c, NewIncoming)
	if err != nil {
		return nil, err
	}
	r.log.Info().
		Str("event", logger.EventCallIncoming).
		Dict("attributes", zerolog.Dict().
			Str("call_id", s.ID()).
			Str("contact_id", c.ID)).
		Msg("Gelen arama")
	return s, nil
}

// Answer accepts the ringing session id.
func (r *Registry) Answer(id string) (*Session, error) {
	s, ok := r.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return s, s.Answer()
}

// Decline rejects the ringing session id.
func (r *Registry) Decline(id string) (*Session, error) {
	s, ok := r.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return s, s.Decline()
}

// End hangs up session id. Ending twice is not an error.
func (r *Registry) End(id string) (*Session, error) {
	s, ok := r.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.End()
	return s, nil
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll closes every session and refuses new ones.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.closed = true
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (r *Registry) add(c contact.Contact, build func(string, contact.Contact, Caller, zerolog.Logger, Options) *Session) (*Session, error) {
	if c.Phone == "" {
		return nil, dialer.ErrNoNumber
	}

	id := uuid.NewString()
	opts := r.opts
	userDismiss := opts.OnDismiss
	opts.OnDismiss = func() {
		r.forget(id)
		if userDismiss != nil {
			userDismiss()
		}
	}
	s := build(id, c, r.caller, r.log, opts)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		s.Close()
		return nil, ErrInvalidState
	}
	r.sessions[id] = s
	return s, nil
}

func (r *Registry) forget(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
}
