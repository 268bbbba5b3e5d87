// sentiric-contacts-service/internal/call/session.go

// Package call simulates a voice call screen: a connect delay, a running
// duration counter, in-call toggles and a dismiss delay after hang-up.
package call

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-contacts-service/internal/contact"
	"github.com/sentiric/sentiric-contacts-service/internal/dialer"
	"github.com/sentiric/sentiric-contacts-service/internal/logger"
)

// State of a call session. Transitions only move forward.
type State string

const (
	StateRinging    State = "ringing"
	StateConnecting State = "connecting"
	StateActive     State = "active"
	StateEnded      State = "ended"
)

// ErrInvalidState: işlem oturumun mevcut durumunda yapılamaz.
var ErrInvalidState = errors.New("call: action not allowed in current state")

// Caller places the real call once a session connects.
type Caller interface {
	Call(ctx context.Context, number string) error
}

// Options tunes session timing and callbacks.
type Options struct {
	ConnectDelay time.Duration
	DismissDelay time.Duration
	Tick         time.Duration
	Clock        Clock

	// OnNotice receives dial failures meant for the user.
	OnNotice func(error)
	// OnDismiss runs once, DismissDelay after the session ended.
	OnDismiss func()
}

// DefaultOptions mirrors the stock call screen timing.
func DefaultOptions() Options {
	return Options{
		ConnectDelay: 1500 * time.Millisecond,
		DismissDelay: 500 * time.Millisecond,
		Tick:         time.Second,
		Clock:        RealClock{},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ConnectDelay <= 0 {
		o.ConnectDelay = d.ConnectDelay
	}
	if o.DismissDelay <= 0 {
		o.DismissDelay = d.DismissDelay
	}
	if o.Tick <= 0 {
		o.Tick = d.Tick
	}
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	return o
}

// Session owns every timer it arms; End, Decline and Close cancel them.
type Session struct {
	id      string
	contact contact.Contact
	caller  Caller
	opts    Options
	log     zerolog.Logger
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	state    State
	started  time.Time
	duration int
	muted    bool
	speaker  bool
	keypad   bool
	digits   string
	dialErr  error
	closed   bool

	connectTimer Timer
	tickTimer    Timer
	dismissTimer Timer
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	ID          string `json:"id"`
	ContactID   string `json:"contactId"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	State       State  `json:"state"`
	Duration    int    `json:"duration"`
	Elapsed     string `json:"elapsed"`
	Muted       bool   `json:"muted"`
	Speaker     bool   `json:"speaker"`
	KeypadOpen  bool   `json:"keypadOpen"`
	Digits      string `json:"digits"`
	DialError   string `json:"dialError,omitempty"`
	BackAllowed bool   `json:"backAllowed"`

	ConnectedAt *time.Time `json:"connectedAt,omitempty"`
}

// NewSession returns a Connecting session for c. Nothing happens until
// Start.
func NewSession(id string, c contact.Contact, caller Caller, log zerolog.Logger, opts Options) *Session {
	return newSession(id, c, caller, log, opts, StateConnecting)
}

// NewIncoming returns a Ringing session waiting for Answer or Decline.
func NewIncoming(id string, c contact.Contact, caller Caller, log zerolog.Logger, opts Options) *Session {
	return newSession(id, c, caller, log, opts, StateRinging)
}

func newSession(id string, c contact.Contact, caller Caller, log zerolog.Logger, opts Options, state State) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:      id,
		contact: c.Clone(),
		caller:  caller,
		opts:    opts.withDefaults(),
		log:     log.With().Str("call_id", id).Str("contact_id", c.ID).Logger(),
		ctx:     ctx,
		cancel:  cancel,
		state:   state,
	}
}

func (s *Session) ID() string { return s.id }

// Start arms the connect timer.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConnecting || s.closed || s.connectTimer != nil {
		return ErrInvalidState
	}
	s.connectTimer = s.opts.Clock.AfterFunc(s.opts.ConnectDelay, s.connect)

	s.log.Info().
		Str("event", logger.EventCallStarted).
		Dict("attributes", zerolog.Dict().
			Dur("connect_delay", s.opts.ConnectDelay)).
		Msg("Arama başlatılıyor")
	return nil
}

// Answer accepts a ringing call: it moves to Connecting and starts.
func (s *Session) Answer() error {
	s.mu.Lock()
	if s.state != StateRinging || s.closed {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.state = StateConnecting
	s.mu.Unlock()
	return s.Start()
}

// Decline rejects a ringing call.
func (s *Session) Decline() error {
	s.mu.Lock()
	if s.state != StateRinging || s.closed {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.endLocked()
	s.mu.Unlock()

	s.log.Info().
		Str("event", logger.EventCallEnded).
		Dict("attributes", zerolog.Dict().
			Str("from", string(StateRinging))).
		Msg("Gelen arama reddedildi")
	return nil
}

func (s *Session) connect() {
	s.mu.Lock()
	if s.state != StateConnecting || s.closed {
		s.mu.Unlock()
		return
	}
	s.state = StateActive
	s.duration = 0
	s.started = s.opts.Clock.Now()
	s.tickTimer = s.opts.Clock.AfterFunc(s.opts.Tick, s.tick)
	ctx, phone := s.ctx, s.contact.Phone
	s.mu.Unlock()

	s.log.Info().
		Str("event", logger.EventCallConnected).
		Msg("Arama bağlandı")

	err := s.dial(ctx, phone)
	if err == nil {
		return
	}

	s.mu.Lock()
	s.dialErr = err
	notice := s.opts.OnNotice
	s.mu.Unlock()

	s.log.Warn().
		Str("event", logger.EventCallDialFailed).
		Err(err).
		Msg("Cihaz araması başlatılamadı")
	if notice != nil {
		notice(err)
	}
}

func (s *Session) dial(ctx context.Context, phone string) error {
	if phone == "" {
		return dialer.ErrNoNumber
	}
	if s.caller == nil {
		return dialer.ErrUnsupported
	}
	return s.caller.Call(ctx, phone)
}

func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || s.closed {
		return
	}
	s.duration++
	s.tickTimer = s.opts.Clock.AfterFunc(s.opts.Tick, s.tick)
}

// End hangs up. It reports false when the session had already ended.
func (s *Session) End() bool {
	s.mu.Lock()
	if s.state == StateEnded || s.closed {
		s.mu.Unlock()
		return false
	}
	from, duration := s.state, s.duration
	s.endLocked()
	s.mu.Unlock()

	s.log.Info().
		Str("event", logger.EventCallEnded).
		Dict("attributes", zerolog.Dict().
			Str("from", string(from)).
			Int("duration_seconds", duration)).
		Msg("Arama sonlandırıldı")
	return true
}

func (s *Session) endLocked() {
	s.state = StateEnded
	s.keypad = false
	s.stopTimersLocked()
	s.dismissTimer = s.opts.Clock.AfterFunc(s.opts.DismissDelay, s.dismiss)
}

func (s *Session) dismiss() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.dismissTimer = nil
	fn := s.opts.OnDismiss
	s.mu.Unlock()

	s.cancel()
	if fn != nil {
		fn()
	}
}

// Close tears the session down in any state. No callback runs afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.state = StateEnded
	s.stopTimersLocked()
	if s.dismissTimer != nil {
		s.dismissTimer.Stop()
		s.dismissTimer = nil
	}
	s.cancel()
}

func (s *Session) stopTimersLocked() {
	if s.connectTimer != nil {
		s.connectTimer.Stop()
		s.connectTimer = nil
	}
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
}

// ToggleMute flips the mute flag and returns the new value.
func (s *Session) ToggleMute() (bool, error) {
	return s.toggle(&s.muted)
}

// ToggleSpeaker flips the speaker flag and returns the new value.
func (s *Session) ToggleSpeaker() (bool, error) {
	return s.toggle(&s.speaker)
}

// ToggleKeypad opens or closes the in-call keypad.
func (s *Session) ToggleKeypad() (bool, error) {
	return s.toggle(&s.keypad)
}

func (s *Session) toggle(flag *bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || s.closed {
		return false, ErrInvalidState
	}
	*flag = !*flag
	return *flag, nil
}

// PressDigit appends d to the dialed digits while the keypad is open. The
// digits never reach the underlying call.
func (s *Session) PressDigit(d string) error {
	if !dialer.ValidDigit(d) {
		return dialer.ErrInvalidDigit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || s.closed || !s.keypad {
		return ErrInvalidState
	}
	s.digits += d
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Duration is the number of ticks counted while active.
func (s *Session) Duration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

// DialError is the last failure reported by the caller, if any.
func (s *Session) DialError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialErr
}

// BackAllowed reports whether a hardware back action may leave the screen.
// It is suppressed until the call has ended.
func (s *Session) BackAllowed() bool {
	return s.State() == StateEnded
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:          s.id,
		ContactID:   s.contact.ID,
		Name:        s.contact.Name,
		Phone:       s.contact.Phone,
		State:       s.state,
		Duration:    s.duration,
		Elapsed:     FormatDuration(s.duration),
		Muted:       s.muted,
		Speaker:     s.speaker,
		KeypadOpen:  s.keypad,
		Digits:      s.digits,
		BackAllowed: s.state == StateEnded,
	}
	if s.dialErr != nil {
		snap.DialError = s.dialErr.Error()
	}
	if !s.started.IsZero() {
		at := s.started
		snap.ConnectedAt = &at
	}
	return snap
}

// FormatDuration renders seconds as MM:SS. Minutes grow past 99 unpadded.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
