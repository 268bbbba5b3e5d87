// sentiric-contacts-service/internal/dialer/dialer.go

// Package dialer hands phone numbers to the platform's call and messaging
// handlers through tel: and sms: URLs.
package dialer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-contacts-service/internal/logger"
)

var (
	// ErrUnsupported: cihaz bu URL şemasını açamıyor.
	ErrUnsupported = errors.New("dialer: action not supported on this device")
	// ErrNoNumber: aranacak veya mesaj atılacak numara yok.
	ErrNoNumber = errors.New("dialer: no phone number")
)

// Platform selects how multi-recipient SMS URLs are built.
type Platform string

const (
	IOS     Platform = "ios"
	Android Platform = "android"
)

// CallURL returns the tel: URL for number.
func CallURL(number string) string {
	return "tel:" + number
}

// SMSURL returns the sms: URL for numbers. iOS accepts a comma separated
// recipient list; Android only honors the first recipient.
func SMSURL(platform Platform, numbers []string) string {
	if len(numbers) == 0 {
		return "sms:"
	}
	if platform == IOS {
		return "sms:" + strings.Join(numbers, ",")
	}
	return "sms:" + numbers[0]
}

// Opener is the platform's URL handler.
type Opener interface {
	CanOpen(ctx context.Context, url string) (bool, error)
	Open(ctx context.Context, url string) error
}

// LogOpener is an in-process Opener: it accepts a fixed set of schemes and
// records each opened URL in the log.
type LogOpener struct {
	log     zerolog.Logger
	schemes []string

	mu     sync.Mutex
	opened []string
}

// NewLogOpener returns an opener for the given schemes, "tel" and "sms" when
// none are given.
func NewLogOpener(log zerolog.Logger, schemes ...string) *LogOpener {
	if len(schemes) == 0 {
		schemes = []string{"tel", "sms"}
	}
	normalized := make([]string, 0, len(schemes))
	for _, s := range schemes {
		normalized = append(normalized, strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), ":")))
	}
	return &LogOpener{log: log, schemes: normalized}
}

func (o *LogOpener) CanOpen(_ context.Context, url string) (bool, error) {
	scheme, _, ok := strings.Cut(url, ":")
	if !ok {
		return false, fmt.Errorf("dialer: malformed url %q", url)
	}
	return slices.Contains(o.schemes, strings.ToLower(scheme)), nil
}

func (o *LogOpener) Open(ctx context.Context, url string) error {
	ok, err := o.CanOpen(ctx, url)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnsupported
	}

	o.mu.Lock()
	o.opened = append(o.opened, url)
	o.mu.Unlock()

	l := logger.ContextLogger(ctx, o.log)
	l.Info().
		Str("event", logger.EventDialerOpened).
		Str("url", url).
		Msg("Cihaz işleyicisi açıldı")
	return nil
}

// Opened returns every URL opened so far, oldest first.
func (o *LogOpener) Opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.opened)
}

// Dialer places calls and opens the messaging composer.
type Dialer struct {
	opener   Opener
	platform Platform
}

func New(opener Opener, platform Platform) *Dialer {
	return &Dialer{opener: opener, platform: platform}
}

func (d *Dialer) Platform() Platform { return d.platform }

// Call asks the platform to dial number.
func (d *Dialer) Call(ctx context.Context, number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return ErrNoNumber
	}
	return d.open(ctx, CallURL(number))
}

// Message opens the composer for numbers. Blank entries are skipped.
func (d *Dialer) Message(ctx context.Context, numbers []string) error {
	var recipients []string
	for _, n := range numbers {
		if n = strings.TrimSpace(n); n != "" {
			recipients = append(recipients, n)
		}
	}
	if len(recipients) == 0 {
		return ErrNoNumber
	}
	return d.open(ctx, SMSURL(d.platform, recipients))
}

func (d *Dialer) open(ctx context.Context, url string) error {
	ok, err := d.opener.CanOpen(ctx, url)
	if err != nil {
		return fmt.Errorf("dialer: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupported, url)
	}
	if err := d.opener.Open(ctx, url); err != nil {
		return fmt.Errorf("dialer: open %s: %w", url, err)
	}
	return nil
}
