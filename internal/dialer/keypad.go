package dialer

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrInvalidDigit is returned for keys outside 0-9, * and #.
var ErrInvalidDigit = errors.New("dialer: invalid keypad digit")

// ValidDigit reports whether d is a single keypad key.
func ValidDigit(d string) bool {
	return len(d) == 1 && strings.ContainsAny(d, "0123456789*#")
}

// Keypad buffers a number typed key by key.
type Keypad struct {
	mu     sync.Mutex
	digits []byte
}

// Press appends one key.
func (k *Keypad) Press(d string) error {
	if !ValidDigit(d) {
		return ErrInvalidDigit
	}
	k.mu.Lock()
	k.digits = append(k.digits, d[0])
	k.mu.Unlock()
	return nil
}

// Backspace removes the last key, if any.
func (k *Keypad) Backspace() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if n := len(k.digits); n > 0 {
		k.digits = k.digits[:n-1]
	}
}

// Clear empties the buffer.
func (k *Keypad) Clear() {
	k.mu.Lock()
	k.digits = k.digits[:0]
	k.mu.Unlock()
}

// Number returns the buffered keys.
func (k *Keypad) Number() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return string(k.digits)
}

// Call dials the buffered number through d.
func (k *Keypad) Call(ctx context.Context, d *Dialer) error {
	number := k.Number()
	if number == "" {
		return ErrNoNumber
	}
	return d.Call(ctx, number)
}
