package dialer

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMSURL(t *testing.T) {
	numbers := []string{"111", "222"}
	assert.Equal(t, "sms:111,222", SMSURL(IOS, numbers))
	assert.Equal(t, "sms:111", SMSURL(Android, numbers))
	assert.Equal(t, "sms:", SMSURL(IOS, nil))
	assert.Equal(t, "tel:555-1111", CallURL("555-1111"))
}

func TestDialerCall(t *testing.T) {
	ctx := context.Background()
	opener := NewLogOpener(zerolog.Nop())
	d := New(opener, IOS)

	require.NoError(t, d.Call(ctx, " 555 "))
	assert.Equal(t, []string{"tel:555"}, opener.Opened())

	assert.ErrorIs(t, d.Call(ctx, "  "), ErrNoNumber)
}

func TestDialerUnsupportedScheme(t *testing.T) {
	ctx := context.Background()
	opener := NewLogOpener(zerolog.Nop(), "sms")
	d := New(opener, Android)

	assert.ErrorIs(t, d.Call(ctx, "555"), ErrUnsupported)
	require.NoError(t, d.Message(ctx, []string{"", "111", "222"}))
	assert.Equal(t, []string{"sms:111"}, opener.Opened())
}

func TestDialerMessageWithoutNumbers(t *testing.T) {
	d := New(NewLogOpener(zerolog.Nop()), IOS)
	assert.ErrorIs(t, d.Message(context.Background(), []string{" ", ""}), ErrNoNumber)
}

type failingOpener struct{ err error }

func (f failingOpener) CanOpen(context.Context, string) (bool, error) { return true, nil }
func (f failingOpener) Open(context.Context, string) error { return f.err }

func TestDialerOpenFailureIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	err := New(failingOpener{err: boom}, IOS).Call(context.Background(), "1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUnsupported)
}

func TestLogOpenerMalformedURL(t *testing.T) {
	_, err := NewLogOpener(zerolog.Nop()).CanOpen(context.Background(), "nocolon")
	assert.Error(t, err)
}

func TestKeypad(t *testing.T) {
	ctx := context.Background()
	opener := NewLogOpener(zerolog.Nop())
	d := New(opener, IOS)
	var k Keypad

	assert.ErrorIs(t, k.Call(ctx, d), ErrNoNumber)
	for _, key := range []string{"5", "5", "5", "*", "#"} {
		require.NoError(t, k.Press(key))
	}
	assert.ErrorIs(t, k.Press("a"), ErrInvalidDigit)
	assert.ErrorIs(t, k.Press("12"), ErrInvalidDigit)

	k.Backspace()
	k.Backspace()
	assert.Equal(t, "555", k.Number())

	require.NoError(t, k.Call(ctx, d))
	assert.Equal(t, []string{"tel:555"}, opener.Opened())

	k.Clear()
	k.Backspace()
	assert.Empty(t, k.Number())
}
