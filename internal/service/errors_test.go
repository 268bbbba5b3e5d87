package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentiric/sentiric-contacts-service/internal/dialer"
	"github.com/sentiric/sentiric-contacts-service/internal/repository"
)

func TestTranslateStoreError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		write bool
		want  error
	}{
		{"permission", repository.ErrPermissionDenied, false, ErrPermissionDenied},
		{"missing record", repository.ErrNotFound, true, ErrStaleContact},
		{"unavailable", fmt.Errorf("%w: io", repository.ErrUnavailable), false, ErrStoreUnavailable},
		{"write", fmt.Errorf("%w: locked", repository.ErrWrite), true, ErrStoreWrite},
		{"unknown write", errors.New("boom"), true, ErrStoreWrite},
		{"unknown read", errors.New("boom"), false, ErrStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateStoreError(tt.err, tt.write), tt.want)
		})
	}
	assert.NoError(t, translateStoreError(nil, true))
}

func TestTranslateDialError(t *testing.T) {
	err := TranslateDialError(fmt.Errorf("%w: sms:1", dialer.ErrUnsupported))
	assert.ErrorIs(t, err, ErrUnsupportedAction)
	assert.ErrorIs(t, err, dialer.ErrUnsupported)

	assert.ErrorIs(t, TranslateDialError(dialer.ErrNoNumber), ErrValidation)
	assert.ErrorIs(t, TranslateDialError(dialer.ErrInvalidDigit), ErrValidation)

	other := errors.New("opener crashed")
	assert.Same(t, other, TranslateDialError(other))
	assert.NoError(t, TranslateDialError(nil))
}
