package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ mode Mode }

func (f failingStore) Load() (Mode, error) { return f.mode, nil }
func (f failingStore) Save(Mode) error { return errors.New("read-only") }

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Dark ")
	require.NoError(t, err)
	assert.Equal(t, ModeDark, m)

	_, err = ParseMode("sepia")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestEffective(t *testing.T) {
	tests := []struct {
		mode       Mode
		appearance string
		want       Mode
	}{
		{ModeSystem, "dark", ModeDark},
		{ModeSystem, "light", ModeLight},
		{ModeSystem, "", ModeLight},
		{ModeLight, "dark", ModeLight},
		{ModeDark, "light", ModeDark},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+tt.appearance, func(t *testing.T) {
			p := New(failingStore{mode: tt.mode}, StaticAppearance(tt.appearance), zerolog.Nop())
			assert.Equal(t, tt.want, p.Effective())
		})
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "theme.yaml")
	store := FileStore{Path: path}

	m, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, ModeSystem, m, "missing file means system")

	p := New(store, nil, zerolog.Nop())
	require.NoError(t, p.Set(ModeDark))
	assert.Equal(t, ModeDark, p.Mode())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "theme_mode: dark\n", string(data))

	reloaded := New(store, nil, zerolog.Nop())
	assert.Equal(t, ModeDark, reloaded.Mode())
}

func TestFileStoreBadContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme_mode: sepia\n"), 0o644))

	_, err := FileStore{Path: path}.Load()
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.Equal(t, ModeSystem, New(FileStore{Path: path}, nil, zerolog.Nop()).Mode())
}

func TestSetFailureKeepsMode(t *testing.T) {
	p := New(failingStore{mode: ModeLight}, nil, zerolog.Nop())

	assert.Error(t, p.Set(ModeDark))
	assert.Equal(t, ModeLight, p.Mode())

	assert.ErrorIs(t, p.Set("neon"), ErrInvalidMode)
	assert.Equal(t, ModeLight, p.Mode())
}
