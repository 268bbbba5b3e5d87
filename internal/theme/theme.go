// sentiric-contacts-service/internal/theme/theme.go

// Package theme persists the light/dark preference and resolves it against
// the platform appearance.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sentiric/sentiric-contacts-service/internal/logger"
)

type Mode string

const (
	ModeSystem Mode = "system"
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
)

// ErrInvalidMode: tema modu system, light veya dark olmalı.
var ErrInvalidMode = errors.New("theme: invalid mode")

// ParseMode validates s as a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeSystem, ModeLight, ModeDark:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Appearance reports the platform color scheme: "light", "dark" or "" when
// the platform has none.
type Appearance interface {
	Appearance() string
}

// StaticAppearance is a fixed platform appearance.
type StaticAppearance string

func (a StaticAppearance) Appearance() string { return string(a) }

// Store persists the chosen mode.
type Store interface {
	Load() (Mode, error)
	Save(Mode) error
}

// FileStore keeps the mode in a small YAML document.
type FileStore struct {
	Path string
}

type fileDoc struct {
	ThemeMode Mode `yaml:"theme_mode"`
}

// Load returns the stored mode, ModeSystem when the file does not exist.
func (f FileStore) Load() (Mode, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return ModeSystem, nil
	}
	if err != nil {
		return ModeSystem, fmt.Errorf("theme: read %s: %w", f.Path, err)
	}
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ModeSystem, fmt.Errorf("theme: parse %s: %w", f.Path, err)
	}
	if doc.ThemeMode == "" {
		return ModeSystem, nil
	}
	return ParseMode(string(doc.ThemeMode))
}

// Save writes the mode through a temporary file and a rename.
func (f FileStore) Save(m Mode) error {
	data, err := yaml.Marshal(fileDoc{ThemeMode: m})
	if err != nil {
		return fmt.Errorf("theme: encode: %w", err)
	}
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".theme-*.yaml")
	if err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("theme: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("theme: write: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	return nil
}

// Preferences is the process-wide theme state.
type Preferences struct {
	store      Store
	appearance Appearance
	log        zerolog.Logger

	mu   sync.Mutex
	mode Mode
}

// New loads the stored mode. An unreadable preference falls back to
// ModeSystem and is logged, not returned.
func New(store Store, appearance Appearance, log zerolog.Logger) *Preferences {
	if appearance == nil {
		appearance = StaticAppearance("")
	}
	p := &Preferences{store: store, appearance: appearance, log: log, mode: ModeSystem}
	mode, err := store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Tema tercihi okunamadı, sistem teması kullanılıyor")
		return p
	}
	p.mode = mode
	return p
}

func (p *Preferences) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Effective resolves the mode to "light" or "dark".
func (p *Preferences) Effective() Mode {
	mode := p.Mode()
	if mode != ModeSystem {
		return mode
	}
	if Mode(p.appearance.Appearance()) == ModeDark {
		return ModeDark
	}
	return ModeLight
}

// Set persists mode first; a failed write leaves the current mode in place.
func (p *Preferences) Set(mode Mode) error {
	mode, err := ParseMode(string(mode))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Save(mode); err != nil {
		p.log.Error().Err(err).Msg("Tema tercihi kaydedilemedi")
		return err
	}
	prev := p.mode
	p.mode = mode

	p.log.Info().
		Str("event", logger.EventThemeChanged).
		Dict("attributes", zerolog.Dict().
			Str("from", string(prev)).
			Str("to", string(mode))).
		Msg("Tema tercihi değişti")
	return nil
}
