// sentiric-contacts-service/internal/watch/watch.go

// Package watch reloads the contact collection when another process writes
// the SQLite contact database.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-contacts-service/internal/logger"
)

// Reloader resynchronizes with the store.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher coalesces filesystem events on a database file into reloads.
type Watcher struct {
	fs       *fsnotify.Watcher
	base     string
	debounce time.Duration
	target   Reloader
	log      zerolog.Logger
}

// New watches the directory holding path. Events on path and its SQLite
// side files (-wal, -journal) count as changes.
func New(path string, debounce time.Duration, target Reloader, log zerolog.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch: %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		fs:       fs,
		base:     filepath.Base(path),
		debounce: debounce,
		target:   target,
		log:      log,
	}, nil
}

// Run blocks until ctx is done, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending int
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	w.log.Info().Str("file", w.base).Dur("debounce", w.debounce).Msg("Kişi deposu izleniyor")
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			pending++
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("Dosya izleyici hatası")

		case <-fire:
			fire = nil
			w.log.Info().
				Str("event", logger.EventStoreChanged).
				Dict("attributes", zerolog.Dict().
					Int("coalesced_events", pending)).
				Msg("Kişi deposu değişti, yeniden yükleniyor")
			pending = 0
			if err := w.target.Reload(ctx); err != nil {
				w.log.Warn().Err(err).Msg("Değişiklik sonrası yeniden yükleme başarısız")
			}
		}
	}
}

func (w *Watcher) relevant(e fsnotify.Event) bool {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) && !e.Has(fsnotify.Remove) && !e.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(e.Name)
	return name == w.base || strings.HasPrefix(name, w.base+"-")
}
