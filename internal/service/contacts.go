// sentiric-contacts-service/internal/service/contacts.go
package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sentiric/sentiric-contacts-service/internal/contact"
	"github.com/sentiric/sentiric-contacts-service/internal/logger"
	"github.com/sentiric/sentiric-contacts-service/internal/repository"
	"github.com/sentiric/sentiric-contacts-service/internal/search"
)

// ContactService holds the normalized contact collection loaded from the
// device store and the favorites derived from it.
//
// The store is the single source of truth: every successful write is
// followed by a full Reload instead of patching local state, except Delete,
// which removes the contact locally at once. Favorites are contact ids
// resolved against the live collection, so edits show up without
// re-favoriting.
type ContactService struct {
	store   repository.ContactStore
	log     zerolog.Logger
	locale  language.Tag
	pruners []MembershipPruner

	mu        sync.Mutex
	contacts  []contact.Contact
	index     map[string]int
	favorites []string
	inflight  map[string]struct{}

	loaded     bool
	reloading  int
	reloadSeq  uint64
	appliedSeq uint64
	// tombstones maps a locally deleted id to the reload sequence current at
	// deletion. Reloads started at or before it may still return the id.
	tombstones map[string]uint64
}

// Option configures a ContactService.
type Option func(*ContactService)

// WithLocale sets the collation used to sort contacts by name.
func WithLocale(tag language.Tag) Option {
	return func(s *ContactService) { s.locale = tag }
}

// WithPruner registers a collection that must forget deleted contacts.
func WithPruner(p MembershipPruner) Option {
	return func(s *ContactService) { s.pruners = append(s.pruners, p) }
}

func NewContactService(store repository.ContactStore, log zerolog.Logger, opts ...Option) *ContactService {
	s := &ContactService{
		store:      store,
		log:        log,
		locale:     language.English,
		index:      make(map[string]int),
		inflight:   make(map[string]struct{}),
		tombstones: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Reads ---

// Contacts returns the visible collection, sorted by name.
func (s *ContactService) Contacts() []contact.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.contacts)
}

// Contact returns the contact with the given id.
func (s *ContactService) Contact(id string) (contact.Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(id)
}

// Favorites returns the favorited contacts in favoriting order.
func (s *ContactService) Favorites() []contact.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]contact.Contact, 0, len(s.favorites))
	for _, id := range s.favorites {
		if c, ok := s.lookup(id); ok {
			out = append(out, c)
		}
	}
	return out
}

// IsFavorite reports whether id is favorited.
func (s *ContactService) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.favorites, id)
}

// Sections returns the list sections for query over the current collection.
func (s *ContactService) Sections(query string) []search.Section {
	return search.ComputeSections(s.Contacts(), query)
}

// Loading reports whether a reload is in flight.
func (s *ContactService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloading > 0
}

// Loaded reports whether at least one reload succeeded.
func (s *ContactService) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// --- Writes ---

// Reload replaces the collection with the store's current content: nameless
// records are dropped and the rest sorted by name. On failure the previous
// collection stays in place.
func (s *ContactService) Reload(ctx context.Context) error {
	l := logger.ContextLogger(ctx, s.log)

	s.mu.Lock()
	s.reloadSeq++
	seq := s.reloadSeq
	s.reloading++
	s.mu.Unlock()

	records, err := s.store.LoadAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloading--

	if err != nil {
		err = translateStoreError(err, false)
		event := logger.EventContactsLoadFailed
		if errors.Is(err, ErrPermissionDenied) {
			event = logger.EventPermissionDenied
		}
		l.Warn().
			Str("event", event).
			Err(err).
			Msg("Kişiler cihaz deposundan yüklenemedi")
		return err
	}
	if seq < s.appliedSeq {
		// Daha yeni bir yükleme zaten uygulandı.
		return nil
	}

	contacts := make([]contact.Contact, 0, len(records))
	for _, r := range records {
		c := contact.FromRecord(r)
		if c.Name == "" {
			continue
		}
		if stamp, ok := s.tombstones[c.ID]; ok && seq <= stamp {
			continue
		}
		contacts = append(contacts, c)
	}
	collator := collate.New(s.locale)
	sort.SliceStable(contacts, func(i, j int) bool {
		return collator.CompareString(contacts[i].Name, contacts[j].Name) < 0
	})

	s.contacts = contacts
	s.index = make(map[string]int, len(contacts))
	for i, c := range contacts {
		s.index[c.ID] = i
	}
	s.favorites = slices.DeleteFunc(s.favorites, func(id string) bool {
		_, ok := s.index[id]
		return !ok
	})
	for id, stamp := range s.tombstones {
		if seq > stamp {
			delete(s.tombstones, id)
		}
	}
	s.appliedSeq = seq
	s.loaded = true

	l.Info().
		Str("event", logger.EventContactsReloaded).
		Dict("attributes", zerolog.Dict().
			Int("records", len(records)).
			Int("visible", len(contacts)).
			Int("favorites", len(s.favorites))).
		Msg("Kişiler yeniden yüklendi")
	return nil
}

// Add creates a contact in the store and reloads. The new id is returned even
// when only the reload failed.
func (s *ContactService) Add(ctx context.Context, f contact.Fields) (string, error) {
	l := logger.ContextLogger(ctx, s.log)

	if err := validateFields(f); err != nil {
		l.Info().
			Str("event", logger.EventValidationFailed).
			Err(err).
			Msg("Kişi eklenemedi: eksik alan")
		return "", err
	}

	id, err := s.store.Create(ctx, f.NewRecord())
	if err != nil {
		err = translateStoreError(err, true)
		l.Error().
			Str("event", logger.EventContactWriteFailed).
			Dict("attributes", zerolog.Dict().
				Str("operation", "create")).
			Err(err).
			Msg("Kişi cihaz deposuna eklenemedi")
		return "", err
	}

	l.Info().
		Str("event", logger.EventContactCreated).
		Dict("attributes", zerolog.Dict().
			Str("contact_id", id)).
		Msg("Yeni kişi oluşturuldu")

	return id, s.Reload(ctx)
}

// Update rewrites an existing contact. The prior store record is taken from
// the currently held contact; an id unknown locally is ErrNotFound. When the
// store no longer has the record the error also carries ErrStaleContact and
// the collection is reloaded so the contact disappears.
func (s *ContactService) Update(ctx context.Context, f contact.Fields) error {
	l := logger.ContextLogger(ctx, s.log)

	current, release, err := s.acquire(f.ID)
	if err != nil {
		return err
	}
	defer release()

	if err := validateFields(f); err != nil {
		l.Info().
			Str("event", logger.EventValidationFailed).
			Str("contact_id", f.ID).
			Err(err).
			Msg("Kişi güncellenemedi: eksik alan")
		return err
	}

	if err := s.store.Update(ctx, current.Raw, f); err != nil {
		gone := errors.Is(err, repository.ErrNotFound)
		err = translateStoreError(err, true)
		if gone {
			l.Warn().
				Str("event", logger.EventContactWriteFailed).
				Dict("attributes", zerolog.Dict().
					Str("operation", "update").
					Str("contact_id", f.ID)).
				Msg("Kişi depoda artık yok, liste yenileniyor")
			if rerr := s.Reload(ctx); rerr != nil {
				l.Warn().Err(rerr).Msg("Eskimiş kişi sonrası yeniden yükleme başarısız")
			}
			return err
		}
		l.Error().
			Str("event", logger.EventContactWriteFailed).
			Dict("attributes", zerolog.Dict().
				Str("operation", "update").
				Str("contact_id", f.ID)).
			Err(err).
			Msg("Kişi cihaz deposunda güncellenemedi")
		return err
	}

	l.Info().
		Str("event", logger.EventContactUpdated).
		Dict("attributes", zerolog.Dict().
			Str("contact_id", f.ID)).
		Msg("Kişi güncellendi")

	return s.Reload(ctx)
}

// Delete removes a contact from the store, then from the local collection,
// favorites and every registered pruner without waiting for a reload. A
// store that no longer has the record reports ErrNotFound; the contact is
// dropped locally in that case too.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	l := logger.ContextLogger(ctx, s.log)

	_, release, err := s.acquire(id)
	if err != nil {
		return err
	}
	defer release()

	err = s.store.Delete(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		err = translateStoreError(err, true)
		l.Error().
			Str("event", logger.EventContactWriteFailed).
			Dict("attributes", zerolog.Dict().
				Str("operation", "delete").
				Str("contact_id", id)).
			Err(err).
			Msg("Kişi cihaz deposundan silinemedi")
		return err
	}

	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()
	for _, p := range s.pruners {
		p.RemoveMember(id)
	}

	if err != nil {
		l.Warn().
			Str("event", logger.EventContactDeleted).
			Str("contact_id", id).
			Msg("Kişi depoda zaten yoktu, yerel listeden kaldırıldı")
		return translateStoreError(err, true)
	}

	l.Info().
		Str("event", logger.EventContactDeleted).
		Dict("attributes", zerolog.Dict().
			Str("contact_id", id)).
		Msg("Kişi silindi")
	return nil
}

// ToggleFavorite flips the favorite state of id and returns the new state.
func (s *ContactService) ToggleFavorite(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return false, ErrNotFound
	}
	favorite := true
	if i := slices.Index(s.favorites, id); i >= 0 {
		s.favorites = slices.Delete(s.favorites, i, i+1)
		favorite = false
	} else {
		s.favorites = append(s.favorites, id)
	}

	s.log.Debug().
		Str("event", logger.EventFavoriteToggled).
		Dict("attributes", zerolog.Dict().
			Str("contact_id", id).
			Bool("favorite", favorite)).
		Msg("Favori durumu değişti")
	return favorite, nil
}

// --- Helpers ---

func (s *ContactService) lookup(id string) (contact.Contact, bool) {
	i, ok := s.index[id]
	if !ok {
		return contact.Contact{}, false
	}
	return s.contacts[i].Clone(), true
}

// acquire marks id as having a write in flight. A second writer for the same
// id gets ErrBusy until release is called.
func (s *ContactService) acquire(id string) (contact.Contact, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.lookup(id)
	if !ok {
		return contact.Contact{}, nil, ErrNotFound
	}
	if _, busy := s.inflight[id]; busy {
		return contact.Contact{}, nil, ErrBusy
	}
	s.inflight[id] = struct{}{}
	return c, func() {
		s.mu.Lock()
		delete(s.inflight, id)
		s.mu.Unlock()
	}, nil
}

func (s *ContactService) removeLocked(id string) {
	if i, ok := s.index[id]; ok {
		s.contacts = slices.Delete(slices.Clone(s.contacts), i, i+1)
		s.index = make(map[string]int, len(s.contacts))
		for j, c := range s.contacts {
			s.index[c.ID] = j
		}
	}
	s.favorites = slices.DeleteFunc(s.favorites, func(f string) bool { return f == id })
	s.tombstones[id] = s.reloadSeq
}

func validateFields(f contact.Fields) error {
	var missing []string
	if !f.HasName() {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return validationError(strings.Join(missing, ", ") + " required")
	}
	return nil
}
