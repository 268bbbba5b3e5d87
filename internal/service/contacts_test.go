package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentiric/sentiric-contacts-service/internal/contact"
	"github.com/sentiric/sentiric-contacts-service/internal/repository/memory"
)

func record(id, first, last, phone string) contact.Record {
	r := contact.Record{ID: id, FirstName: first, LastName: last}
	if phone != "" {
		r.PhoneNumbers = []contact.PhoneNumber{{Label: contact.LabelMobile, Number: phone}}
	}
	return r
}

func newTestService(t *testing.T, store *memory.Store, opts ...Option) *ContactService {
	t.Helper()
	s := NewContactService(store, zerolog.Nop(), opts...)
	require.NoError(t, s.Reload(context.Background()))
	return s
}

func contactIDs(cs []contact.Contact) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestAddThenToggleFavorite(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, memory.New())

	id, err := s.Add(ctx, contact.Fields{FirstName: "Ann", Phone: "555-1111"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	c, ok := s.Contact(id)
	require.True(t, ok)
	assert.Equal(t, "Ann", c.Name)
	assert.Equal(t, "555-1111", c.Phone)

	on, err := s.ToggleFavorite(id)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{id}, contactIDs(s.Favorites()))
	assert.True(t, s.IsFavorite(id))

	on, err = s.ToggleFavorite(id)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, s.Favorites())
}

func TestToggleFavoriteUnknownID(t *testing.T) {
	s := newTestService(t, memory.New())
	_, err := s.ToggleFavorite("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := newTestService(t, store)
	calls := store.LoadCalls()

	tests := []struct {
		name   string
		fields contact.Fields
	}{
		{"no name", contact.Fields{Phone: "1"}},
		{"blank name", contact.Fields{Name: "   ", Phone: "1"}},
		{"no phone", contact.Fields{FirstName: "Ann"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(ctx, tt.fields)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, s.Contacts())
	assert.Equal(t, calls, store.LoadCalls(), "validation failures must not touch the store")
}

func TestAddThenReloadIsSupersetPlusOne(t *testing.T) {
	ctx := context.Background()
	store := memory.New(record("a", "Zoe", "", "1"), record("b", "Bo", "", "2"))
	s := newTestService(t, store)
	before := contactIDs(s.Contacts())

	id, err := s.Add(ctx, contact.Fields{Name: "Ann Lee", Phone: "555"})
	require.NoError(t, err)
	require.NoError(t, s.Reload(ctx))

	after := s.Contacts()
	require.Len(t, after, len(before)+1)
	assert.Subset(t, contactIDs(after), before)
	c, ok := s.Contact(id)
	require.True(t, ok)
	assert.Equal(t, "Ann Lee", c.Name)
	assert.Equal(t, "Ann", c.FirstName)
	assert.Equal(t, "Lee", c.LastName)
	assert.Equal(t, "555", c.Phone)
}

func TestAddStoreFailure(t *testing.T) {
	store := memory.New()
	s := newTestService(t, store)
	store.FailWrites(errors.New("disk full"))

	_, err := s.Add(context.Background(), contact.Fields{FirstName: "Ann", Phone: "1"})
	assert.ErrorIs(t, err, ErrStoreWrite)
	assert.Empty(t, s.Contacts())
}

func TestAddReturnsIDWhenReloadFails(t *testing.T) {
	store := memory.New()
	s := newTestService(t, store)
	store.FailReads(errors.New("busy"))

	id, err := s.Add(context.Background(), contact.Fields{FirstName: "Ann", Phone: "1"})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotEmpty(t, id)
}

func TestReloadNormalizesAndSorts(t *testing.T) {
	store := memory.New(
		record("1", "bob", "", "1"),
		record("2", "Émile", "", "2"),
		record("3", "Alice", "", "3"),
		record("4", "", "", "4"),
		contact.Record{ID: "5", Name: "Zed Display", FirstName: "Ignored"},
	)
	s := newTestService(t, store)

	got := s.Contacts()
	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Alice", "bob", "Émile", "Zed Display"}, names)
	assert.True(t, s.Loaded())
	assert.False(t, s.Loading())
}

func TestReloadPermissionDeniedKeepsCollection(t *testing.T) {
	store := memory.New(record("1", "Ann", "", "1"))
	s := newTestService(t, store)
	store.SetPermission(false)
	store.Put(record("2", "Bo", "", "2"))

	err := s.Reload(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, []string{"1"}, contactIDs(s.Contacts()))
	assert.False(t, s.Loading())
}

func TestReloadUnavailable(t *testing.T) {
	store := memory.New()
	store.FailReads(errors.New("io"))
	s := NewContactService(store, zerolog.Nop())

	err := s.Reload(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.False(t, s.Loaded())
}

func TestUpdateIsVisibleInFavorites(t *testing.T) {
	ctx := context.Background()
	store := memory.New(record("1", "Ann", "", "555"))
	s := newTestService(t, store)
	_, err := s.ToggleFavorite("1")
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, contact.Fields{ID: "1", FirstName: "Annie", Phone: "777", Email: "a@x.io"}))

	favs := s.Favorites()
	require.Len(t, favs, 1)
	assert.Equal(t, "Annie", favs[0].Name)
	assert.Equal(t, "777", favs[0].Phone)
	assert.Equal(t, "a@x.io", favs[0].Email)
}

func TestUpdateErrors(t *testing.T) {
	ctx := context.Background()
	store := memory.New(record("1", "Ann", "", "555"))
	s := newTestService(t, store)

	err := s.Update(ctx, contact.Fields{ID: "missing", FirstName: "X", Phone: "1"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Update(ctx, contact.Fields{ID: "1", FirstName: "Ann"})
	assert.ErrorIs(t, err, ErrValidation)

	store.FailWrites(errors.New("locked"))
	err = s.Update(ctx, contact.Fields{ID: "1", FirstName: "Changed", Phone: "1"})
	assert.ErrorIs(t, err, ErrStoreWrite)
	c, _ := s.Contact("1")
	assert.Equal(t, "Ann", c.Name, "local state must not change on a failed write")
}

func TestUpdateOfContactRemovedFromStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New(record("1", "Ann", "", "555"), record("2", "Bo", "", "2"))
	s := newTestService(t, store)

	store.Remove("1")
	err := s.Update(ctx, contact.Fields{ID: "1", FirstName: "Annie", Phone: "1"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrStaleContact)
	assert.Equal(t, []string{"2"}, contactIDs(s.Contacts()), "stale contact must be dropped")

	err = s.Update(ctx, contact.Fields{ID: "missing", FirstName: "X", Phone: "1"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrStaleContact)
}

func TestDeleteRemovesEverywhere(t *testing.T) {
	ctx := context.Background()
	store := memory.New(record("1", "Ann", "", "1"), record("2", "Bo", "", "2"))
	groups := NewGroupManager(zerolog.Nop())
	s := newTestService(t, store, WithPruner(groups))

	g, err := groups.Create("Work", []string{"1", "2"})
	require.NoError(t, err)
	_, err = s.ToggleFavorite("1")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "1"))

	assert.Equal(t, []string{"2"}, contactIDs(s.Contacts()))
	assert.Empty(t, s.Favorites())
	got, err := groups.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, got.Members)

	assert.ErrorIs(t, s.Delete(ctx, "1"), ErrNotFound)
	require.NoError(t, s.Reload(ctx))
	assert.Equal(t, []string{"2"}, contactIDs(s.Contacts()))
}

func TestDeleteAlreadyGoneFromStore(t *testing.T) {
	store := memory.New(record("1", "Ann", "", "1"))
	s := newTestService(t, store)
	store.Remove("1")

	err := s.Delete(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrStaleContact)
	assert.Empty(t, s.Contacts())
}

func TestDeleteStoreFailureKeepsContact(t *testing.T) {
	store := memory.New(record("1", "Ann", "", "1"))
	s := newTestService(t, store)
	store.FailWrites(errors.New("locked"))

	assert.ErrorIs(t, s.Delete(context.Background(), "1"), ErrStoreWrite)
	assert.Equal(t, []string{"1"}, contactIDs(s.Contacts()))
}

func TestExternalChangesAfterReload(t *testing.T) {
	ctx := context.Background()
	store := memory.New(record("1", "Ann", "", "1"), record("2", "Bo", "", "2"))
	s := newTestService(t, store)
	_, err := s.ToggleFavorite("2")
	require.NoError(t, err)

	store.Put(record("1", "Anna", "", "9"))
	store.Remove("2")
	require.NoError(t, s.Reload(ctx))

	c, ok := s.Contact("1")
	require.True(t, ok)
	assert.Equal(t, "Anna", c.Name)
	assert.Equal(t, "9", c.Phone)
	assert.Empty(t, s.Favorites())
	assert.False(t, s.IsFavorite("2"))
}

func TestSectionsUseCurrentCollection(t *testing.T) {
	store := memory.New(record("1", "Ann", "", "555-1111"), record("2", "Bo", "", "222-2222"))
	s := newTestService(t, store)

	sections := s.Sections("555")
	require.Len(t, sections, 1)
	assert.Equal(t, "A", sections[0].Title)
	assert.Equal(t, []string{"1"}, contactIDs(sections[0].Data))
}

// gatedStore blocks the next LoadAll or Update after it has run against the
// wrapped store, once armed, until release is closed.
type gatedStore struct {
	*memory.Store
	entered chan struct{}
	release chan struct{}
	armed   atomic.Bool
	loads   bool
}

func newGatedStore(inner *memory.Store, loads bool) *gatedStore {
	return &gatedStore{Store: inner, entered: make(chan struct{}), release: make(chan struct{}), loads: loads}
}

func (g *gatedStore) hold() {
	if g.armed.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.release
	}
}

func (g *gatedStore) LoadAll(ctx context.Context) ([]contact.Record, error) {
	rs, err := g.Store.LoadAll(ctx)
	if g.loads {
		g.hold()
	}
	return rs, err
}

func (g *gatedStore) Update(ctx context.Context, prior contact.Record, f contact.Fields) error {
	err := g.Store.Update(ctx, prior, f)
	if !g.loads {
		g.hold()
	}
	return err
}

func TestConcurrentWriteOnSameContactIsBusy(t *testing.T) {
	ctx := context.Background()
	store := newGatedStore(memory.New(record("1", "Ann", "", "1")), false)
	s := NewContactService(store, zerolog.Nop())
	require.NoError(t, s.Reload(ctx))
	store.armed.Store(true)

	done := make(chan error, 1)
	go func() {
		done <- s.Update(ctx, contact.Fields{ID: "1", FirstName: "Anna", Phone: "1"})
	}()
	<-store.entered

	assert.ErrorIs(t, s.Update(ctx, contact.Fields{ID: "1", FirstName: "X", Phone: "1"}), ErrBusy)
	assert.ErrorIs(t, s.Delete(ctx, "1"), ErrBusy)

	close(store.release)
	require.NoError(t, <-done)
	c, _ := s.Contact("1")
	assert.Equal(t, "Anna", c.Name)
	require.NoError(t, s.Delete(ctx, "1"))
}

func TestReloadStartedBeforeDeleteDoesNotResurrect(t *testing.T) {
	ctx := context.Background()
	store := newGatedStore(memory.New(record("1", "Ann", "", "1"), record("2", "Bo", "", "2")), true)
	s := NewContactService(store, zerolog.Nop())
	require.NoError(t, s.Reload(ctx))
	store.armed.Store(true)

	done := make(chan error, 1)
	go func() { done <- s.Reload(ctx) }()
	<-store.entered
	assert.True(t, s.Loading())

	require.NoError(t, s.Delete(ctx, "1"))
	close(store.release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"2"}, contactIDs(s.Contacts()))
	assert.False(t, s.Loading())

	require.NoError(t, s.Reload(ctx))
	assert.Equal(t, []string{"2"}, contactIDs(s.Contacts()))
}

func TestOlderReloadIsNotAppliedOverNewer(t *testing.T) {
	ctx := context.Background()
	inner := memory.New(record("1", "Ann", "", "1"))
	store := newGatedStore(inner, true)
	s := NewContactService(store, zerolog.Nop())
	store.armed.Store(true)

	done := make(chan error, 1)
	go func() { done <- s.Reload(ctx) }()
	<-store.entered

	inner.Put(record("2", "Bo", "", "2"))
	require.NoError(t, s.Reload(ctx))
	close(store.release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"1", "2"}, contactIDs(s.Contacts()))
}
