// Package memory is an in-process device contact store. It simulates the
// platform database: access permission, external edits by other apps and
// failing writes.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sentiric/sentiric-contacts-service/internal/contact"
	"github.com/sentiric/sentiric-contacts-service/internal/repository"
)

// Store implements [repository.ContactStore].
type Store struct {
	mu      sync.Mutex
	index   map[string]int
	records []contact.Record

	denied    bool
	readErr   error
	writeErr  error
	loadCalls int
}

var _ repository.ContactStore = (*Store)(nil)

// New returns a store holding rs. Records without an id get one.
func New(rs ...contact.Record) *Store {
	s := &Store{index: make(map[string]int, len(rs))}
	for _, r := range rs {
		s.Put(r)
	}
	return s
}

// SetPermission grants or refuses access for subsequent LoadAll calls.
func (s *Store) SetPermission(granted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denied = !granted
}

// FailReads makes LoadAll return err until called again with nil.
func (s *Store) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// FailWrites makes Create, Update and Delete return err until called again
// with nil.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// LoadCalls reports how many times LoadAll ran.
func (s *Store) LoadCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCalls
}

// Put inserts or replaces a record the way another app would, bypassing the
// failure hooks. It returns the record id.
func (s *Store) Put(r contact.Record) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if i, ok := s.index[r.ID]; ok {
		s.records[i] = r.Clone()
		return r.ID
	}
	s.index[r.ID] = len(s.records)
	s.records = append(s.records, r.Clone())
	return r.ID
}

// Remove deletes a record the way another app would.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(id)
}

func (s *Store) LoadAll(_ context.Context) ([]contact.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCalls++
	if s.denied {
		return nil, repository.ErrPermissionDenied
	}
	if s.readErr != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrUnavailable, s.readErr)
	}

	out := make([]contact.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	slices.SortStableFunc(out, func(a, b contact.Record) int {
		return cmp.Compare(strings.ToLower(a.FirstName), strings.ToLower(b.FirstName))
	})
	return out, nil
}

func (s *Store) Create(_ context.Context, r contact.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return "", fmt.Errorf("%w: %w", repository.ErrWrite, s.writeErr)
	}
retry:
	r.ID = uuid.NewString()
	if _, loaded := s.index[r.ID]; loaded {
		goto retry
	}
	s.index[r.ID] = len(s.records)
	s.records = append(s.records, r.Clone())
	return r.ID, nil
}

func (s *Store) Update(_ context.Context, prior contact.Record, f contact.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return fmt.Errorf("%w: %w", repository.ErrWrite, s.writeErr)
	}
	i, ok := s.index[prior.ID]
	if !ok {
		return repository.ErrNotFound
	}
	s.records[i] = f.ApplyTo(prior)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return fmt.Errorf("%w: %w", repository.ErrWrite, s.writeErr)
	}
	if !s.remove(id) {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.records = slices.Delete(s.records, i, i+1)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].ID] = j
	}
	return true
}
