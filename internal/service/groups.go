// sentiric-contacts-service/internal/service/groups.go
package service

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-contacts-service/internal/contact"
	"github.com/sentiric/sentiric-contacts-service/internal/logger"
)

// Group is a named set of contact ids. Members are references, never
// copies, so resolving a group always yields current contact data.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// GroupManager keeps groups in memory only.
type GroupManager struct {
	log   zerolog.Logger
	newID func() string
	seed  bool

	mu     sync.Mutex
	groups []Group
}

// GroupOption configures a GroupManager.
type GroupOption func(*GroupManager)

// WithSeedGroups starts the manager with the empty Family, Work and Friends
// example groups.
func WithSeedGroups() GroupOption {
	return func(m *GroupManager) { m.seed = true }
}

// WithIDGenerator replaces the UUIDv7 id source.
func WithIDGenerator(fn func() string) GroupOption {
	return func(m *GroupManager) { m.newID = fn }
}

func NewGroupManager(log zerolog.Logger, opts ...GroupOption) *GroupManager {
	m := &GroupManager{
		log:   log,
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.seed {
		for _, name := range []string{"Family", "Work", "Friends"} {
			m.groups = append(m.groups, Group{ID: m.newID(), Name: name, Members: []string{}})
		}
	}
	return m
}

// List returns every group in creation order.
func (m *GroupManager) List() []Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Group, 0, len(m.groups))
	for _, g := range m.groups {
		out = append(out, g.clone())
	}
	return out
}

// Get returns the group with the given id.
func (m *GroupManager) Get(id string) (Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return Group{}, ErrNotFound
	}
	return m.groups[i].clone(), nil
}

// Create appends a new group.
func (m *GroupManager) Create(name string, memberIDs []string) (Group, error) {
	name, members, err := validateGroup(name, memberIDs)
	if err != nil {
		return Group{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	g := Group{ID: m.newID(), Name: name, Members: members}
	m.groups = append(m.groups, g)

	m.log.Info().
		Str("event", logger.EventGroupCreated).
		Dict("attributes", zerolog.Dict().
			Str("group_id", g.ID).
			Int("members", len(members))).
		Msg("Grup oluşturuldu")
	return g.clone(), nil
}

// Update replaces the name and members of a group in place, keeping its id
// and position.
func (m *GroupManager) Update(id, name string, memberIDs []string) (Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(id)
	if i < 0 {
		return Group{}, ErrNotFound
	}
	name, members, err := validateGroup(name, memberIDs)
	if err != nil {
		return Group{}, err
	}
	m.groups[i].Name = name
	m.groups[i].Members = members

	m.log.Info().
		Str("event", logger.EventGroupUpdated).
		Dict("attributes", zerolog.Dict().
			Str("group_id", id).
			Int("members", len(members))).
		Msg("Grup güncellendi")
	return m.groups[i].clone(), nil
}

// Delete removes a group.
func (m *GroupManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(id)
	if i < 0 {
		return ErrNotFound
	}
	m.groups = slices.Delete(m.groups, i, i+1)

	m.log.Info().
		Str("event", logger.EventGroupDeleted).
		Str("group_id", id).
		Msg("Grup silindi")
	return nil
}

// ResolveMembers returns the contacts of the group, in the order they appear
// in contacts.
func (m *GroupManager) ResolveMembers(id string, contacts []contact.Contact) ([]contact.Contact, error) {
	g, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	out := make([]contact.Contact, 0, len(g.Members))
	for _, c := range contacts {
		if slices.Contains(g.Members, c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}

// MessageRecipients returns the primary phone numbers of the group's
// members. Members without a phone are skipped; a group with no number at all
// is a validation failure.
func (m *GroupManager) MessageRecipients(id string, contacts []contact.Contact) ([]string, error) {
	members, err := m.ResolveMembers(id, contacts)
	if err != nil {
		return nil, err
	}
	var numbers []string
	for _, c := range members {
		if c.Phone != "" {
			numbers = append(numbers, c.Phone)
		}
	}
	if len(numbers) == 0 {
		return nil, validationError("no valid phone numbers in this group")
	}
	return numbers, nil
}

// RemoveMember drops contactID from every group.
func (m *GroupManager) RemoveMember(contactID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.groups {
		m.groups[i].Members = slices.DeleteFunc(m.groups[i].Members, func(id string) bool {
			return id == contactID
		})
	}
}

func (m *GroupManager) find(id string) int {
	return slices.IndexFunc(m.groups, func(g Group) bool { return g.ID == id })
}

func (g Group) clone() Group {
	g.Members = slices.Clone(g.Members)
	return g
}

// validateGroup trims the name and de-duplicates members, dropping blanks.
func validateGroup(name string, memberIDs []string) (string, []string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, validationError("group name required")
	}
	members := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != "" && !slices.Contains(members, id) {
			members = append(members, id)
		}
	}
	if len(members) == 0 {
		return "", nil, validationError("at least one member required")
	}
	return name, members, nil
}
