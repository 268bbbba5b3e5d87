// sentiric-contacts-service/internal/service/service.go
package service

import (
	"context"

	"github.com/sentiric/sentiric-contacts-service/internal/contact"
	"github.com/sentiric/sentiric-contacts-service/internal/search"
)

// ContactReader is the read side consumers of the contact collection need.
type ContactReader interface {
	Contacts() []contact.Contact
	Contact(id string) (contact.Contact, bool)
	Favorites() []contact.Contact
	Sections(query string) []search.Section
	Loaded() bool
}

// ContactWriter is the mutating side. Every write resynchronizes with the
// store before returning.
type ContactWriter interface {
	Reload(ctx context.Context) error
	Add(ctx context.Context, f contact.Fields) (string, error)
	Update(ctx context.Context, f contact.Fields) error
	Delete(ctx context.Context, id string) error
	ToggleFavorite(id string) (bool, error)
}

// MembershipPruner drops a deleted contact from derived collections.
type MembershipPruner interface {
	RemoveMember(contactID string)
}

var (
	_ ContactReader    = (*ContactService)(nil)
	_ ContactWriter    = (*ContactService)(nil)
	_ MembershipPruner = (*GroupManager)(nil)
)
