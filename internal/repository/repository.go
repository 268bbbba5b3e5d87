// sentiric-contacts-service/internal/repository/repository.go
package repository

import (
	"context"

	"github.com/sentiric/sentiric-contacts-service/internal/contact"
)

// ContactStore abstracts the device's shared contact database. Writes are not
// transactional with any in-memory view of it, so callers resynchronize with
// LoadAll after every successful write.
type ContactStore interface {
	// LoadAll requests access and returns every record sorted by first name.
	// A refused access is ErrPermissionDenied, never an empty result.
	LoadAll(ctx context.Context) ([]contact.Record, error)

	// Create stores a new record and returns the id the store assigned.
	Create(ctx context.Context, r contact.Record) (string, error)

	// Update replaces the prior record with fields applied over it. The full
	// prior record is required because the store replaces fields wholesale.
	Update(ctx context.Context, prior contact.Record, f contact.Fields) error

	// Delete removes the record with the given id.
	Delete(ctx context.Context, id string) error
}
