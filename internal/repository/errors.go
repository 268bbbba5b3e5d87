// sentiric-contacts-service/internal/repository/errors.go
package repository

import "errors"

var (
	// ErrNotFound: the referenced record is not in the store.
	ErrNotFound = errors.New("record not found")

	// ErrPermissionDenied: access to the contact store was refused.
	ErrPermissionDenied = errors.New("contact store access denied")

	// ErrUnavailable: the store could not be read.
	ErrUnavailable = errors.New("contact store unavailable")

	// ErrWrite: the store rejected or failed a write.
	ErrWrite = errors.New("contact store write failed")
)
