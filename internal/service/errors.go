// sentiric-contacts-service/internal/service/errors.go
package service

import (
	"errors"
	"fmt"

	"github.com/sentiric/sentiric-contacts-service/internal/dialer"
	"github.com/sentiric/sentiric-contacts-service/internal/repository"
)

// Failure taxonomy surfaced to consumers. Store errors never cross this
// boundary unconverted.
var (
	// ErrPermissionDenied: kişi deposuna erişim reddedildi.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidation: zorunlu alan eksik.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound: işlem eskimiş bir kimliğe başvurdu.
	ErrNotFound = errors.New("not found")

	// ErrStaleContact: kişi yerelde var ama cihaz deposundan silinmiş.
	// Always reported together with ErrNotFound.
	ErrStaleContact = errors.New("contact no longer in device store")

	// ErrStoreWrite: depo yazma işlemini reddetti.
	ErrStoreWrite = errors.New("store write failed")

	// ErrStoreUnavailable: depo okunamadı.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnsupportedAction: cihaz arama veya mesaj açamıyor.
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrBusy: aynı kişi için başka bir kaydetme/silme sürüyor.
	ErrBusy = errors.New("operation already in progress")
)

func validationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// translateStoreError maps an adapter failure onto the taxonomy. Unknown
// failures count as write errors for writes and unavailability for reads.
func translateStoreError(err error, write bool) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrPermissionDenied):
		return ErrPermissionDenied
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, ErrStaleContact)
	case errors.Is(err, repository.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	case errors.Is(err, repository.ErrWrite), write:
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// TranslateDialError maps a dialer failure onto the taxonomy: an unsupported
// scheme is ErrUnsupportedAction and a missing number is ErrValidation. The
// dialer error stays in the chain.
func TranslateDialError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, dialer.ErrUnsupported):
		return fmt.Errorf("%w: %w", ErrUnsupportedAction, err)
	case errors.Is(err, dialer.ErrNoNumber), errors.Is(err, dialer.ErrInvalidDigit):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	default:
		return err
	}
}
