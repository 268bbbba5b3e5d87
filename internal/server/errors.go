package server

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sentiric/sentiric-contacts-service/internal/call"
	"github.com/sentiric/sentiric-contacts-service/internal/service"
	"github.com/sentiric/sentiric-contacts-service/internal/theme"
)

// apiError maps domain failures onto HTTP statuses. It is the only place
// the mapping lives; dialer errors arrive through service.TranslateDialError.
func apiError(err error) error {
	var statusErr huma.StatusError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &statusErr):
		return err
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, theme.ErrInvalidMode):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, call.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, service.ErrBusy), errors.Is(err, call.ErrInvalidState):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, service.ErrUnsupportedAction):
		return huma.Error501NotImplemented(err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		return huma.Error503ServiceUnavailable(err.Error())
	case errors.Is(err, service.ErrStoreWrite):
		return huma.Error502BadGateway(err.Error())
	default:
		return huma.Error500InternalServerError("internal error", err)
	}
}

func opErrors(codes ...int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.Errors = codes }
}

func created(o *huma.Operation) { o.DefaultStatus = http.StatusCreated }
