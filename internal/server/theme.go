package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sentiric/sentiric-contacts-service/internal/theme"
)

func (h *handlers) registerTheme(api huma.API) {
	huma.Get(api, "/theme", h.getTheme)
	huma.Put(api, "/theme", h.setTheme,
		opErrors(http.StatusUnprocessableEntity, http.StatusInternalServerError))
}

type ThemeOutput struct {
	Body struct {
		Mode      theme.Mode `json:"mode"`
		Effective theme.Mode `json:"effective"`
	}
}

func (h *handlers) themeOutput() *ThemeOutput {
	out := &ThemeOutput{}
	out.Body.Mode = h.deps.Theme.Mode()
	out.Body.Effective = h.deps.Theme.Effective()
	return out
}

func (h *handlers) getTheme(context.Context, *struct{}) (*ThemeOutput, error) {
	return h.themeOutput(), nil
}

func (h *handlers) setTheme(_ context.Context, input *struct {
	Body struct {
		Mode string `json:"mode" enum:"system,light,dark"`
	}
}) (*ThemeOutput, error) {
	if err := h.deps.Theme.Set(theme.Mode(input.Body.Mode)); err != nil {
		return nil, apiError(err)
	}
	return h.themeOutput(), nil
}
