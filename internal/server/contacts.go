package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sentiric/sentiric-contacts-service/internal/contact"
	"github.com/sentiric/sentiric-contacts-service/internal/logger"
	"github.com/sentiric/sentiric-contacts-service/internal/search"
)

func (h *handlers) registerContacts(api huma.API) {
	huma.Get(api, "/contacts", h.listContacts,
		opErrors(http.StatusServiceUnavailable))
	huma.Get(api, "/contacts/{id}", h.getContact,
		opErrors(http.StatusNotFound))
	huma.Post(api, "/contacts", h.createContact, created,
		opErrors(http.StatusUnprocessableEntity, http.StatusBadGateway, http.StatusForbidden))
	huma.Put(api, "/contacts/{id}", h.updateContact,
		opErrors(http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity, http.StatusBadGateway))
	huma.Delete(api, "/contacts/{id}", h.deleteContact,
		opErrors(http.StatusNotFound, http.StatusConflict, http.StatusBadGateway))
	huma.Post(api, "/contacts/reload", h.reloadContacts,
		opErrors(http.StatusForbidden, http.StatusServiceUnavailable))

	huma.Get(api, "/favorites", h.listFavorites)
	huma.Post(api, "/favorites/{id}", h.toggleFavorite,
		opErrors(http.StatusNotFound))
}

type ContactModel struct {
	contact.Contact
	Favorite bool `json:"favorite"`
}

type idPath struct {
	ID string `path:"id" doc:"Contact id"`
}

type SectionsOutput struct {
	Body struct {
		Loaded   bool             `json:"loaded"`
		Loading  bool             `json:"loading"`
		Total    int              `json:"total"`
		Sections []search.Section `json:"sections"`
	}
}

func (h *handlers) listContacts(_ context.Context, input *struct {
	Query string `query:"q" doc:"Name or phone fragment"`
}) (*SectionsOutput, error) {
	c := h.deps.Contacts
	out := &SectionsOutput{}
	out.Body.Sections = c.Sections(input.Query)
	for _, s := range out.Body.Sections {
		out.Body.Total += len(s.Data)
	}
	out.Body.Loaded = c.Loaded()
	out.Body.Loading = c.Loading()
	return out, nil
}

type ContactOutput struct {
	Body ContactModel
}

func (h *handlers) model(c contact.Contact) ContactModel {
	return ContactModel{Contact: c, Favorite: h.deps.Contacts.IsFavorite(c.ID)}
}

func (h *handlers) getContact(_ context.Context, input *idPath) (*ContactOutput, error) {
	c, ok := h.deps.Contacts.Contact(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("contact not found")
	}
	return &ContactOutput{Body: h.model(c)}, nil
}

type CreateContactOutput struct {
	Body struct {
		ID       string `json:"id"`
		Reloaded bool   `json:"reloaded"`
	}
}

// createContact answers 201 once the store accepted the record, even when
// the follow-up reload failed; the client then sees reloaded=false.
func (h *handlers) createContact(ctx context.Context, input *struct {
	Body contact.Fields
}) (*CreateContactOutput, error) {
	id, err := h.deps.Contacts.Add(ctx, input.Body)
	if id == "" {
		return nil, apiError(err)
	}
	if err != nil {
		l := logger.ContextLogger(ctx, h.log)
		l.Warn().Err(err).Str("contact_id", id).
			Msg("Kişi eklendi ancak liste yenilenemedi")
	}
	out := &CreateContactOutput{}
	out.Body.ID = id
	out.Body.Reloaded = err == nil
	return out, nil
}

func (h *handlers) updateContact(ctx context.Context, input *struct {
	ID   string `path:"id" doc:"Contact id"`
	Body contact.Fields
}) (*ContactOutput, error) {
	f := input.Body
	f.ID = input.ID
	if err := h.deps.Contacts.Update(ctx, f); err != nil {
		return nil, apiError(err)
	}
	c, ok := h.deps.Contacts.Contact(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("contact not found")
	}
	return &ContactOutput{Body: h.model(c)}, nil
}

func (h *handlers) deleteContact(ctx context.Context, input *idPath) (*struct{}, error) {
	return nil, apiError(h.deps.Contacts.Delete(ctx, input.ID))
}

type ReloadOutput struct {
	Body struct {
		Count int `json:"count"`
	}
}

func (h *handlers) reloadContacts(ctx context.Context, _ *struct{}) (*ReloadOutput, error) {
	if err := h.deps.Contacts.Reload(ctx); err != nil {
		return nil, apiError(err)
	}
	out := &ReloadOutput{}
	out.Body.Count = len(h.deps.Contacts.Contacts())
	return out, nil
}

type ContactsOutput struct {
	Body []contact.Contact
}

func (h *handlers) listFavorites(_ context.Context, _ *struct{}) (*ContactsOutput, error) {
	return &ContactsOutput{Body: h.deps.Contacts.Favorites()}, nil
}

type FavoriteOutput struct {
	Body struct {
		ID       string `json:"id"`
		Favorite bool   `json:"favorite"`
	}
}

func (h *handlers) toggleFavorite(_ context.Context, input *idPath) (*FavoriteOutput, error) {
	on, err := h.deps.Contacts.ToggleFavorite(input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	out := &FavoriteOutput{}
	out.Body.ID = input.ID
	out.Body.Favorite = on
	return out, nil
}
