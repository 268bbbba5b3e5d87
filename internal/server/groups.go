package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sentiric/sentiric-contacts-service/internal/contact"
	"github.com/sentiric/sentiric-contacts-service/internal/dialer"
	"github.com/sentiric/sentiric-contacts-service/internal/service"
)

func (h *handlers) registerGroups(api huma.API) {
	huma.Get(api, "/groups", h.listGroups)
	huma.Post(api, "/groups", h.createGroup, created,
		opErrors(http.StatusUnprocessableEntity))
	huma.Get(api, "/groups/{id}", h.getGroup,
		opErrors(http.StatusNotFound))
	huma.Put(api, "/groups/{id}", h.updateGroup,
		opErrors(http.StatusNotFound, http.StatusUnprocessableEntity))
	huma.Delete(api, "/groups/{id}", h.deleteGroup,
		opErrors(http.StatusNotFound))
	huma.Get(api, "/groups/{id}/members", h.groupMembers,
		opErrors(http.StatusNotFound))
	huma.Post(api, "/groups/{id}/message", h.messageGroup,
		opErrors(http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusNotImplemented))
}

type GroupInput struct {
	Name    string   `json:"name" minLength:"1" example:"Work"`
	Members []string `json:"members" doc:"Contact ids"`
}

type groupPath struct {
	ID string `path:"id" doc:"Group id"`
}

type GroupOutput struct {
	Body service.Group
}

type GroupsOutput struct {
	Body []service.Group
}

func (h *handlers) listGroups(_ context.Context, _ *struct{}) (*GroupsOutput, error) {
	return &GroupsOutput{Body: h.deps.Groups.List()}, nil
}

func (h *handlers) createGroup(_ context.Context, input *struct {
	Body GroupInput
}) (*GroupOutput, error) {
	g, err := h.deps.Groups.Create(input.Body.Name, input.Body.Members)
	if err != nil {
		return nil, apiError(err)
	}
	return &GroupOutput{Body: g}, nil
}

func (h *handlers) getGroup(_ context.Context, input *groupPath) (*GroupOutput, error) {
	g, err := h.deps.Groups.Get(input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &GroupOutput{Body: g}, nil
}

func (h *handlers) updateGroup(_ context.Context, input *struct {
	ID   string `path:"id" doc:"Group id"`
	Body GroupInput
}) (*GroupOutput, error) {
	g, err := h.deps.Groups.Update(input.ID, input.Body.Name, input.Body.Members)
	if err != nil {
		return nil, apiError(err)
	}
	return &GroupOutput{Body: g}, nil
}

func (h *handlers) deleteGroup(_ context.Context, input *groupPath) (*struct{}, error) {
	return nil, apiError(h.deps.Groups.Delete(input.ID))
}

func (h *handlers) groupMembers(_ context.Context, input *groupPath) (*ContactsOutput, error) {
	members, err := h.deps.Groups.ResolveMembers(input.ID, h.deps.Contacts.Contacts())
	if err != nil {
		return nil, apiError(err)
	}
	if members == nil {
		members = []contact.Contact{}
	}
	return &ContactsOutput{Body: members}, nil
}

type MessageOutput struct {
	Body struct {
		Recipients []string `json:"recipients"`
		URL        string   `json:"url"`
	}
}

func (h *handlers) messageGroup(ctx context.Context, input *groupPath) (*MessageOutput, error) {
	numbers, err := h.deps.Groups.MessageRecipients(input.ID, h.deps.Contacts.Contacts())
	if err != nil {
		return nil, apiError(err)
	}
	if err := h.deps.Dialer.Message(ctx, numbers); err != nil {
		return nil, apiError(service.TranslateDialError(err))
	}
	out := &MessageOutput{}
	out.Body.Recipients = numbers
	out.Body.URL = dialer.SMSURL(h.deps.Dialer.Platform(), numbers)
	return out, nil
}
