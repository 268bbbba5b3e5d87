package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sentiric/sentiric-contacts-service/internal/call"
	"github.com/sentiric/sentiric-contacts-service/internal/dialer"
	"github.com/sentiric/sentiric-contacts-service/internal/service"
)

func (h *handlers) registerCalls(api huma.API) {
	huma.Post(api, "/calls", h.startCall, created,
		opErrors(http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusConflict))
	huma.Get(api, "/calls/{id}", h.getCall,
		opErrors(http.StatusNotFound))
	huma.Post(api, "/calls/{id}/end", h.endCall,
		opErrors(http.StatusNotFound))
	huma.Post(api, "/calls/{id}/answer", h.answerCall,
		opErrors(http.StatusNotFound, http.StatusConflict))
	huma.Post(api, "/calls/{id}/decline", h.declineCall,
		opErrors(http.StatusNotFound, http.StatusConflict))
	huma.Post(api, "/calls/{id}/toggle/{control}", h.toggleCall,
		opErrors(http.StatusNotFound, http.StatusConflict))
	huma.Post(api, "/calls/{id}/digits", h.pressDigit,
		opErrors(http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity))
	huma.Post(api, "/dial", h.dialNumber,
		opErrors(http.StatusUnprocessableEntity, http.StatusNotImplemented))
}

type callPath struct {
	ID string `path:"id" doc:"Call session id"`
}

type CallOutput struct {
	Body call.Snapshot
}

func (h *handlers) startCall(_ context.Context, input *struct {
	Body struct {
		ContactID string `json:"contactId"`
		Incoming  bool   `json:"incoming,omitempty" doc:"Simulate an incoming call that waits for answer"`
	}
}) (*CallOutput, error) {
	c, ok := h.deps.Contacts.Contact(input.Body.ContactID)
	if !ok {
		return nil, apiError(service.ErrNotFound)
	}
	start := h.deps.Calls.Start
	if input.Body.Incoming {
		start = h.deps.Calls.Ring
	}
	s, err := start(c)
	if err != nil {
		return nil, apiError(service.TranslateDialError(err))
	}
	return &CallOutput{Body: s.Snapshot()}, nil
}

func (h *handlers) getCall(_ context.Context, input *callPath) (*CallOutput, error) {
	s, ok := h.deps.Calls.Get(input.ID)
	if !ok {
		return nil, apiError(call.ErrNotFound)
	}
	return &CallOutput{Body: s.Snapshot()}, nil
}

func (h *handlers) endCall(_ context.Context, input *callPath) (*CallOutput, error) {
	return snapshot(h.deps.Calls.End(input.ID))
}

func (h *handlers) answerCall(_ context.Context, input *callPath) (*CallOutput, error) {
	return snapshot(h.deps.Calls.Answer(input.ID))
}

func (h *handlers) declineCall(_ context.Context, input *callPath) (*CallOutput, error) {
	return snapshot(h.deps.Calls.Decline(input.ID))
}

func (h *handlers) toggleCall(_ context.Context, input *struct {
	ID      string `path:"id" doc:"Call session id"`
	Control string `path:"control" enum:"mute,speaker,keypad"`
}) (*CallOutput, error) {
	s, ok := h.deps.Calls.Get(input.ID)
	if !ok {
		return nil, apiError(call.ErrNotFound)
	}
	var err error
	switch input.Control {
	case "mute":
		_, err = s.ToggleMute()
	case "speaker":
		_, err = s.ToggleSpeaker()
	case "keypad":
		_, err = s.ToggleKeypad()
	default:
		return nil, huma.Error422UnprocessableEntity("unknown control " + input.Control)
	}
	if err != nil {
		return nil, apiError(err)
	}
	return &CallOutput{Body: s.Snapshot()}, nil
}

func (h *handlers) pressDigit(_ context.Context, input *struct {
	ID   string `path:"id" doc:"Call session id"`
	Body struct {
		Digit string `json:"digit" example:"5"`
	}
}) (*CallOutput, error) {
	s, ok := h.deps.Calls.Get(input.ID)
	if !ok {
		return nil, apiError(call.ErrNotFound)
	}
	if err := s.PressDigit(input.Body.Digit); err != nil {
		return nil, apiError(service.TranslateDialError(err))
	}
	return &CallOutput{Body: s.Snapshot()}, nil
}

type DialOutput struct {
	Body struct {
		Number string `json:"number"`
		URL    string `json:"url"`
	}
}

// dialNumber replays keys on a fresh keypad, the way the dial pad screen
// builds a number, and calls it.
func (h *handlers) dialNumber(ctx context.Context, input *struct {
	Body struct {
		Keys string `json:"keys" example:"555*12#"`
	}
}) (*DialOutput, error) {
	var pad dialer.Keypad
	for _, r := range input.Body.Keys {
		if err := pad.Press(string(r)); err != nil {
			return nil, apiError(service.TranslateDialError(err))
		}
	}
	if err := pad.Call(ctx, h.deps.Dialer); err != nil {
		return nil, apiError(service.TranslateDialError(err))
	}
	out := &DialOutput{}
	out.Body.Number = pad.Number()
	out.Body.URL = dialer.CallURL(out.Body.Number)
	return out, nil
}

func snapshot(s *call.Session, err error) (*CallOutput, error) {
	if err != nil {
		return nil, apiError(err)
	}
	return &CallOutput{Body: s.Snapshot()}, nil
}
