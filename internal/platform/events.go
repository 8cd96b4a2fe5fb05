package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"order-ticketing/internal/logger"
)

// Handlers receives decoded platform events. Nil handlers drop their
// event kind. Each handler runs to completion before the reply is
// written; a panic inside a handler is caught per-interaction and
// answered with a generic error, never crashing the process.
type Handlers struct {
	OnButton  func(ctx context.Context, ev ButtonEvent, r Responder)
	OnForm    func(ctx context.Context, ev FormEvent, r Responder)
	OnCommand func(ctx context.Context, ev CommandEvent, r Responder)
	OnMessage func(ctx context.Context, ev ChannelMessage)
}

// EventServer decodes webhook deliveries from the chat platform into
// typed events. The reply returned through the Responder is written back
// as the HTTP response body.
type EventServer struct {
	Handlers Handlers
	Log      *logger.Logger
}

func NewEventServer(handlers Handlers, log *logger.Logger) *EventServer {
	return &EventServer{Handlers: handlers, Log: log}
}

type eventEnvelope struct {
	Type    string          `json:"type"`
	Button  *ButtonEvent    `json:"button,omitempty"`
	Form    *FormEvent      `json:"form,omitempty"`
	Command *CommandEvent   `json:"command,omitempty"`
	Message *ChannelMessage `json:"message,omitempty"`
}

type eventReply struct {
	Content string `json:"content,omitempty"`
	Form    string `json:"form,omitempty"`
}

// captureResponder collects the single reply a handler produces.
type captureResponder struct {
	content string
	form    string
	replied bool
}

func (r *captureResponder) Reply(content string) {
	if r.replied {
		return
	}
	r.content = content
	r.replied = true
}

func (r *captureResponder) ShowForm(formID string) {
	if r.replied {
		return
	}
	r.form = formID
	r.replied = true
}

func (s *EventServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var env eventEnvelope
	if err := json.NewDecoder(req.Body).Decode(&env); err != nil {
		http.Error(w, "bad event payload", http.StatusBadRequest)
		return
	}

	responder := &captureResponder{}
	s.dispatch(req.Context(), env, responder)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(eventReply{Content: responder.content, Form: responder.form})
}

func (s *EventServer) dispatch(ctx context.Context, env eventEnvelope, r Responder) {
	defer func() {
		if rec := recover(); rec != nil {
			if s.Log != nil {
				s.Log.Error("EVENTS", fmt.Sprintf("handler panic on %s event: %v", env.Type, rec))
			}
			r.Reply("Something went wrong")
		}
	}()

	switch env.Type {
	case "button":
		if s.Handlers.OnButton != nil && env.Button != nil {
			s.Handlers.OnButton(ctx, *env.Button, r)
		}
	case "form":
		if s.Handlers.OnForm != nil && env.Form != nil {
			s.Handlers.OnForm(ctx, *env.Form, r)
		}
	case "command":
		if s.Handlers.OnCommand != nil && env.Command != nil {
			s.Handlers.OnCommand(ctx, *env.Command, r)
		}
	case "message":
		if s.Handlers.OnMessage != nil && env.Message != nil {
			s.Handlers.OnMessage(ctx, *env.Message)
		}
	default:
		if s.Log != nil {
			s.Log.Warn("EVENTS", fmt.Sprintf("unknown event type %q", env.Type))
		}
	}
}
