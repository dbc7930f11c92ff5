package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmaclachlan/fitcoach/internal/coach"
	"github.com/dmaclachlan/fitcoach/internal/store"
)

// ChatRequest is the body for POST /v1/chat and /v1/page-chat.
type ChatRequest struct {
	Message     string `json:"message"`
	PageContext string `json:"pageContext,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.streamEvents(w, r, func(emit coach.EmitFunc) error {
		return s.coach.Stream(r.Context(), userID(r), req.Message, emit)
	})
}

func (s *Server) handlePageChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.streamEvents(w, r, func(emit coach.EmitFunc) error {
		return s.coach.PageChat(r.Context(), req.Message, req.PageContext, emit)
	})
}

// streamEvents runs a coaching exchange over SSE. Precondition failures
// surface before any event flushes, so they can still produce a clean
// HTTP status; later failures become an error frame on the open stream.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request, run func(coach.EmitFunc) error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.errorResponse(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Reset write deadline after every event so multi-round tool loops
	// don't trip the server write timeout.
	rc := http.NewResponseController(w)

	started := false
	emit := func(ev coach.Event) {
		if !started {
			started = true
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
		}
		s.writeSSE(w, ev)
		flusher.Flush()
		if err := rc.SetWriteDeadline(time.Now().Add(120 * time.Second)); err != nil {
			s.logger.Debug("failed to reset write deadline", "error", err)
		}
	}

	err := run(emit)
	if err == nil {
		return
	}

	if !started {
		switch {
		case errors.Is(err, coach.ErrEmptyMessage):
			s.errorResponse(w, http.StatusBadRequest, "message is required")
		case errors.Is(err, store.ErrNoProfile):
			s.errorResponse(w, http.StatusNotFound, "no profile found")
		default:
			s.logger.Error("chat failed", "error", err)
			s.errorResponse(w, http.StatusInternalServerError, "chat error")
		}
		return
	}

	// Mid-stream failure: the status line is gone, so close the stream
	// explicitly. Unpersisted partial text is discarded by design of the
	// single-write persistence model.
	s.logger.Error("chat stream failed", "error", err)
	emit(coach.ErrorEvent("The coach hit an error mid-reply. Please try again."))
	emit(coach.DoneEvent())
}

func (s *Server) writeSSE(w http.ResponseWriter, ev coach.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Debug("failed to marshal SSE event", "error", err)
		return
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		s.logger.Debug("failed to write SSE event", "error", err)
	}
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	turns, err := s.store.AllTurns(userID(r))
	if err != nil {
		s.logger.Error("load chat history", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if turns == nil {
		turns = []store.Turn{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{"messages": turns}, s.logger)
}
