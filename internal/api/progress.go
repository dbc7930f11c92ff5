package api

import (
	"encoding/json"
	"net/http"

	"github.com/dmaclachlan/fitcoach/internal/store"
)

func (s *Server) handleProgressList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListProgress(userID(r))
	if err != nil {
		s.logger.Error("list progress", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list progress")
		return
	}
	if entries == nil {
		entries = []store.ProgressEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{"entries": entries}, s.logger)
}

func (s *Server) handleProgressCreate(w http.ResponseWriter, r *http.Request) {
	var params store.ProgressParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.store.AddProgress(userID(r), params)
	if err != nil {
		if validationError(err) {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("add progress", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to add progress")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, entry, s.logger)
}
