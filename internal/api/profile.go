package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmaclachlan/fitcoach/internal/store"
)

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfile(userID(r))
	if err != nil {
		s.logger.Error("load profile", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "no profile found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, profile, s.logger)
}

func (s *Server) handleProfilePut(w http.ResponseWriter, r *http.Request) {
	var params store.ProfileParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := s.store.SaveProfile(userID(r), params)
	if err != nil {
		if validationError(err) {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("save profile", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, profile, s.logger)
}

func (s *Server) handleActivityList(w http.ResponseWriter, r *http.Request) {
	activities, err := s.store.ListActivities(userID(r))
	if err != nil {
		if errors.Is(err, store.ErrNoProfile) {
			s.errorResponse(w, http.StatusNotFound, "no profile found")
			return
		}
		s.logger.Error("list activities", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	if activities == nil {
		activities = []store.Activity{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{"activities": activities}, s.logger)
}

func (s *Server) handleActivityCreate(w http.ResponseWriter, r *http.Request) {
	var input store.ActivityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	activity, err := s.store.AddActivity(userID(r), input)
	if err != nil {
		s.activityError(w, err, "add activity")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, activity, s.logger)
}

// handleActivityReplace swaps the full activity list, mirroring what
// the manage_activities tool does from inside a conversation.
func (s *Server) handleActivityReplace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Activities []store.ActivityInput `json:"activities"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	activities, err := s.store.ReplaceActivities(userID(r), req.Activities)
	if err != nil {
		s.activityError(w, err, "replace activities")
		return
	}
	if activities == nil {
		activities = []store.Activity{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{"activities": activities}, s.logger)
}

func (s *Server) handleActivityDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteActivity(userID(r), r.PathValue("id")); err != nil {
		s.activityError(w, err, "delete activity")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) activityError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNoProfile):
		s.errorResponse(w, http.StatusNotFound, "no profile found")
	case errors.Is(err, store.ErrNotFound):
		s.errorResponse(w, http.StatusNotFound, "activity not found")
	case validationError(err):
		s.errorResponse(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error(op, "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to "+op)
	}
}
