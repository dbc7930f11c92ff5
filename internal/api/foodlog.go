package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmaclachlan/fitcoach/internal/store"
)

// FoodLogRequest is the body for POST /v1/food-log. Macros are
// estimated by the model; the client only describes what was eaten.
type FoodLogRequest struct {
	MealType    string `json:"mealType"`
	Description string `json:"description"`
}

func (s *Server) handleFoodLogCreate(w http.ResponseWriter, r *http.Request) {
	var req FoodLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := store.FoodParams{
		MealType:    req.MealType,
		Description: req.Description,
	}

	// A failed estimate still logs the meal; macros can stay empty.
	estimate, err := s.coach.EstimateFoodMacros(r.Context(), req.Description)
	if err != nil {
		s.logger.Warn("macro estimation failed", "error", err)
	} else {
		params.Calories = &estimate.Calories
		params.ProteinG = &estimate.ProteinG
		params.CarbsG = &estimate.CarbsG
		params.FatG = &estimate.FatG
	}

	entry, err := s.store.AddFood(userID(r), params)
	if err != nil {
		if validationError(err) {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("add food entry", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to add food entry")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, entry, s.logger)
}

// handleFoodLogGet returns one day's entries plus totals. The day
// defaults to today; ?date=YYYY-MM-DD selects another.
func (s *Server) handleFoodLogGet(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	entries, totals, err := s.store.FoodForDay(userID(r), day)
	if err != nil {
		s.logger.Error("load food log", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load food log")
		return
	}
	if entries == nil {
		entries = []store.FoodEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{
		"entries": entries,
		"totals":  totals,
	}, s.logger)
}
