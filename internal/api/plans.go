package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dmaclachlan/fitcoach/internal/store"
)

// markdown renders plan documents for the HTML view. GFM tables are
// required for the exercise tables in workout plans.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// handlePlansGet returns the latest workout and meal plans. With
// ?format=html the markdown content is rendered server-side.
func (s *Server) handlePlansGet(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	workout, err := s.store.LatestPlan(uid, store.PlanWorkout)
	if err != nil {
		s.logger.Error("load workout plan", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load plans")
		return
	}
	meal, err := s.store.LatestPlan(uid, store.PlanMeal)
	if err != nil {
		s.logger.Error("load meal plan", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load plans")
		return
	}

	if r.URL.Query().Get("format") == "html" {
		workout = s.renderPlan(workout)
		meal = s.renderPlan(meal)
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{
		"workoutPlan": workout,
		"mealPlan":    meal,
	}, s.logger)
}

// renderPlan converts a plan's markdown content to HTML in place.
func (s *Server) renderPlan(p *store.Plan) *store.Plan {
	if p == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(p.Content), &buf); err != nil {
		s.logger.Error("render plan markdown", "plan_id", p.ID, "error", err)
		return p
	}
	rendered := *p
	rendered.Content = buf.String()
	return &rendered
}

func (s *Server) handlePlanWorkout(w http.ResponseWriter, r *http.Request) {
	plan, err := s.coach.GenerateWorkoutPlan(r.Context(), userID(r))
	if err != nil {
		s.planError(w, err, "generate workout plan")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, plan, s.logger)
}

func (s *Server) handlePlanMeal(w http.ResponseWriter, r *http.Request) {
	plan, err := s.coach.GenerateMealPlan(r.Context(), userID(r))
	if err != nil {
		s.planError(w, err, "generate meal plan")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, plan, s.logger)
}

func (s *Server) planError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, store.ErrNoProfile) {
		s.errorResponse(w, http.StatusNotFound, "no profile found")
		return
	}
	s.logger.Error(op, "error", err)
	s.errorResponse(w, http.StatusInternalServerError, "failed to "+op)
}
