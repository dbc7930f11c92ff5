package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmaclachlan/fitcoach/internal/coach"
	"github.com/dmaclachlan/fitcoach/internal/config"
	"github.com/dmaclachlan/fitcoach/internal/llm"
	"github.com/dmaclachlan/fitcoach/internal/store"
	"github.com/dmaclachlan/fitcoach/internal/tools"
)

// scriptedLLM replays canned responses in order, recording each request.
type scriptedLLM struct {
	responses []*llm.ChatResponse
	requests  []*llm.ChatRequest
	err       error
	// midStreamErr fails ChatStream after the response's text has been
	// relayed, simulating a connection drop partway through a reply.
	midStreamErr error
	pingErr      error
}

func (s *scriptedLLM) next(req *llm.ChatRequest) (*llm.ChatResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("scriptedLLM: no response for request %d", len(s.requests))
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func (s *scriptedLLM) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	return s.next(req)
}

func (s *scriptedLLM) ChatStream(ctx context.Context, req *llm.ChatRequest, callback llm.StreamCallback) (*llm.ChatResponse, error) {
	resp, err := s.next(req)
	if err != nil {
		return nil, err
	}
	if callback != nil && resp.Message.Content != "" {
		for _, tok := range strings.SplitAfter(resp.Message.Content, " ") {
			callback(tok)
		}
	}
	if s.midStreamErr != nil {
		return nil, s.midStreamErr
	}
	return resp, nil
}

func (s *scriptedLLM) Ping(ctx context.Context) error { return s.pingErr }

func endTurn(text string) *llm.ChatResponse {
	return &llm.ChatResponse{
		Message:    llm.Message{Role: "assistant", Content: text},
		StopReason: llm.StopEndTurn,
	}
}

func toolUse(text string, calls ...llm.ToolCall) *llm.ChatResponse {
	return &llm.ChatResponse{
		Message:    llm.Message{Role: "assistant", Content: text, ToolCalls: calls},
		StopReason: llm.StopToolUse,
	}
}

func newTestServer(t *testing.T, client llm.Client) (http.Handler, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Coach: config.CoachConfig{
			Model:             "claude-sonnet-4-20250514",
			ChatMaxTokens:     2048,
			PlanMaxTokens:     4000,
			FoodLogMaxTokens:  512,
			PageChatMaxTokens: 1024,
			MaxToolRounds:     8,
		},
	}

	registry := tools.NewRegistry(st)
	c := coach.New(logger, st, client, registry, cfg.Coach)
	srv := NewServer(cfg, c, st, client, logger)
	return srv.routes(), st
}

func seedProfile(t *testing.T, st *store.Store, userID string) {
	t.Helper()
	_, err := st.SaveProfile(userID, store.ProfileParams{
		Age:               30,
		Gender:            "male",
		HeightCm:          180,
		WeightKg:          85,
		FitnessLevel:      store.LevelIntermediate,
		PrimaryGoal:       store.GoalWeightLoss,
		WeeklyWorkoutDays: 4,
		Equipment:         store.EquipmentHomeGym,
		EquipmentItems:    []string{"Barbell"},
		DietaryPreference: store.DietNone,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, w, &body)
	return body.Error.Message
}

// sseEvents parses "data: {...}" frames from a recorded SSE body.
func sseEvents(t *testing.T, body string) []coach.Event {
	t.Helper()
	var events []coach.Event
	for _, frame := range strings.Split(body, "\n\n") {
		frame = strings.TrimSpace(frame)
		if frame == "" {
			continue
		}
		data, ok := strings.CutPrefix(frame, "data: ")
		if !ok {
			t.Fatalf("malformed SSE frame %q", frame)
		}
		var ev coach.Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			t.Fatalf("decode event %q: %v", data, err)
		}
		events = append(events, ev)
	}
	return events
}

func TestChat_BlankMessage(t *testing.T) {
	h, st := newTestServer(t, &scriptedLLM{})
	seedProfile(t, st, "default")

	w := doJSON(t, h, "POST", "/v1/chat", ChatRequest{Message: "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := errorMessage(t, w); got != "message is required" {
		t.Errorf("message = %q", got)
	}
}

func TestChat_NoProfile(t *testing.T) {
	h, _ := newTestServer(t, &scriptedLLM{})

	w := doJSON(t, h, "POST", "/v1/chat", ChatRequest{Message: "hello"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if got := errorMessage(t, w); got != "no profile found" {
		t.Errorf("message = %q", got)
	}
}

func TestChat_StreamsEvents(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.ChatResponse{
		endTurn("Keep up the good work!"),
	}}
	h, st := newTestServer(t, client)
	seedProfile(t, st, "default")

	w := doJSON(t, h, "POST", "/v1/chat", ChatRequest{Message: "how am I doing?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}

	events := sseEvents(t, w.Body.String())
	if len(events) < 2 {
		t.Fatalf("expected text + done events, got %+v", events)
	}
	var text strings.Builder
	for _, ev := range events[:len(events)-1] {
		if ev.Type != "text" {
			t.Errorf("unexpected event type %q", ev.Type)
		}
		text.WriteString(ev.Text)
	}
	if text.String() != "Keep up the good work!" {
		t.Errorf("streamed text = %q", text.String())
	}
	if events[len(events)-1].Type != "done" {
		t.Errorf("last event = %+v", events[len(events)-1])
	}
}

func TestChat_ToolRound(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.ChatResponse{
		toolUse("Let me save that.", llm.ToolCall{
			ID:        "toolu_1",
			Name:      "update_equipment",
			Arguments: map[string]any{"equipmentType": "gym"},
		}),
		endTurn("All set!"),
	}}
	h, st := newTestServer(t, client)
	seedProfile(t, st, "default")

	w := doJSON(t, h, "POST", "/v1/chat", ChatRequest{Message: "I joined a gym"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var toolEvents []coach.Event
	for _, ev := range sseEvents(t, w.Body.String()) {
		if ev.Type == "tool_update" {
			toolEvents = append(toolEvents, ev)
		}
	}
	if len(toolEvents) != 1 || toolEvents[0].Tool != "update_equipment" {
		t.Fatalf("tool events = %+v", toolEvents)
	}

	p, _ := st.GetProfile("default")
	if p.Equipment != store.EquipmentGym {
		t.Errorf("equipment = %q, tool did not run", p.Equipment)
	}
}

// A stream that dies after text has flushed cannot change the HTTP
// status anymore; the handler closes with error + done frames and the
// partial reply is not persisted.
func TestChat_MidStreamFailure(t *testing.T) {
	client := &scriptedLLM{
		responses:    []*llm.ChatResponse{endTurn("Let me think about ")},
		midStreamErr: fmt.Errorf("connection reset"),
	}
	h, st := newTestServer(t, client)
	seedProfile(t, st, "default")

	w := doJSON(t, h, "POST", "/v1/chat", ChatRequest{Message: "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (headers were already sent)", w.Code)
	}

	events := sseEvents(t, w.Body.String())
	if len(events) < 3 {
		t.Fatalf("expected text + error + done events, got %+v", events)
	}
	if events[0].Type != "text" {
		t.Errorf("first event = %+v, want relayed text", events[0])
	}
	errEv := events[len(events)-2]
	if errEv.Type != "error" || errEv.Message != "The coach hit an error mid-reply. Please try again." {
		t.Errorf("error event = %+v", errEv)
	}
	if events[len(events)-1].Type != "done" {
		t.Errorf("last event = %+v", events[len(events)-1])
	}

	// Only the user turn survives; the partial reply is discarded.
	turns, err := st.AllTurns("default")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 1 || turns[0].Role != "user" {
		t.Errorf("turns = %+v", turns)
	}
}

func TestChatHistory(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.ChatResponse{endTurn("Hi there.")}}
	h, st := newTestServer(t, client)
	seedProfile(t, st, "default")

	if w := doJSON(t, h, "POST", "/v1/chat", ChatRequest{Message: "hi"}); w.Code != http.StatusOK {
		t.Fatalf("chat status = %d", w.Code)
	}

	w := doJSON(t, h, "GET", "/v1/chat/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Messages []store.Turn `json:"messages"`
	}
	decodeBody(t, w, &body)
	if len(body.Messages) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(body.Messages))
	}
	if body.Messages[0].Role != "user" || body.Messages[1].Content != "Hi there." {
		t.Errorf("turns = %+v", body.Messages)
	}
}

func TestProfile_PutAndGet(t *testing.T) {
	h, _ := newTestServer(t, &scriptedLLM{})

	if w := doJSON(t, h, "GET", "/v1/profile", nil); w.Code != http.StatusNotFound {
		t.Fatalf("GET before create = %d, want 404", w.Code)
	}

	params := map[string]any{
		"age": 28, "gender": "female", "heightCm": 165, "weightKg": 60,
		"fitnessLevel": "beginner", "primaryGoal": "muscle_gain",
		"weeklyWorkoutDays": 3, "availableEquipment": "dumbbells",
		"equipmentItems": []string{"Dumbbells"}, "dietaryPreferences": "vegetarian",
	}
	w := doJSON(t, h, "PUT", "/v1/profile", params)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, "GET", "/v1/profile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET = %d", w.Code)
	}
	var p store.Profile
	decodeBody(t, w, &p)
	if p.Age != 28 || p.PrimaryGoal != store.GoalMuscleGain {
		t.Errorf("profile = %+v", p)
	}
}

func TestProfile_PutInvalid(t *testing.T) {
	h, _ := newTestServer(t, &scriptedLLM{})

	w := doJSON(t, h, "PUT", "/v1/profile", map[string]any{"age": 5})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(errorMessage(t, w), "age") {
		t.Errorf("message = %q", errorMessage(t, w))
	}
}

func TestProfile_UserScoping(t *testing.T) {
	h, st := newTestServer(t, &scriptedLLM{})
	seedProfile(t, st, "alice")

	req := httptest.NewRequest("GET", "/v1/profile", nil)
	req.Header.Set("X-User-ID", "alice")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("alice GET = %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/v1/profile", nil)
	req.Header.Set("X-User-ID", "bob")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("bob GET = %d, want 404", w.Code)
	}
}

func TestActivities_CRUD(t *testing.T) {
	h, st := newTestServer(t, &scriptedLLM{})
	seedProfile(t, st, "default")

	w := doJSON(t, h, "POST", "/v1/activities", map[string]any{
		"name": "Tennis", "daysOfWeek": []string{"Monday", "Thursday"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("POST = %d, body %s", w.Code, w.Body.String())
	}
	var created store.Activity
	decodeBody(t, w, &created)
	if created.ID == "" || created.Name != "Tennis" {
		t.Fatalf("created = %+v", created)
	}

	w = doJSON(t, h, "GET", "/v1/activities", nil)
	var list struct {
		Activities []store.Activity `json:"activities"`
	}
	decodeBody(t, w, &list)
	if len(list.Activities) != 1 {
		t.Fatalf("list = %+v", list.Activities)
	}

	w = doJSON(t, h, "PUT", "/v1/activities", map[string]any{
		"activities": []map[string]any{{"name": "Swimming"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT = %d", w.Code)
	}
	decodeBody(t, w, &list)
	if len(list.Activities) != 1 || list.Activities[0].Name != "Swimming" {
		t.Errorf("replaced list = %+v", list.Activities)
	}

	w = doJSON(t, h, "DELETE", "/v1/activities/"+list.Activities[0].ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("DELETE = %d", w.Code)
	}
	w = doJSON(t, h, "DELETE", "/v1/activities/"+list.Activities[0].ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", w.Code)
	}
}

func TestActivities_NoProfile(t *testing.T) {
	h, _ := newTestServer(t, &scriptedLLM{})

	w := doJSON(t, h, "POST", "/v1/activities", map[string]any{"name": "Tennis"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPlans_GetAndRender(t *testing.T) {
	h, st := newTestServer(t, &scriptedLLM{})
	if _, err := st.SavePlan("default", store.PlanWorkout, "# Day 1\n\n| A | B |\n|---|---|\n| 1 | 2 |"); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, h, "GET", "/v1/plans", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		WorkoutPlan *store.Plan `json:"workoutPlan"`
		MealPlan    *store.Plan `json:"mealPlan"`
	}
	decodeBody(t, w, &body)
	if body.WorkoutPlan == nil || !strings.HasPrefix(body.WorkoutPlan.Content, "# Day 1") {
		t.Fatalf("workout plan = %+v", body.WorkoutPlan)
	}
	if body.MealPlan != nil {
		t.Errorf("meal plan should be null, got %+v", body.MealPlan)
	}

	w = doJSON(t, h, "GET", "/v1/plans?format=html", nil)
	decodeBody(t, w, &body)
	if !strings.Contains(body.WorkoutPlan.Content, "<h1") {
		t.Errorf("expected rendered heading, got %q", body.WorkoutPlan.Content)
	}
	if !strings.Contains(body.WorkoutPlan.Content, "<table") {
		t.Errorf("expected rendered table, got %q", body.WorkoutPlan.Content)
	}
}

func TestPlanWorkout_Create(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.ChatResponse{
		endTurn("## Day 1: Push\n..."),
	}}
	h, st := newTestServer(t, client)
	seedProfile(t, st, "default")

	w := doJSON(t, h, "POST", "/v1/plans/workout", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var plan store.Plan
	decodeBody(t, w, &plan)
	if plan.Kind != store.PlanWorkout || !strings.Contains(plan.Content, "Push") {
		t.Errorf("plan = %+v", plan)
	}

	saved, err := st.LatestPlan("default", store.PlanWorkout)
	if err != nil || saved == nil {
		t.Fatalf("plan not persisted: %v", err)
	}
}

func TestPlanMeal_NoProfile(t *testing.T) {
	h, _ := newTestServer(t, &scriptedLLM{})

	w := doJSON(t, h, "POST", "/v1/plans/meal", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestProgress_CreateAndList(t *testing.T) {
	h, _ := newTestServer(t, &scriptedLLM{})

	w := doJSON(t, h, "POST", "/v1/progress", map[string]any{
		"weightKg": 84.2, "workoutDone": true, "notes": "solid session",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("POST = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, "GET", "/v1/progress", nil)
	var body struct {
		Entries []store.ProgressEntry `json:"entries"`
	}
	decodeBody(t, w, &body)
	if len(body.Entries) != 1 || !body.Entries[0].WorkoutDone {
		t.Errorf("entries = %+v", body.Entries)
	}
}

func TestProgress_Invalid(t *testing.T) {
	h, _ := newTestServer(t, &scriptedLLM{})

	w := doJSON(t, h, "POST", "/v1/progress", map[string]any{"weightKg": -2})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestFoodLog_CreateWithEstimate(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.ChatResponse{
		toolUse("", llm.ToolCall{
			ID:   "toolu_1",
			Name: "estimate_food_macros",
			Arguments: map[string]any{
				"description": "chicken burrito",
				"calories":    650.0,
				"protein_g":   42.0,
				"carbs_g":     70.0,
				"fat_g":       22.0,
			},
		}),
	}}
	h, _ := newTestServer(t, client)

	w := doJSON(t, h, "POST", "/v1/food-log", FoodLogRequest{
		MealType:    store.MealLunch,
		Description: "chicken burrito",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var entry store.FoodEntry
	decodeBody(t, w, &entry)
	if entry.Calories == nil || *entry.Calories != 650 {
		t.Errorf("entry = %+v", entry)
	}

	w = doJSON(t, h, "GET", "/v1/food-log", nil)
	var body struct {
		Entries []store.FoodEntry `json:"entries"`
		Totals  store.FoodTotals  `json:"totals"`
	}
	decodeBody(t, w, &body)
	if len(body.Entries) != 1 || body.Totals.Calories != 650 {
		t.Errorf("day = %+v totals = %+v", body.Entries, body.Totals)
	}
}

// A failed macro estimate must not block logging the meal.
func TestFoodLog_EstimateFailureStillLogs(t *testing.T) {
	client := &scriptedLLM{err: fmt.Errorf("model unavailable")}
	h, _ := newTestServer(t, client)

	w := doJSON(t, h, "POST", "/v1/food-log", FoodLogRequest{
		MealType:    store.MealDinner,
		Description: "pasta",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var entry store.FoodEntry
	decodeBody(t, w, &entry)
	if entry.Calories != nil {
		t.Errorf("expected no macros, got %+v", entry)
	}
}

func TestFoodLog_BadDate(t *testing.T) {
	h, _ := newTestServer(t, &scriptedLLM{})

	w := doJSON(t, h, "GET", "/v1/food-log?date=yesterday", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHealthAndVersion(t *testing.T) {
	h, _ := newTestServer(t, &scriptedLLM{})

	w := doJSON(t, h, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health = %d", w.Code)
	}
	var health map[string]string
	decodeBody(t, w, &health)
	if health["status"] != "healthy" || health["llm"] != "ok" {
		t.Errorf("health body = %v", health)
	}

	w = doJSON(t, h, "GET", "/v1/version", nil)
	var info map[string]any
	decodeBody(t, w, &info)
	if info["version"] == "" {
		t.Errorf("version body = %v", info)
	}
}

func TestHealth_ProviderDown(t *testing.T) {
	h, _ := newTestServer(t, &scriptedLLM{pingErr: fmt.Errorf("api key invalid")})

	w := doJSON(t, h, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}
	var health map[string]string
	decodeBody(t, w, &health)
	if health["status"] != "degraded" || health["llm"] != "unreachable" {
		t.Errorf("health body = %v", health)
	}
}
