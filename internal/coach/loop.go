// Package coach runs the tool-augmented coaching conversation loop.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmaclachlan/fitcoach/internal/config"
	"github.com/dmaclachlan/fitcoach/internal/llm"
	"github.com/dmaclachlan/fitcoach/internal/prompts"
	"github.com/dmaclachlan/fitcoach/internal/store"
	"github.com/dmaclachlan/fitcoach/internal/tools"
)

// historyLimit caps how many prior turns are replayed into the model's
// context.
const historyLimit = 20

// ErrEmptyMessage is returned when a chat request has no message text.
var ErrEmptyMessage = errors.New("message is required")

// roundCapNotice is appended when a conversation hits the tool-round
// cap without the model ever yielding a final reply.
const roundCapNotice = "I've made the requested updates. Let me know if you'd like anything else adjusted."

// Coach drives conversations between the user, the model, and the
// profile tools.
type Coach struct {
	logger *slog.Logger
	store  *store.Store
	llm    llm.Client
	tools  *tools.Registry
	cfg    config.CoachConfig
}

// New creates a Coach.
func New(logger *slog.Logger, st *store.Store, client llm.Client, registry *tools.Registry, cfg config.CoachConfig) *Coach {
	return &Coach{
		logger: logger.With("component", "coach"),
		store:  st,
		llm:    client,
		tools:  registry,
		cfg:    cfg,
	}
}

// Stream runs one coaching exchange, emitting events as the reply is
// composed. The user turn is persisted before the first model call;
// the assistant turn is persisted once, after the loop completes.
//
// Precondition failures (empty message, missing profile) are returned
// before any event is emitted, so the transport can still send a clean
// HTTP error. Failures after streaming has begun are also returned;
// the transport decides whether an error frame is still deliverable.
func (c *Coach) Stream(ctx context.Context, userID, message string, emit EmitFunc) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}

	profile, err := c.store.GetProfile(userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return store.ErrNoProfile
	}

	workoutPlan, mealPlan, err := c.latestPlans(userID)
	if err != nil {
		return err
	}
	history, err := c.store.RecentTurns(userID, historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if _, err := c.store.AppendTurn(userID, "user", message); err != nil {
		return fmt.Errorf("persist user turn: %w", err)
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: prompts.ChatSystem(profile, workoutPlan, mealPlan, ""),
	})
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: message})

	fullText, err := c.runRounds(ctx, userID, messages, emit)
	if err != nil {
		return err
	}

	if fullText != "" {
		if _, err := c.store.AppendTurn(userID, "assistant", fullText); err != nil {
			c.logger.Error("persist assistant turn", "error", err)
		}
	}

	emit(DoneEvent())
	return nil
}

// runRounds loops model calls while the model keeps requesting tools,
// accumulating the streamed text across rounds.
func (c *Coach) runRounds(ctx context.Context, userID string, messages []llm.Message, emit EmitFunc) (string, error) {
	var fullText strings.Builder

	for round := 0; round < c.cfg.MaxToolRounds; round++ {
		req := &llm.ChatRequest{
			Model:     c.cfg.Model,
			Messages:  messages,
			Tools:     c.tools.Declarations(),
			MaxTokens: c.cfg.ChatMaxTokens,
		}

		resp, err := c.llm.ChatStream(ctx, req, func(token string) {
			fullText.WriteString(token)
			emit(TextEvent(token))
		})
		if err != nil {
			return "", fmt.Errorf("model call: %w", err)
		}

		c.logger.Debug("model round complete",
			"round", round,
			"stop_reason", resp.StopReason,
			"tool_calls", len(resp.Message.ToolCalls))

		if resp.StopReason != llm.StopToolUse || len(resp.Message.ToolCalls) == 0 {
			return fullText.String(), nil
		}

		messages = append(messages, resp.Message)

		// Tools mutate the same profile row, so execute them in the
		// order the model emitted them.
		for _, call := range resp.Message.ToolCalls {
			result := c.tools.Dispatch(ctx, userID, call)
			c.logger.Info("tool executed", "tool", result.Tool, "summary", result.Summary)
			emit(ToolEvent(result.Tool, result.Summary))
			messages = append(messages, llm.Message{
				Role:       "tool",
				Content:    result.Result,
				ToolCallID: call.ID,
			})
		}
	}

	c.logger.Warn("tool round cap reached", "user_id", userID, "max_rounds", c.cfg.MaxToolRounds)
	if fullText.Len() > 0 {
		fullText.WriteString("\n\n")
	}
	fullText.WriteString(roundCapNotice)
	emit(TextEvent(roundCapNotice))
	return fullText.String(), nil
}

// Ask runs one exchange without a streaming transport and returns the
// complete reply. Used by the CLI.
func (c *Coach) Ask(ctx context.Context, userID, message string) (string, error) {
	var reply strings.Builder
	err := c.Stream(ctx, userID, message, func(ev Event) {
		if ev.Type == "text" {
			reply.WriteString(ev.Text)
		}
	})
	if err != nil {
		return "", err
	}
	return reply.String(), nil
}

// PageChat streams a lightweight assistant reply about on-screen
// content. No profile, no tools, nothing persisted.
func (c *Coach) PageChat(ctx context.Context, message, pageContext string, emit EmitFunc) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}

	req := &llm.ChatRequest{
		Model: c.cfg.Model,
		Messages: []llm.Message{
			{Role: "system", Content: prompts.PageChatSystem(pageContext)},
			{Role: "user", Content: message},
		},
		MaxTokens: c.cfg.PageChatMaxTokens,
	}

	_, err := c.llm.ChatStream(ctx, req, func(token string) {
		emit(TextEvent(token))
	})
	if err != nil {
		return fmt.Errorf("model call: %w", err)
	}

	emit(DoneEvent())
	return nil
}

func (c *Coach) latestPlans(userID string) (workout, meal string, err error) {
	wp, err := c.store.LatestPlan(userID, store.PlanWorkout)
	if err != nil {
		return "", "", fmt.Errorf("load workout plan: %w", err)
	}
	mp, err := c.store.LatestPlan(userID, store.PlanMeal)
	if err != nil {
		return "", "", fmt.Errorf("load meal plan: %w", err)
	}
	if wp != nil {
		workout = wp.Content
	}
	if mp != nil {
		meal = mp.Content
	}
	return workout, meal, nil
}
