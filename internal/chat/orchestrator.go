// Package chat runs the assistant's completion/tool-call loop for one user turn.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ajitpratap0/campus-advisor/internal/config"
	"github.com/ajitpratap0/campus-advisor/internal/llm"
	"github.com/ajitpratap0/campus-advisor/internal/metrics"
	"github.com/ajitpratap0/campus-advisor/internal/models"
	"github.com/ajitpratap0/campus-advisor/internal/tools"
)

const (
	// DefaultMaxRounds caps completion rounds per turn.
	DefaultMaxRounds = config.DefaultMaxRounds

	// DefaultTurnTimeout bounds the whole loop.
	DefaultTurnTimeout = config.DefaultTurnTimeout

	// IncompleteMessage is returned to the user when a turn is cut short.
	IncompleteMessage = "I wasn't able to finish working on that request. Please try again, or ask a more specific question."
)

var (
	// ErrIncomplete is returned with the fail-closed assistant message when the
	// round cap or the turn timeout is reached.
	ErrIncomplete = errors.New("chat turn did not complete")

	// ErrInvalidHistory is returned when the caller's conversation is malformed.
	ErrInvalidHistory = errors.New("invalid conversation history")
)

// ToolRunner executes tool calls and lists the tools the model may call.
type ToolRunner interface {
	Definitions() []tools.Definition
	InvokeJSON(ctx context.Context, name string, args json.RawMessage) (string, error)
}

// Options tunes an Orchestrator. Zero values fall back to the defaults.
type Options struct {
	MaxRounds   int
	TurnTimeout time.Duration
	// Now supplies the date used in the system prompt.
	Now func() time.Time
}

// Orchestrator drives the model through tool calls until it produces a final
// answer.
type Orchestrator struct {
	completer llm.Completer
	tools     ToolRunner
	toolDefs  []llm.Tool
	opts      Options
	logger    *slog.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(completer llm.Completer, runner ToolRunner, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.TurnTimeout <= 0 {
		opts.TurnTimeout = DefaultTurnTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{
		completer: completer,
		tools:     runner,
		toolDefs:  toLLMTools(runner.Definitions()),
		opts:      opts,
		logger:    logger,
	}
}

// Run answers the last user message of history. On success the returned
// message is the model's final assistant reply. When the turn is cut short the
// returned message is a fixed apology and the error wraps ErrIncomplete.
func (o *Orchestrator) Run(ctx context.Context, history []models.Message) (models.Message, error) {
	if err := ValidateHistory(history); err != nil {
		return models.Message{}, err
	}
	metrics.Inc(metrics.ChatTotal)

	ctx, cancel := context.WithTimeout(ctx, o.opts.TurnTimeout)
	defer cancel()

	logger := o.logger.With("request_id", uuid.NewString())
	msgs := o.conversation(history)

	for round := 1; round <= o.opts.MaxRounds; round++ {
		metrics.Inc(metrics.ChatRounds)

		reply, err := o.completer.Complete(ctx, llm.Request{Messages: msgs, Tools: o.toolDefs})
		if err != nil {
			if ctx.Err() != nil {
				return o.incomplete(logger, round, ctx.Err())
			}
			metrics.Inc(metrics.ChatErrors)
			return models.Message{}, fmt.Errorf("completion round %d: %w", round, err)
		}
		reply.Role = models.RoleAssistant

		if !reply.HasToolCalls() {
			logger.Info("chat turn complete", "rounds", round, "messages", len(msgs))
			return reply, nil
		}

		results := make([]models.Message, 0, len(reply.ToolCalls))
		for i := range reply.ToolCalls {
			tc := &reply.ToolCalls[i]
			if tc.ID == "" {
				tc.ID = "call_" + uuid.NewString()
			}
			tc.Type = models.ToolCallTypeFunction

			logger.Debug("executing tool call", "round", round, "tool", tc.Function.Name, "call_id", tc.ID)
			content, err := o.tools.InvokeJSON(ctx, tc.Function.Name, tc.Args())
			if err != nil {
				metrics.Inc(metrics.ChatErrors)
				logger.Warn("tool call aborted chat turn", "tool", tc.Function.Name, "error", err)
				return models.Message{}, err
			}
			results = append(results, models.NewToolMessage(tc.ID, content))
		}
		msgs = append(msgs, reply)
		msgs = append(msgs, results...)

		if ctx.Err() != nil {
			return o.incomplete(logger, round, ctx.Err())
		}
	}

	return o.incomplete(logger, o.opts.MaxRounds, errors.New("round limit reached"))
}

func (o *Orchestrator) incomplete(logger *slog.Logger, round int, cause error) (models.Message, error) {
	metrics.Inc(metrics.ChatIncomplete)
	logger.Warn("chat turn incomplete", "round", round, "cause", cause)
	return models.Message{Role: models.RoleAssistant, Content: IncompleteMessage},
		fmt.Errorf("%w after %d rounds: %w", ErrIncomplete, round, cause)
}

// conversation drops caller-supplied system messages and prepends ours.
func (o *Orchestrator) conversation(history []models.Message) []models.Message {
	msgs := make([]models.Message, 0, len(history)+1)
	msgs = append(msgs, models.Message{Role: models.RoleSystem, Content: SystemPrompt(o.opts.Now())})
	for i := range history {
		if history[i].Role == models.RoleSystem {
			continue
		}
		msgs = append(msgs, history[i])
	}
	return msgs
}

// ValidateHistory checks that history is non-empty, uses known roles and that
// every tool message answers a call made by an earlier assistant message.
func ValidateHistory(history []models.Message) error {
	if len(history) == 0 {
		return fmt.Errorf("%w: no messages", ErrInvalidHistory)
	}
	calls := make(map[string]bool)
	for i := range history {
		m := &history[i]
		if !m.Role.IsValid() {
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidHistory, i, m.Role)
		}
		switch m.Role {
		case models.RoleAssistant:
			for _, tc := range m.ToolCalls {
				calls[tc.ID] = true
			}
		case models.RoleTool:
			if m.ToolCallID == "" || !calls[m.ToolCallID] {
				return fmt.Errorf("%w: message %d answers unknown tool call %q", ErrInvalidHistory, i, m.ToolCallID)
			}
		}
	}
	return nil
}

func toLLMTools(defs []tools.Definition) []llm.Tool {
	out := make([]llm.Tool, 0, len(defs))
	for _, d := range defs {
		out = append(out, llm.Tool{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  map[string]any(d.Parameters),
		})
	}
	return out
}
