package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/petasbytes/go-toolchat/internal/provider"
	"github.com/petasbytes/go-toolchat/internal/telemetry"
	"github.com/petasbytes/go-toolchat/tools"
	"github.com/rs/zerolog"
)

// Defaults applied by New to zero Config fields.
const (
	DefaultRetryAttempts = 3
	DefaultRetryBackoff  = 200 * time.Millisecond
)

// MessageCreator is the part of the SDK the loop needs.
// *anthropic.MessageService satisfies it.
type MessageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// ToolProvider executes a tool call. input is the raw JSON argument object
// from the response; the returned payload must be JSON-serializable.
type ToolProvider interface {
	Call(ctx context.Context, name string, input json.RawMessage) (any, error)
}

// Config is fixed at construction.
type Config struct {
	Model         anthropic.Model
	System        string
	Tools         []tools.RemoteToolSpec
	Provider      ToolProvider
	MaxTokens     int64
	RetryAttempts int
	RetryBackoff  time.Duration
}

// Option customises a Chat.
type Option func(*Chat)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Chat) { c.log = l }
}

// Chat drives one conversation. See the package doc for the loop.
type Chat struct {
	client     MessageCreator
	cfg        Config
	toolParams []anthropic.ToolUnionParam
	log        zerolog.Logger

	history []anthropic.MessageParam
	state   State
}

// New returns an idle Chat. It fails only when cfg.Tools cannot be converted
// into SDK tool params.
func New(client MessageCreator, cfg Config, opts ...Option) (*Chat, error) {
	if cfg.Model == "" {
		cfg.Model = provider.DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = provider.DefaultMaxTokens
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = DefaultRetryAttempts
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}

	params, err := provider.ToolParams(cfg.Tools)
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}

	c := &Chat{
		client:     client,
		cfg:        cfg,
		toolParams: params,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Result is the outcome of Submit. When Stopped is true the turn ended on
// the first tool call and ToolOutput holds the provider's payload as
// returned; otherwise Text holds the final assistant text.
type Result struct {
	Text       string
	ToolOutput any
	Stopped    bool
}

type submitConfig struct {
	stopOnTool bool
	autoReset  bool
}

// SubmitOption customises one Submit call.
type SubmitOption func(*submitConfig)

// StopOnTool returns the first tool call's payload without asking the model
// to continue. History is always cleared on that path.
func StopOnTool(v bool) SubmitOption {
	return func(s *submitConfig) { s.stopOnTool = v }
}

// AutoReset controls whether history is cleared after a natural completion.
// It defaults to true.
func AutoReset(v bool) SubmitOption {
	return func(s *submitConfig) { s.autoReset = v }
}

// Submit sends query and runs the tool loop until the model answers in
// text, or until the first tool call when StopOnTool is set.
//
// On error history keeps whatever was appended so far; call Reset to
// start over.
func (c *Chat) Submit(ctx context.Context, query string, opts ...SubmitOption) (Result, error) {
	sc := submitConfig{autoReset: true}
	for _, opt := range opts {
		opt(&sc)
	}
	if strings.TrimSpace(query) == "" {
		return Result{}, ErrEmptyQuery
	}

	ctx, turnID := telemetry.EnsureTurnID(ctx)
	log := c.log.With().Str("turn_id", turnID).Logger()
	telemetry.EmitQueryFeatures(ctx, query)

	defer func() { c.state = Idle }()

	c.AddMessage(anthropic.NewUserMessage(anthropic.NewTextBlock(query)))
	msg, err := c.generate(ctx, log)
	if err != nil {
		return Result{}, err
	}

	// The last block of the first response carries the model's intent; any
	// preamble before it is dropped. Later responses are queued whole.
	var queue []anthropic.ContentBlockUnion
	if n := len(msg.Content); n > 0 {
		queue = append(queue, msg.Content[n-1])
	}

	c.state = ProcessingContent
	for len(queue) > 0 {
		block := queue[0]
		queue = queue[1:]

		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			c.AddMessage(anthropic.NewAssistantMessage(anthropic.NewTextBlock(v.Text)))
			if len(queue) > 0 {
				continue
			}
			if sc.autoReset {
				c.Reset()
			}
			c.emitTurnComplete(turnID, false)
			return Result{Text: v.Text}, nil

		case anthropic.ToolUseBlock:
			input := rawInput(v)
			c.AddMessage(anthropic.NewAssistantMessage(anthropic.ContentBlockParamUnion{
				OfToolUse: &anthropic.ToolUseBlockParam{ID: v.ID, Name: v.Name, Input: input},
			}))

			out, err := c.HandleToolCall(ctx, v)
			if err != nil {
				return Result{}, err
			}
			if sc.stopOnTool {
				c.Reset()
				c.emitTurnComplete(turnID, true)
				return Result{ToolOutput: out, Stopped: true}, nil
			}

			payload, err := json.Marshal(out)
			if err != nil {
				return Result{}, fmt.Errorf("encode %s result: %w", v.Name, err)
			}
			c.AddMessage(anthropic.NewUserMessage(anthropic.NewToolResultBlock(v.ID, string(payload), false)))

			msg, err = c.generate(ctx, log)
			if err != nil {
				return Result{}, err
			}
			queue = append(queue, msg.Content...)
			c.state = ProcessingContent

		default:
			log.Debug().Str("type", block.Type).Msg("skipping content block")
		}
	}
	return Result{}, ErrNoFinalText
}

// HandleToolCall passes the call's name and raw arguments to the provider
// and returns its payload. Provider errors are returned unchanged.
func (c *Chat) HandleToolCall(ctx context.Context, call anthropic.ToolUseBlock) (any, error) {
	if c.cfg.Provider == nil {
		return nil, fmt.Errorf("%w: model called %q", ErrNoToolProvider, call.Name)
	}
	c.state = AwaitingToolResult

	input := rawInput(call)
	c.log.Info().
		Str("tool", call.Name).
		Str("tool_use_id", call.ID).
		Int("input_size", len(input)).
		Msg("tool call")

	start := time.Now()
	out, err := c.cfg.Provider.Call(ctx, call.Name, input)

	turnID, _ := telemetry.TurnIDFromContext(ctx)
	fields := map[string]any{
		"turn_id":     turnID,
		"tool_name":   call.Name,
		"duration_ms": time.Since(start).Milliseconds(),
		"input_size":  len(input),
		"output_size": 0,
		"error":       nil,
	}
	if err != nil {
		// Generic string only; tool errors may echo raw arguments.
		fields["error"] = "tool error"
	} else if b, mErr := json.Marshal(out); mErr == nil {
		fields["output_size"] = len(b)
	}
	telemetry.Emit("tool_exec", fields)

	return out, err
}

// AddMessage appends msg to history.
func (c *Chat) AddMessage(msg anthropic.MessageParam) {
	c.history = append(c.history, msg)
}

// Reset clears history.
func (c *Chat) Reset() {
	c.history = nil
	c.state = Idle
}

// History returns a copy of the conversation so far.
func (c *Chat) History() []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, len(c.history))
	copy(out, c.history)
	return out
}

// Len returns the number of messages in history.
func (c *Chat) Len() int { return len(c.history) }

// State reports where the Chat is in its request cycle.
func (c *Chat) State() State { return c.state }

func (c *Chat) emitTurnComplete(turnID string, stopped bool) {
	telemetry.Emit("turn_complete", map[string]any{
		"turn_id":  turnID,
		"stopped":  stopped,
		"messages": len(c.history),
	})
}

// rawInput returns the tool arguments exactly as received.
func rawInput(v anthropic.ToolUseBlock) json.RawMessage {
	if raw := v.JSON.Input.Raw(); raw != "" {
		return json.RawMessage(raw)
	}
	b, err := json.Marshal(v.Input)
	if err != nil || string(b) == "null" {
		return json.RawMessage("{}")
	}
	return b
}
