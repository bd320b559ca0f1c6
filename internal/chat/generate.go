package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/go-toolchat/internal/telemetry"
	"github.com/petasbytes/go-toolchat/internal/transcript"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// generate sends the full history and returns the model's response. It
// tries RetryAttempts times in total with a constant RetryBackoff between
// attempts. History is left untouched on failure.
func (c *Chat) generate(ctx context.Context, log zerolog.Logger) (*anthropic.Message, error) {
	c.state = AwaitingResponse

	params := anthropic.MessageNewParams{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages:  c.history,
	}
	if len(c.toolParams) > 0 {
		params.Tools = c.toolParams
	}
	if c.cfg.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: c.cfg.System}}
	}

	var (
		msg     *anthropic.Message
		attempt int
		start   = time.Now()
	)
	backoff := retry.WithMaxRetries(uint64(c.cfg.RetryAttempts-1), retry.NewConstant(c.cfg.RetryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		m, err := c.client.New(ctx, params)
		if err != nil {
			log.Warn().Err(err).
				Int("attempt", attempt).
				Int("max_attempts", c.cfg.RetryAttempts).
				Msg("generation failed")
			return retry.RetryableError(err)
		}
		msg = m
		return nil
	})

	c.emitGenerationRequest(ctx, attempt, time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("%w after %d attempt(s): %w", ErrGenerationUnavailable, attempt, err)
	}
	log.Debug().
		Int("attempt", attempt).
		Int("blocks", len(msg.Content)).
		Str("stop_reason", string(msg.StopReason)).
		Msg("generation ok")
	return msg, nil
}

func (c *Chat) emitGenerationRequest(ctx context.Context, attempts int, elapsed time.Duration, err error) {
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	fields := map[string]any{
		"turn_id":          turnID,
		"model":            string(c.cfg.Model),
		"messages":         len(c.history),
		"estimated_tokens": transcript.HeuristicCounter{}.CountMessages(c.history),
		"unpaired_groups":  len(transcript.Unpaired(c.history)),
		"tools":            len(c.toolParams),
		"attempts":         attempts,
		"duration_ms":      elapsed.Milliseconds(),
		"error":            nil,
	}
	if err != nil {
		fields["error"] = "generation unavailable"
	}
	telemetry.Emit("generation_request", fields)
}
