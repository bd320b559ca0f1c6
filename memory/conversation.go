package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// Message is the persisted view of a chat turn. Only text survives;
// tool_use and tool_result blocks are transient.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text,omitempty"`
}

// LoadConversation reads a transcript. A missing file yields nil, nil.
func LoadConversation(path string) ([]Message, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return msgs, nil
}

// SaveConversation writes msgs to path, creating the parent directory.
func SaveConversation(path string, msgs []Message) error {
	b, err := json.MarshalIndent(msgs, "", " ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0o644)
}

// ToParams rebuilds SDK messages from a transcript. Messages with any role
// other than "assistant" are treated as user turns; empty texts are dropped.
func ToParams(msgs []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		if m.Role == string(anthropic.MessageParamRoleAssistant) {
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		} else {
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		}
	}
	return out
}

// FromParams keeps the text of each message, joining multiple text blocks
// with newlines. Messages carrying only tool blocks are skipped.
func FromParams(history []anthropic.MessageParam) []Message {
	out := make([]Message, 0, len(history))
	for _, m := range history {
		var parts []string
		for _, blk := range m.Content {
			if blk.OfText != nil && blk.OfText.Text != "" {
				parts = append(parts, blk.OfText.Text)
			}
		}
		if len(parts) == 0 {
			continue
		}
		out = append(out, Message{Role: string(m.Role), Text: strings.Join(parts, "\n")})
	}
	return out
}
