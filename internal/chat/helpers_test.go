package chat_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/petasbytes/go-toolchat/internal/chat"
	"github.com/petasbytes/go-toolchat/internal/telemetry"
	"github.com/stretchr/testify/require"
)

type scriptedResponse struct {
	status int
	body   string
}

// scriptedTransport replays responses in order and keeps every request body.
// Once the script runs out the last response repeats.
type scriptedTransport struct {
	mu        sync.Mutex
	responses []scriptedResponse
	requests  [][]byte
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	b, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()

	s.mu.Lock()
	idx := len(s.requests)
	s.requests = append(s.requests, b)
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	r := s.responses[idx]
	s.mu.Unlock()

	resp := &http.Response{
		StatusCode: r.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(r.body))),
		Header:     make(http.Header),
		Request:    req,
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func (s *scriptedTransport) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *scriptedTransport) request(t *testing.T, i int) sentRequest {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.Less(t, i, len(s.requests), "request %d was never sent", i)
	var r sentRequest
	require.NoError(t, json.Unmarshal(s.requests[i], &r), "body=%s", s.requests[i])
	return r
}

func script(responses ...scriptedResponse) *scriptedTransport {
	return &scriptedTransport{responses: responses}
}

func reply(blocks ...string) scriptedResponse {
	content := "[" + join(blocks) + "]"
	return scriptedResponse{status: 200, body: `{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-opus-20240229","stop_reason":"end_turn","content":` + content + `}`}
}

func failure(status int) scriptedResponse {
	return scriptedResponse{status: status, body: `{"type":"error","error":{"type":"api_error","message":"boom"}}`}
}

func textBlock(text string) string {
	b, _ := json.Marshal(map[string]any{"type": "text", "text": text})
	return string(b)
}

func toolUseBlock(id, name, input string) string {
	return `{"type":"tool_use","id":"` + id + `","name":"` + name + `","input":` + input + `}`
}

func join(parts []string) string {
	var buf bytes.Buffer
	for i, p := range parts {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(p)
	}
	return buf.String()
}

type sentContent struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content,omitempty"`
}

type sentRequest struct {
	Model     string `json:"model"`
	MaxTokens int64  `json:"max_tokens"`
	System    []struct {
		Text string `json:"text"`
	} `json:"system"`
	Tools []struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		InputSchema map[string]any `json:"input_schema"`
	} `json:"tools"`
	Messages []struct {
		Role    string        `json:"role"`
		Content []sentContent `json:"content"`
	} `json:"messages"`
}

func newClientWithTransport(rt http.RoundTripper) *anthropic.Client {
	c := anthropic.NewClient(
		option.WithHTTPClient(&http.Client{Transport: rt}),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	return &c
}

func newChat(t *testing.T, rt http.RoundTripper, cfg chat.Config) *chat.Chat {
	t.Helper()
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = time.Millisecond
	}
	cli := newClientWithTransport(rt)
	c, err := chat.New(&cli.Messages, cfg)
	require.NoError(t, err)
	return c
}

type providerCall struct {
	name  string
	input string
}

// recordingProvider answers every call with out/err and records what it saw.
type recordingProvider struct {
	out   any
	err   error
	calls []providerCall
}

func (p *recordingProvider) Call(_ context.Context, name string, input json.RawMessage) (any, error) {
	p.calls = append(p.calls, providerCall{name: name, input: string(input)})
	return p.out, p.err
}

// observeInTemp turns on JSONL events in a fresh directory.
func observeInTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(telemetry.EnvObserve, "1")
	t.Setenv(telemetry.EnvArtifactsDir, dir)
	return dir
}

func readEvents(t *testing.T, dir string) []map[string]any {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, telemetry.EventsFile))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	defer f.Close()

	var out []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	require.NoError(t, sc.Err())
	return out
}

func eventsNamed(events []map[string]any, name string) []map[string]any {
	var out []map[string]any
	for _, e := range events {
		if e["event"] == name {
			out = append(out, e)
		}
	}
	return out
}
