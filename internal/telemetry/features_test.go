package telemetry_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petasbytes/go-toolchat/internal/telemetry"
)

func TestCountFeatures_Table(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want telemetry.Features
	}{
		{"Empty", "", telemetry.Features{}},
		{"ASCII", "hello world", telemetry.Features{Bytes: 11, Runes: 11, Words: 2, Lines: 1}},
		{"Multibyte", "h\u00e9ll\u00f6 \u4e16\u754c", telemetry.Features{Bytes: 14, Runes: 8, Words: 2, Lines: 1}},
		{"Multiline_Trailing", "a\nb\n", telemetry.Features{Bytes: 4, Runes: 4, Words: 2, Lines: 3}},
		{"OnlyWhitespace", " \t\n", telemetry.Features{Bytes: 3, Runes: 3, Words: 0, Lines: 2}},
		{"CRLF", "a\r\nb\r\nc", telemetry.Features{Bytes: 7, Runes: 7, Words: 3, Lines: 3}},
		{"EmSpace", "foo\u2003bar", telemetry.Features{Bytes: 9, Runes: 7, Words: 2, Lines: 1}},
		{"ZeroWidthSpace_NoSplit", "foo\u200Bbar", telemetry.Features{Bytes: 9, Runes: 7, Words: 1, Lines: 1}},
		{"Combining_Marks", "e\u0301", telemetry.Features{Bytes: 3, Runes: 2, Words: 1, Lines: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := telemetry.CountFeatures(tc.in); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestEmitQueryFeatures_NoRawText(t *testing.T) {
	dir := observeInTemp(t)
	ctx := telemetry.WithTurnID(context.Background(), "turn-q")
	query := "list the files in this repository"

	telemetry.EmitQueryFeatures(ctx, query)

	b, err := os.ReadFile(filepath.Join(dir, telemetry.EventsFile))
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	if strings.Contains(string(b), query) {
		t.Fatalf("raw query leaked into events.jsonl")
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(b))), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["event"] != "query_features" || m["turn_id"] != "turn-q" {
		t.Fatalf("unexpected event: %#v", m)
	}
	q := m["query"].(map[string]any)
	if q["words"] != float64(6) || q["lines"] != float64(1) {
		t.Fatalf("unexpected features: %#v", q)
	}
}

func TestEmitQueryFeatures_ObserveOff_NoEvent(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(telemetry.EnvObserve, "0")
	t.Setenv(telemetry.EnvArtifactsDir, dir)
	telemetry.Configure(false, "")

	telemetry.EmitQueryFeatures(context.Background(), "whatever")

	if _, err := os.Stat(filepath.Join(dir, telemetry.EventsFile)); !os.IsNotExist(err) {
		t.Fatalf("expected no events.jsonl when observe is off, got err=%v", err)
	}
}
