package telemetry

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Features holds size features of a text without its content.
type Features struct {
	Bytes int `json:"bytes"`
	Runes int `json:"runes"`
	Words int `json:"words"`
	Lines int `json:"lines"`
}

// CountFeatures computes byte, rune, word and line counts for s. Words split
// on Unicode whitespace; lines are 0 for "" and otherwise 1 + count of '\n'.
func CountFeatures(s string) Features {
	f := Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
	}
	if s != "" {
		f.Lines = 1 + strings.Count(s, "\n")
	}
	return f
}

// EmitQueryFeatures records the size of a user query, never its text.
func EmitQueryFeatures(ctx context.Context, query string) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := CountFeatures(query)
	Emit("query_features", map[string]any{
		"turn_id": turnID,
		"query": map[string]any{
			"bytes": f.Bytes,
			"runes": f.Runes,
			"words": f.Words,
			"lines": f.Lines,
		},
	})
}
