package transcript

import (
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
)

// HeuristicCounter estimates input size deterministically:
//   - text blocks: rune count of the text
//   - tool_result blocks: rune count of nested text blocks
//   - every block adds a fixed overhead (tool_use and others count overhead only)
type HeuristicCounter struct{}

const blockOverhead = 4

func (HeuristicCounter) CountMessage(m anthropic.MessageParam) int {
	total := 0
	for _, blk := range m.Content {
		total += countBlock(blk)
	}
	return total
}

func (h HeuristicCounter) CountGroup(g Group, all []anthropic.MessageParam) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountMessage(all[i])
	}
	return total
}

// CountMessages sums CountMessage over msgs.
func (h HeuristicCounter) CountMessages(msgs []anthropic.MessageParam) int {
	total := 0
	for _, m := range msgs {
		total += h.CountMessage(m)
	}
	return total
}

func countBlock(blk anthropic.ContentBlockParamUnion) int {
	if tb := blk.OfText; tb != nil {
		return utf8.RuneCountInString(tb.Text) + blockOverhead
	}
	if tr := blk.OfToolResult; tr != nil {
		n := 0
		for _, c := range tr.Content {
			if ct := c.OfText; ct != nil {
				n += utf8.RuneCountInString(ct.Text)
			}
		}
		return n + blockOverhead
	}
	return blockOverhead
}
