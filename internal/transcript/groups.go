package transcript

import (
	"github.com/anthropics/anthropic-sdk-go"
)

// GroupKind denotes the atomic unit type of a history span.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

// Reasons a tool_use message did not form a pair.
const (
	ReasonNotFollowedByUser = "not_followed_by_user"
	ReasonOrderingInvalid   = "ordering_invalid"
	ReasonMissingResults    = "missing_results"
	ReasonExtraResults      = "extra_results"
)

// Group describes a contiguous span of messages [Start, End).
// Reason is set on a singleton assistant message whose tool_use blocks
// could not be paired.
type Group struct {
	Kind   GroupKind
	Start  int
	End    int
	Reason string
}

// GroupBlocks groups messages into units that keep tool-use pairs together.
// Rules:
//   - A pair is exactly two adjacent messages: assistant(tool_use+...) then user(tool_result...).
//   - In the user message all tool_result blocks come first; trailing text is allowed.
//   - Every tool_use id must have a result and no result may be unmatched.
//   - is_error results pair the same as successful ones.
func GroupBlocks(msgs []anthropic.MessageParam) []Group {
	groups := make([]Group, 0, len(msgs))
	for i := 0; i < len(msgs); {
		useIDs := toolUseIDs(msgs[i])
		if !isAssistant(msgs[i]) || len(useIDs) == 0 {
			groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
			i++
			continue
		}

		reason := pairReason(msgs, i, useIDs)
		if reason == "" {
			groups = append(groups, Group{Kind: GroupPair, Start: i, End: i + 2})
			i += 2
			continue
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1, Reason: reason})
		i++
	}
	return groups
}

// Unpaired returns the groups holding a tool_use that lacks its result.
func Unpaired(msgs []anthropic.MessageParam) []Group {
	var out []Group
	for _, g := range GroupBlocks(msgs) {
		if g.Reason != "" {
			out = append(out, g)
		}
	}
	return out
}

// pairReason returns "" when msgs[i] and msgs[i+1] form a valid pair.
func pairReason(msgs []anthropic.MessageParam, i int, useIDs map[string]struct{}) string {
	if i+1 >= len(msgs) || !isUser(msgs[i+1]) {
		return ReasonNotFollowedByUser
	}
	resultIDs, ok := leadingToolResultIDs(msgs[i+1])
	switch {
	case !ok:
		return ReasonOrderingInvalid
	case !subset(useIDs, resultIDs):
		return ReasonMissingResults
	case !subset(resultIDs, useIDs):
		return ReasonExtraResults
	}
	return ""
}

func isAssistant(m anthropic.MessageParam) bool {
	return m.Role == anthropic.MessageParamRoleAssistant
}

func isUser(m anthropic.MessageParam) bool {
	return m.Role == anthropic.MessageParamRoleUser
}

func toolUseIDs(m anthropic.MessageParam) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, blk := range m.Content {
		if tu := blk.OfToolUse; tu != nil && tu.ID != "" {
			ids[tu.ID] = struct{}{}
		}
	}
	return ids
}

// leadingToolResultIDs collects the ids of the leading tool_result segment.
// ok is false when a tool_result appears after any other block.
func leadingToolResultIDs(m anthropic.MessageParam) (ids map[string]struct{}, ok bool) {
	ids = make(map[string]struct{})
	seenOther := false
	for _, blk := range m.Content {
		tr := blk.OfToolResult
		if tr == nil {
			seenOther = true
			continue
		}
		if seenOther {
			return ids, false
		}
		if tr.ToolUseID != "" {
			ids[tr.ToolUseID] = struct{}{}
		}
	}
	return ids, true
}

// subset reports whether every id in a is present in b.
func subset(a, b map[string]struct{}) bool {
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
