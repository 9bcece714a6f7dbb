package agent

import (
	"context"

	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/pkg/log"
)

// sanitizeToolCalls makes a client or store supplied history safe to send.
// Well-formed histories come back unchanged. Otherwise:
//   - system turns are dropped, the persona prompt is always first;
//   - tool results that do not answer the assistant turn directly before
//     them are dropped;
//   - tool calls that never got a result are stripped from their assistant
//     turn, and the turn itself is dropped if nothing else is left.
func sanitizeToolCalls(ctx context.Context, msgs []core.Message) []core.Message {
	logger := log.FromCtx(ctx)

	var out []core.Message
	dropped := 0

	for i := 0; i < len(msgs); i++ {
		msg := msgs[i]

		switch {
		case msg.Role == core.RoleSystem:
			dropped++

		case msg.Role == core.RoleTool:
			// reaching here means no assistant turn claimed this result
			dropped++

		case msg.Role == core.RoleAssistant && len(msg.ToolCalls) > 0:
			pending := make(map[string]bool, len(msg.ToolCalls))
			for _, tc := range msg.ToolCalls {
				pending[tc.ID] = true
			}

			var results []core.Message
			answered := make(map[string]bool, len(msg.ToolCalls))
			j := i + 1
			for ; j < len(msgs) && msgs[j].Role == core.RoleTool; j++ {
				id := msgs[j].ToolCallID
				if !pending[id] || answered[id] {
					dropped++
					continue
				}
				answered[id] = true
				results = append(results, msgs[j])
			}
			i = j - 1

			if len(answered) < len(msg.ToolCalls) {
				kept := make([]core.ToolCall, 0, len(answered))
				for _, tc := range msg.ToolCalls {
					if answered[tc.ID] {
						kept = append(kept, tc)
					}
				}
				dropped += len(msg.ToolCalls) - len(kept)

				if len(kept) == 0 {
					msg.ToolCalls = nil
				} else {
					msg.ToolCalls = kept
				}
			}

			if len(msg.ToolCalls) == 0 && msg.Content == "" {
				continue
			}
			out = append(out, msg)
			out = append(out, results...)

		default:
			out = append(out, msg)
		}
	}

	if dropped > 0 {
		logger.Warn().Int("dropped", dropped).Msg("sanitized malformed history")
	}
	return out
}
