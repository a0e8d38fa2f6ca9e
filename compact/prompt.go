package compact

import (
	"fmt"
	"strings"

	"github.com/contextkit/contextkit/types"
)

// SummaryMarker prefixes the content of every synthetic summary message,
// identifying it as generated rather than authored by the user.
const SummaryMarker = "[Conversation summary]"

// SummarizationSystemPrompt is the system prompt Summarizer implementations
// are expected to pair with the prompt built by BuildSummaryPrompt. It
// instructs the model to preserve the information needed to continue the
// conversation.
const SummarizationSystemPrompt = `You are a conversation summarizer. Your task is to condense the earlier part of a conversation into a compact summary that will replace those messages while preserving everything needed to continue.

Capture, in order:

1. **Intent** — what the user is trying to accomplish, with any stated constraints.
2. **Established facts** — decisions made, information provided, results of tool calls.
3. **Open threads** — questions asked but not answered, tasks started but not finished.
4. **Current state** — where the conversation left off and what should happen next.

Guidelines:

- Be concise but complete; preserve specific names, values, and error messages.
- Maintain chronological order within each section.
- Preserve exact user quotes when they convey important intent.
- Do not add information that was not in the conversation.`

// BuildSummaryPrompt creates the summarization prompt for a rendered
// conversation transcript.
func BuildSummaryPrompt(transcript string) string {
	return `Summarize the following conversation according to your instructions.

<conversation>
` + transcript + `
</conversation>

Produce a summary that allows the conversation to continue with full context.`
}

// maxRenderedToolResult bounds how much of a tool result is carried into
// the transcript; anything longer adds noise, not context.
const maxRenderedToolResult = 500

// RenderTranscript renders messages as a linear text transcript suitable
// for summarization.
func RenderTranscript(messages []types.Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(roleLabel(m.Role))
		b.WriteString(":\n")
		b.WriteString(renderMessage(m))
	}
	return b.String()
}

func roleLabel(role string) string {
	switch role {
	case types.RoleAssistant:
		return "Assistant"
	case types.RoleSystem, types.RoleDeveloper:
		return "System"
	case types.RoleTool:
		return "Tool"
	default:
		return "User"
	}
}

// renderMessage extracts readable text from a message: its text content,
// tool invocations with their arguments, and abbreviated tool results.
func renderMessage(m types.Message) string {
	var parts []string

	if m.IsMultimodal() {
		for _, p := range m.MultiContent {
			if p.IsText() {
				if p.Text != "" {
					parts = append(parts, p.Text)
				}
			} else {
				parts = append(parts, fmt.Sprintf("[%s content]", p.Type))
			}
		}
	} else if m.Content != "" {
		text := m.Content
		if m.Role == types.RoleTool && len(text) > maxRenderedToolResult {
			text = text[:maxRenderedToolResult-3] + "..."
		}
		if m.Role == types.RoleTool {
			text = fmt.Sprintf("[Result for %s: %s]", m.ToolCallID, text)
		}
		parts = append(parts, text)
	}

	for _, tc := range m.ToolCalls {
		parts = append(parts, fmt.Sprintf("[Tool call %s: %s(%s)]", tc.ID, tc.Function.Name, tc.Function.Arguments))
	}

	return strings.Join(parts, "\n")
}
