package compact

import (
	"github.com/contextkit/contextkit/tokenizer"
	"github.com/contextkit/contextkit/types"
)

// ContentSplitter shrinks a single message's content toward a token target
// without breaking structural rules: string content is cut to the longest
// fitting prefix on a rune boundary, multipart content keeps non-text parts
// verbatim and trims text parts.
type ContentSplitter struct {
	counter tokenizer.Counter
}

// NewContentSplitter creates a splitter accounting with counter.
func NewContentSplitter(counter tokenizer.Counter) *ContentSplitter {
	return &ContentSplitter{counter: counter}
}

// Fit returns a copy of msg whose accounted cost, including the fixed
// per-message overhead, is at most budget, as long as the overhead alone
// fits. When even empty content would exceed budget, Fit bottoms out at
// empty content rather than failing; the caller is expected to drop such a
// message instead of calling Fit. The input message is never modified.
func (s *ContentSplitter) Fit(msg types.Message, budget int) types.Message {
	if tokenizer.MessageTokens(s.counter, msg) <= budget {
		return msg
	}

	out := msg.Clone()
	target := budget - s.overhead(msg)
	if target < 0 {
		target = 0
	}

	if out.IsMultimodal() {
		out.MultiContent = s.fitParts(out.MultiContent, target)
	} else {
		out.Content = s.fitText(out.Content, target)
	}
	return out
}

// overhead is the accounted cost of the message with its content removed:
// per-message overhead plus role, tool-call, and tool-call-id costs.
func (s *ContentSplitter) overhead(msg types.Message) int {
	stripped := msg
	stripped.Content = ""
	stripped.MultiContent = nil
	return tokenizer.MessageTokens(s.counter, stripped)
}

// fitText returns the longest prefix of text whose cost is at most target,
// cutting only on rune boundaries. The search is a monotonic binary search
// over prefix lengths, so it converges to the largest fitting prefix
// regardless of how unevenly the tokenizer segments the text.
func (s *ContentSplitter) fitText(text string, target int) string {
	if target <= 0 {
		return ""
	}
	if s.counter.Count(text) <= target {
		return text
	}

	runes := []rune(text)
	lo, hi := 0, len(runes) // prefix of lo fits, prefix of hi does not
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if s.counter.Count(string(runes[:mid])) <= target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return string(runes[:lo])
}

// fitParts trims multipart content to target tokens. Non-text parts are
// never shrunk or dropped. Text parts are removed most-recent-first while
// the content is over target; the last surviving text part is then
// prefix-shrunk into whatever budget remains.
func (s *ContentSplitter) fitParts(parts []types.ContentPart, target int) []types.ContentPart {
	remaining := target
	textCost := 0
	var textIdx []int
	for i, p := range parts {
		if p.IsText() {
			textIdx = append(textIdx, i)
			textCost += s.counter.Count(p.Text)
		} else {
			remaining -= tokenizer.PartTokens(s.counter, p)
		}
	}

	drop := make(map[int]bool)
	for len(textIdx) > 1 && textCost > remaining {
		last := textIdx[len(textIdx)-1]
		textCost -= s.counter.Count(parts[last].Text)
		drop[last] = true
		textIdx = textIdx[:len(textIdx)-1]
	}

	// The one surviving text part absorbs whatever budget is left.
	shrinkIdx := -1
	if len(textIdx) == 1 && textCost > remaining {
		shrinkIdx = textIdx[0]
	}

	out := make([]types.ContentPart, 0, len(parts))
	for i, p := range parts {
		switch {
		case drop[i]:
		case i == shrinkIdx:
			otherText := textCost - s.counter.Count(p.Text)
			shrunk := s.fitText(p.Text, remaining-otherText)
			if shrunk != "" {
				out = append(out, types.TextPart(shrunk))
			}
		default:
			out = append(out, p)
		}
	}
	return out
}

// shrinkable reports whether a message's content can be reduced by the
// splitter: it must carry text and must not be a tool-call message, which
// is atomic.
func shrinkable(m types.Message) bool {
	if m.HasToolCalls() {
		return false
	}
	if m.IsMultimodal() {
		for _, p := range m.MultiContent {
			if p.IsText() && p.Text != "" {
				return true
			}
		}
		return false
	}
	return m.Content != ""
}

// hasContent reports whether a message still carries any content worth
// keeping after shrinking.
func hasContent(m types.Message) bool {
	if m.HasToolCalls() {
		return true
	}
	if m.IsMultimodal() {
		return len(m.MultiContent) > 0
	}
	return m.Content != ""
}
