package retrieval

import (
	"fmt"
	"strings"
)

// DefaultContextBudget is the maximum context length injected into
// generation prompts, in runes.
const DefaultContextBudget = 1800

// BuildContext formats passages into a prompt-ready context block. Each
// passage becomes one "[DOC#n] content" line in descending relevance
// order. Duplicate content is dropped, and the result is truncated at
// whole-line boundaries to stay within budget.
func BuildContext(passages []Passage, budget int) string {
	if budget <= 0 {
		budget = DefaultContextBudget
	}

	seen := make(map[string]bool, len(passages))
	var b strings.Builder
	n := 0
	for _, p := range passages {
		content := strings.TrimSpace(p.Content)
		if content == "" || seen[content] {
			continue
		}
		line := fmt.Sprintf("[DOC#%d] %s", n+1, content)
		if b.Len() > 0 {
			line = "\n" + line
		}
		if len([]rune(b.String()))+len([]rune(line)) > budget {
			break
		}
		seen[content] = true
		b.WriteString(line)
		n++
	}
	return b.String()
}
