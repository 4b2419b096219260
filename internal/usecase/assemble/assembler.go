package assemble

import (
	"math"
	"strings"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
)

const (
	// DefaultMaxContext bounds how many documents feed the prompt.
	DefaultMaxContext = 5
	// snippetRunes caps each document snippet. Counted in runes, not bytes,
	// since the corpus is Japanese text.
	snippetRunes = 500
)

// Assemble turns ranked candidates into a prompt context block and the
// citation list returned to the caller. Pure.
func Assemble(ranked []domain.RankedCandidate, maxContext int) (string, []domain.SourceInfo) {
	if maxContext <= 0 {
		maxContext = DefaultMaxContext
	}
	if len(ranked) > maxContext {
		ranked = ranked[:maxContext]
	}

	blocks := make([]string, 0, len(ranked))
	sources := make([]domain.SourceInfo, 0, len(ranked))

	for _, rc := range ranked {
		snippet := truncateRunes(rc.Document.Content, snippetRunes)

		blocks = append(blocks, "【"+rc.Document.Title+"】\n"+snippet)
		sources = append(sources, domain.SourceInfo{
			Title:         rc.Document.Title,
			Type:          string(rc.Document.Category),
			Content:       snippet,
			LocationScore: round3(rc.CombinedScore),
		})
	}

	return strings.Join(blocks, "\n\n"), sources
}

// truncateRunes cuts s after n runes, never splitting a multi-byte character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
