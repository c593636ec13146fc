package newsapi

import (
	"strings"

	"github.com/growtheory/reportcard/internal/domain/signals"
)

var (
	layoffKeywords   = []string{"layoff", "layoffs", "job cuts", "workforce reduction", "firing", "restructuring"}
	hiringKeywords   = []string{"hiring", "expansion", "growth", "new roles", "recruiting"}
	negativeKeywords = []string{"decline", "loss", "lawsuit", "scandal", "investigation", "crisis"}
	positiveKeywords = []string{"growth", "profit", "expansion", "partnership", "innovation", "award"}
)

// ScoreHeadlines runs the keyword heuristic over headline text. A headline
// counts once per category it matches; overall sentiment needs a 1.5x
// dominance either way, otherwise it is neutral.
func ScoreHeadlines(headlines []signals.Headline) *signals.NewsSentiment {
	var layoffs, hiring, negative, positive int
	for _, h := range headlines {
		text := strings.ToLower(h.Title + " " + h.Description)
		if containsAny(text, layoffKeywords) {
			layoffs++
			negative++
		}
		if containsAny(text, hiringKeywords) {
			hiring++
			positive++
		}
		if containsAny(text, negativeKeywords) {
			negative++
		}
		if containsAny(text, positiveKeywords) {
			positive++
		}
	}

	overall := "neutral"
	if float64(positive) > float64(negative)*1.5 {
		overall = "positive"
	} else if float64(negative) > float64(positive)*1.5 {
		overall = "negative"
	}

	return &signals.NewsSentiment{
		Overall:          overall,
		LayoffIndicators: layoffs > 0,
		HiringIndicators: hiring > 0,
		PositiveSignals:  positive,
		NegativeSignals:  negative,
		LayoffMentions:   layoffs,
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
