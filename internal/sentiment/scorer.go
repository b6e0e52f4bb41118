package sentiment

import (
	"github.com/jonreiter/govader"
)

// neutralScore is assigned to posts with no text at all
const neutralScore = 50

// Scorer maps text polarity onto the 0-100 scale stored in the sentiment
// columns: 0 is most negative, 100 most positive.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer creates a scorer backed by the VADER lexicon
func NewScorer() *Scorer {
	return &Scorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Score returns the sentiment of text in [0, 100]. Empty text is neutral.
// The underlying compound polarity lives in [-1, 1] and maps linearly.
func (s *Scorer) Score(text string) int {
	if text == "" {
		return neutralScore
	}

	compound := s.analyzer.PolarityScores(text).Compound
	score := int((compound + 1) * 50)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
