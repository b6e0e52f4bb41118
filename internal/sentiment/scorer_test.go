package sentiment

import (
	"testing"
)

func TestScoreEmptyTextIsNeutral(t *testing.T) {
	scorer := NewScorer()

	if got := scorer.Score(""); got != 50 {
		t.Errorf("Score(\"\") = %d, want 50", got)
	}
}

func TestScorePolarity(t *testing.T) {
	scorer := NewScorer()

	positive := scorer.Score("I love this, it is wonderful and amazing!")
	negative := scorer.Score("I hate this, it is terrible and awful.")
	neutral := scorer.Score("The meeting is on Tuesday.")

	if positive <= neutral {
		t.Errorf("positive text scored %d, expected above neutral %d", positive, neutral)
	}
	if negative >= neutral {
		t.Errorf("negative text scored %d, expected below neutral %d", negative, neutral)
	}
}

func TestScoreStaysInBounds(t *testing.T) {
	scorer := NewScorer()

	texts := []string{
		"best best best great great amazing wonderful love love love!!!",
		"worst worst horrible horrible hate hate hate terrible!!!",
		"plain text with no sentiment words",
		"",
	}
	for _, text := range texts {
		got := scorer.Score(text)
		if got < 0 || got > 100 {
			t.Errorf("Score(%q) = %d, out of [0,100]", text, got)
		}
	}
}
