// Package vader is an in-process lexicon classifier built on govader
package vader

import (
	"context"
	"sync"

	"moodmeter/internal/core/sentiment"

	"github.com/jonreiter/govader"
)

// Classifier emits neg/neu/pos proportions for English text
// calls are serialized behind a mutex
type Classifier struct {
	mu sync.Mutex
	a  *govader.SentimentIntensityAnalyzer
}

// New loads the embedded lexicon
func New() *Classifier {
	return &Classifier{a: govader.NewSentimentIntensityAnalyzer()}
}

// Name identifies the backend in logs and metrics
func (c *Classifier) Name() string { return "vader" }

// Classify scores text, ctx is only checked before the call since scoring is CPU bound and short
func (c *Classifier) Classify(ctx context.Context, text string) (sentiment.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	s := c.a.PolarityScores(text)
	c.mu.Unlock()

	return sentiment.Verdict{
		{Token: "neg", Score: clamp(s.Negative)},
		{Token: "neu", Score: clamp(s.Neutral)},
		{Token: "pos", Score: clamp(s.Positive)},
	}, nil
}

func clamp(f float64) float64 { return min(max(f, 0), 1) }
