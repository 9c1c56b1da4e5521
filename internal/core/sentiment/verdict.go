package sentiment

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrEmptyVerdict is returned when a classifier produced no entries
var ErrEmptyVerdict = errors.New("sentiment: empty verdict")

// Score is one raw (token, score) pair produced by a classifier
type Score struct {
	Token string  `json:"label"`
	Score float64 `json:"score"`
}

// Verdict is the full set of pairs from one classification call
type Verdict []Score

// Detail is a normalized verdict entry
type Detail struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}

// Validate checks that v is non-empty and every score is a finite value in [0,1]
func (v Verdict) Validate() error {
	if len(v) == 0 {
		return ErrEmptyVerdict
	}
	for _, s := range v {
		if math.IsNaN(s.Score) || s.Score < 0 || s.Score > 1 {
			return fmt.Errorf("sentiment: score %v for %q out of range", s.Score, s.Token)
		}
	}
	return nil
}

// Sorted returns a copy of v ordered by descending score
// equal scores keep the classifier's original order
func (v Verdict) Sorted() Verdict {
	out := make(Verdict, len(v))
	copy(out, v)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Top returns the highest scoring entry of a sorted verdict
func (v Verdict) Top() (Score, bool) {
	if len(v) == 0 {
		return Score{}, false
	}
	return v[0], true
}

// Details normalizes every entry, preserving order
func (v Verdict) Details() []Detail {
	out := make([]Detail, 0, len(v))
	for _, s := range v {
		out = append(out, s.Detail())
	}
	return out
}

// Detail normalizes a single entry
func (s Score) Detail() Detail {
	return Detail{Label: Normalize(s.Token), Score: s.Score}
}
