// Package sentiment holds the canonical sentiment vocabulary and the pure decision rules
// applied to classifier output: label normalization, the translation confidence gate and
// the emoji mapping
package sentiment

import "strings"

// Label is the canonical sentiment class used everywhere past the normalization boundary
type Label string

const (
	// Positive sentiment
	Positive Label = "positive"
	// Negative sentiment
	Negative Label = "negative"
	// Neutral sentiment, also the fallback for unknown tokens
	Neutral Label = "neutral"
)

// Valid reports whether l is one of the three canonical labels
func (l Label) Valid() bool {
	switch l {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

func (l Label) String() string { return string(l) }

// tokens maps lower-cased raw classifier tokens to canonical labels
// covers index encodings (label_0..2), literal names, short VADER keys and star ratings
var tokens = map[string]Label{
	"label_0":  Negative,
	"negative": Negative,
	"neg":      Negative,
	"1 star":   Negative,
	"2 stars":  Negative,

	"label_1": Neutral,
	"neutral": Neutral,
	"neu":     Neutral,
	"3 stars": Neutral,

	"label_2":  Positive,
	"positive": Positive,
	"pos":      Positive,
	"4 stars":  Positive,
	"5 stars":  Positive,
}

// Normalize maps a raw classifier token to a canonical label
// lookup is case-insensitive; anything unrecognized is Neutral
func Normalize(raw string) Label {
	if l, ok := tokens[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return l
	}
	return Neutral
}

// Emoji returns the display emoji for a label
func Emoji(l Label) string {
	switch l {
	case Positive:
		return "😊"
	case Negative:
		return "😠"
	default:
		return "😐"
	}
}
