package domain

import (
	"moodmeter/internal/core/sentiment"
	perr "moodmeter/internal/platform/errors"
)

// TranslatedDetail is the top translated entry plus the text it was computed on
type TranslatedDetail struct {
	Label sentiment.Label `json:"label"`
	Score float64         `json:"score"`
	Text  string          `json:"text"`
}

// Comparison is the audit trail of both classification attempts
// Translated is present only when a second classification ran
type Comparison struct {
	Raw        sentiment.Detail  `json:"raw"`
	Translated *TranslatedDetail `json:"translated,omitempty"`
}

// Result is one analysis, built fresh per request
type Result struct {
	Label        sentiment.Label    `json:"label"`
	Score        float64            `json:"score"`
	Emoji        string             `json:"emoji"`
	Details      []sentiment.Detail `json:"details"`
	Language     string             `json:"language"`
	LanguageName string             `json:"language_name"`
	Translation  *string            `json:"translation"`
	Comparison   Comparison         `json:"comparison_details"`
}

// BatchItem holds either a result or the error for one batch input
type BatchItem struct {
	Index  int        `json:"index"`
	Result *Result    `json:"result,omitempty"`
	Error  *perr.Wire `json:"error,omitempty"`
}
