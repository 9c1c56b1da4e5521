// Package domain declares the verdict ledger types and ports
package domain

import (
	"time"

	"moodmeter/internal/core/sentiment"

	"github.com/google/uuid"
)

// Winner sources
const (
	WinnerRaw        = "raw"
	WinnerTranslated = "translated"
)

// Observation is what the arbiter hands over after a successful analysis
// Text is hashed before it leaves the process and never stored
type Observation struct {
	Text       string
	Language   string
	Label      sentiment.Label
	Score      float64
	RawLabel   sentiment.Label
	RawScore   float64
	Translated bool
	Winner     string
	Elapsed    time.Duration
	At         time.Time
}

// Entry is one persisted verdict
type Entry struct {
	ID         uuid.UUID `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	TextSHA256 string    `json:"text_sha256"`
	TextLen    int       `json:"text_len"`
	Language   string    `json:"language"`
	Label      string    `json:"label"`
	Score      float64   `json:"score"`
	RawLabel   string    `json:"raw_label"`
	RawScore   float64   `json:"raw_score"`
	Translated bool      `json:"translated"`
	Winner     string    `json:"winner"`
	ElapsedMS  int64     `json:"elapsed_ms"`
}

// Bucket is one label x language count in a summary window
type Bucket struct {
	Language string `json:"language"`
	Label    string `json:"label"`
	Count    uint64 `json:"count"`
}

// Summary is the label x language breakdown since a point in time
type Summary struct {
	Since   time.Time `json:"since"`
	Until   time.Time `json:"until"`
	Total   uint64    `json:"total"`
	Buckets []Bucket  `json:"buckets"`
}
