// Package domain holds the request and response shapes of the sentiment endpoints
package domain

import (
	arbdom "moodmeter/internal/services/arbiter/domain"
)

// MaxTextRunes is the longest accepted text, keep in step with the max= tags below
const MaxTextRunes = 10000

// AnalyzeInput is the body of both analyze routes
// Language is accepted for compatibility, detection is always automatic
type AnalyzeInput struct {
	Text     string `json:"text"     validate:"required,notblank,max=10000" example:"Esto es terrible"`
	Language string `json:"language" example:"auto"`
}

// BatchInput is the body of the batch route
type BatchInput struct {
	Texts []string `json:"texts" validate:"required,min=1,dive,required,notblank,max=10000"`
}

// BatchOutput keeps one item per input in input order
type BatchOutput struct {
	Items []arbdom.BatchItem `json:"items"`
}

// LegacyMessage is the bare body of GET /
type LegacyMessage struct {
	Message string `json:"message"`
}

// LegacyError is the bare error body of POST /analyze
type LegacyError struct {
	Detail string   `json:"detail"`
	Trace  []string `json:"trace,omitempty"`
}
