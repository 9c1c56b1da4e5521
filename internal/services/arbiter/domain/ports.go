// Package domain declares the arbiter ports and result types
package domain

import (
	"context"

	"moodmeter/internal/core/langhint"
	classdom "moodmeter/internal/services/classifier/domain"
	ledgerdom "moodmeter/internal/services/ledger/domain"
	transdom "moodmeter/internal/services/translation/domain"
)

// AnalyzerPort is the external port of the arbiter
type AnalyzerPort interface {
	Analyze(ctx context.Context, text string) (Result, error)
	AnalyzeBatch(ctx context.Context, texts []string) ([]BatchItem, error)
}

// LanguageDetector is the best-effort language collaborator
type LanguageDetector interface {
	Detect(text string) (langhint.Language, error)
}

// Ports are dependencies injected into the arbiter module
type Ports struct {
	Classifier classdom.HandlePort    // required
	Translator transdom.InvokerPort   // required
	Detector   LanguageDetector       // optional; built from config when nil
	Ledger     ledgerdom.RecorderPort // optional
}
