// Package domain declares the translation ports and outcome type
package domain

import "context"

// Translator is an external translation collaborator
// it offers no latency guarantee, callers enforce their own deadline
type Translator interface {
	Name() string
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// InvokerPort translates text to English and never fails, degradation is reported in the Outcome
type InvokerPort interface {
	Translate(ctx context.Context, text string) Outcome
}

// Ports are optional dependencies injected into the translation module
type Ports struct {
	Backend Translator // optional; built from config when nil
}
