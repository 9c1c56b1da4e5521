// Package domain declares the classifier ports
package domain

import (
	"context"

	"moodmeter/internal/core/sentiment"
)

// Classifier is a sentiment backend producing one raw verdict per call
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) (sentiment.Verdict, error)
}

// HandlePort is the process wide classifier as seen by callers
// Ready fails with ErrorCodeUnavailable until the backend has initialized
type HandlePort interface {
	Classifier
	Ready() error
	Ping(ctx context.Context) error
}

// Ports are optional dependencies injected into the classifier module
type Ports struct {
	Backend Classifier // optional; built from config when nil
}
