package domain

import (
	"context"
	"time"
)

// RecorderPort accepts observations without blocking the caller
type RecorderPort interface {
	Record(o Observation)
}

// ReaderPort serves the ledger read endpoints
type ReaderPort interface {
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Summary(ctx context.Context, since, until time.Time) (Summary, error)
}

// Storage is a persistence sink for entries
type Storage interface {
	Insert(ctx context.Context, xs []Entry) error
}

// RecentStore lists the newest entries
type RecentStore interface {
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// SummaryStore aggregates entries over a window
type SummaryStore interface {
	Buckets(ctx context.Context, since, until time.Time) ([]Bucket, error)
}
