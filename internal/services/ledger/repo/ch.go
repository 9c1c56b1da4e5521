package repo

import (
	"context"
	"fmt"
	"time"

	"moodmeter/internal/modkit/repokit"
	"moodmeter/internal/services/ledger/domain"
)

// CHTable is the append-only event table behind the summary endpoint
const CHTable = "sentiment_verdict_events"

// CH is the ClickHouse side of the ledger
type CH struct {
	ch repokit.Clickhouse
}

// NewCH constructs the ClickHouse repo, ch must not be nil
func NewCH(ch repokit.Clickhouse) *CH {
	if ch == nil {
		panic("ledger repo: nil clickhouse")
	}
	return &CH{ch: ch}
}

// EnsureSchema creates the event table when missing
func (s *CH) EnsureSchema(ctx context.Context) error {
	err := s.ch.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+CHTable+` (
			id          UUID,
			created_at  DateTime64(3, 'UTC'),
			text_sha256 String,
			text_len    UInt32,
			language    LowCardinality(String),
			label       LowCardinality(String),
			score       Float64,
			raw_label   LowCardinality(String),
			raw_score   Float64,
			translated  Bool,
			winner      LowCardinality(String),
			elapsed_ms  UInt64
		)
		ENGINE = MergeTree
		PARTITION BY toYYYYMM(created_at)
		ORDER BY (created_at, id)`)
	if err != nil {
		return fmt.Errorf("ensure %s: %w", CHTable, err)
	}
	return nil
}

// Insert implements domain.Storage
// column order matches the table definition
func (s *CH) Insert(ctx context.Context, xs []domain.Entry) error {
	if len(xs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(xs))
	for _, e := range xs {
		rows = append(rows, []any{
			e.ID, e.CreatedAt.UTC(), e.TextSHA256, uint32(max(e.TextLen, 0)),
			e.Language, e.Label, e.Score, e.RawLabel, e.RawScore,
			e.Translated, e.Winner, uint64(max(e.ElapsedMS, 0)),
		})
	}
	return s.ch.Insert(ctx, CHTable, rows)
}

// Buckets implements domain.SummaryStore
func (s *CH) Buckets(ctx context.Context, since, until time.Time) ([]domain.Bucket, error) {
	rows, err := s.ch.Query(ctx, `
		SELECT language, label, toUInt64(count()) AS n
		FROM `+CHTable+`
		WHERE created_at >= ? AND created_at < ?
		GROUP BY language, label
		ORDER BY n DESC, language, label`, since.UTC(), until.UTC())
	if err != nil {
		return nil, err
	}
	return repokit.CollectRows(rows, func(r repokit.Row) (domain.Bucket, error) {
		var b domain.Bucket
		err := r.Scan(&b.Language, &b.Label, &b.Count)
		return b, err
	})
}
