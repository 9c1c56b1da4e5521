// Package repo provides the ledger repository implementations
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"moodmeter/internal/modkit/repokit"
	"moodmeter/internal/services/ledger/domain"

	"github.com/google/uuid"
)

// PGTable holds one row per verdict
const PGTable = "sentiment_verdicts"

const pgCols = 12

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// PGStorage is the Postgres side of the ledger
type PGStorage interface {
	domain.Storage
	domain.RecentStore
	domain.SummaryStore
	EnsureSchema(ctx context.Context) error
}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[PGStorage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) PGStorage { return &pg{q: q} }

// EnsureSchema creates the table and index when missing
func (s *pg) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + PGTable + ` (
			id          uuid PRIMARY KEY,
			created_at  timestamptz NOT NULL,
			text_sha256 text NOT NULL,
			text_len    integer NOT NULL,
			language    text NOT NULL,
			label       text NOT NULL,
			score       double precision NOT NULL,
			raw_label   text NOT NULL,
			raw_score   double precision NOT NULL,
			translated  boolean NOT NULL,
			winner      text NOT NULL,
			elapsed_ms  bigint NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ` + PGTable + `_created_at_idx ON ` + PGTable + ` (created_at DESC)`,
	}
	apply := func(q repokit.Queryer) error {
		for _, stmt := range stmts {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ensure %s: %w", PGTable, err)
			}
		}
		return nil
	}
	// table and index land together when the binding can open a transaction
	if tx, ok := s.q.(repokit.TxRunner); ok {
		return repokit.WithTx(ctx, tx, apply)
	}
	return apply(s.q)
}

// Insert implements domain.Storage
func (s *pg) Insert(ctx context.Context, xs []domain.Entry) error {
	if len(xs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO ` + PGTable + `
		(id, created_at, text_sha256, text_len, language, label, score,
		raw_label, raw_score, translated, winner, elapsed_ms) VALUES `)

	args := make([]any, 0, len(xs)*pgCols)
	for i, e := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*pgCols + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5,
			base+6, base+7, base+8, base+9, base+10, base+11)

		args = append(args,
			e.ID.String(), e.CreatedAt.UTC(), e.TextSHA256, e.TextLen, e.Language, e.Label, e.Score,
			e.RawLabel, e.RawScore, e.Translated, e.Winner, e.ElapsedMS,
		)
	}
	// ids are random, a replayed batch is a no-op
	sb.WriteString(` ON CONFLICT (id) DO NOTHING`)
	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}

// Recent implements domain.RecentStore
func (s *pg) Recent(ctx context.Context, limit int) ([]domain.Entry, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id::text, created_at, text_sha256, text_len, language, label, score,
			raw_label, raw_score, translated, winner, elapsed_ms
		FROM `+PGTable+`
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return repokit.CollectRows(rows, scanEntry)
}

func scanEntry(r repokit.Row) (domain.Entry, error) {
	var (
		e  domain.Entry
		id string
	)
	if err := r.Scan(
		&id, &e.CreatedAt, &e.TextSHA256, &e.TextLen, &e.Language, &e.Label, &e.Score,
		&e.RawLabel, &e.RawScore, &e.Translated, &e.Winner, &e.ElapsedMS,
	); err != nil {
		return domain.Entry{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("ledger id %q: %w", id, err)
	}
	e.ID = parsed
	return e, nil
}

// Buckets implements domain.SummaryStore, used when ClickHouse is not configured
func (s *pg) Buckets(ctx context.Context, since, until time.Time) ([]domain.Bucket, error) {
	rows, err := s.q.Query(ctx, `
		SELECT language, label, COUNT(*)
		FROM `+PGTable+`
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY language, label
		ORDER BY COUNT(*) DESC, language, label`, since.UTC(), until.UTC())
	if err != nil {
		return nil, err
	}
	return repokit.CollectRows(rows, scanBucket)
}

func scanBucket(r repokit.Row) (domain.Bucket, error) {
	var (
		b domain.Bucket
		n int64
	)
	if err := r.Scan(&b.Language, &b.Label, &n); err != nil {
		return domain.Bucket{}, err
	}
	b.Count = uint64(max(n, 0))
	return b, nil
}
