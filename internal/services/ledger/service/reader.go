package service

import (
	"context"
	"time"

	perr "moodmeter/internal/platform/errors"
	"moodmeter/internal/services/ledger/domain"
)

// Reader implements domain.ReaderPort over whichever stores are configured
type Reader struct {
	recent  domain.RecentStore
	summary domain.SummaryStore
}

// NewReader constructs a Reader, either store may be nil
func NewReader(recent domain.RecentStore, summary domain.SummaryStore) *Reader {
	return &Reader{recent: recent, summary: summary}
}

// Recent returns the newest entries first
func (r *Reader) Recent(ctx context.Context, limit int) ([]domain.Entry, error) {
	if r.recent == nil {
		return nil, perr.Unavailablef("ledger listing needs postgres")
	}
	xs, err := r.recent.Recent(ctx, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "ledger recent")
	}
	if xs == nil {
		xs = []domain.Entry{}
	}
	return xs, nil
}

// Summary counts verdicts per language and label in [since, until)
func (r *Reader) Summary(ctx context.Context, since, until time.Time) (domain.Summary, error) {
	if r.summary == nil {
		return domain.Summary{}, perr.Unavailablef("ledger summary needs a store")
	}
	if !since.Before(until) {
		return domain.Summary{}, perr.FieldErrf("since", "since must be before until")
	}
	bs, err := r.summary.Buckets(ctx, since, until)
	if err != nil {
		return domain.Summary{}, perr.Wrap(err, perr.ErrorCodeDB, "ledger summary")
	}
	out := domain.Summary{Since: since.UTC(), Until: until.UTC(), Buckets: bs}
	if out.Buckets == nil {
		out.Buckets = []domain.Bucket{}
	}
	for _, b := range bs {
		out.Total += b.Count
	}
	return out, nil
}
