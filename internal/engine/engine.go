package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsundin/esett-proxy/internal/dataset"
	"github.com/jsundin/esett-proxy/internal/esett"
	"github.com/jsundin/esett-proxy/internal/observability"
)

// Store is the persistence contract the engine needs: exact-filter counting,
// conflict-skipping merges, and ordered paginated reads.
type Store interface {
	CountRange(ctx context.Context, ds dataset.Descriptor, area string, rng dataset.Range, group *string) (int64, error)
	Merge(ctx context.Context, ds dataset.Descriptor, rows []dataset.Row) (int64, error)
	ReadPage(ctx context.Context, ds dataset.Descriptor, area string, rng dataset.Range, group *string, page, pageSize int) ([]dataset.Row, int64, error)
}

// Fetcher retrieves raw upstream records for a dataset, area and range.
type Fetcher interface {
	Fetch(ctx context.Context, ds dataset.Descriptor, area string, rng dataset.Range, group *string) ([]map[string]any, error)
}

// Query is one client request against a dataset.
type Query struct {
	Area     string
	Range    dataset.Range
	Group    *string // MGA filter; nil matches records without an MGA code
	Page     int
	PageSize int
}

// Result is one page of records plus the authoritative total and the cache
// verdict captured before any fetch happened.
type Result struct {
	Rows     []dataset.Row
	Total    int64
	Page     int
	PageSize int
	Cached   bool
}

// Engine runs the cache-through flow for every dataset: decide completeness
// from stored counts, fetch and merge on a miss, then always answer from the
// store. Concurrent requests may race to fetch the same range; that is safe
// because the merge skips existing identity keys, so overlapping merges
// converge regardless of interleaving.
type Engine struct {
	store     Store
	fetcher   Fetcher
	threshold float64
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New assembles an engine. threshold is the completeness fraction in (0, 1].
func New(store Store, fetcher Fetcher, threshold float64, metrics *observability.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		store:     store,
		fetcher:   fetcher,
		threshold: threshold,
		metrics:   metrics,
		logger:    logger,
	}
}

// Query answers one request. The area is validated before any store or
// upstream access. Fetch, normalization and merge failures abort the request;
// there is no retry and no fallback to a partial store read.
func (e *Engine) Query(ctx context.Context, ds dataset.Descriptor, q Query) (Result, error) {
	if !esett.KnownArea(q.Area) {
		return Result{}, fmt.Errorf("%w: %s", esett.ErrUnknownArea, q.Area)
	}

	stored, err := e.store.CountRange(ctx, ds, q.Area, q.Range, q.Group)
	if err != nil {
		return Result{}, fmt.Errorf("count %s range: %w", ds.Name, err)
	}

	cached := Complete(stored, q.Range, ds.Interval, e.threshold)
	verdict := "hit"
	if !cached {
		verdict = "miss"
	}
	e.metrics.Requests.WithLabelValues(ds.Name, verdict).Inc()

	if !cached {
		if err := e.fetchAndMerge(ctx, ds, q); err != nil {
			return Result{}, err
		}
	}

	rows, total, err := e.store.ReadPage(ctx, ds, q.Area, q.Range, q.Group, q.Page, q.PageSize)
	if err != nil {
		return Result{}, fmt.Errorf("read %s page: %w", ds.Name, err)
	}

	return Result{
		Rows:     rows,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
		Cached:   cached,
	}, nil
}

func (e *Engine) fetchAndMerge(ctx context.Context, ds dataset.Descriptor, q Query) error {
	start := time.Now()
	raw, err := e.fetcher.Fetch(ctx, ds, q.Area, q.Range, q.Group)
	e.metrics.UpstreamDuration.WithLabelValues(ds.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		e.metrics.UpstreamFetches.WithLabelValues(ds.Name, "error").Inc()
		return fmt.Errorf("fetch %s: %w", ds.Name, err)
	}

	if len(raw) == 0 {
		e.metrics.UpstreamFetches.WithLabelValues(ds.Name, "empty").Inc()
		return nil
	}
	e.metrics.UpstreamFetches.WithLabelValues(ds.Name, "success").Inc()

	rows, err := dataset.Normalize(ds, q.Area, raw)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", ds.Name, err)
	}

	merged, err := e.store.Merge(ctx, ds, rows)
	if err != nil {
		return fmt.Errorf("merge %s: %w", ds.Name, err)
	}
	e.metrics.RowsMerged.WithLabelValues(ds.Name).Add(float64(merged))

	e.logger.Debug("merged upstream range",
		"dataset", ds.Name, "mba", q.Area, "rows", merged)
	return nil
}
