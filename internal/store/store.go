package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsundin/esett-proxy/internal/dataset"
)

// groupSentinel stands in for an absent MGA code so the composite primary
// key stays non-nullable. The sentinel never leaves this package: callers
// pass and receive *string, nil meaning absent.
const groupSentinel = ""

// Store wraps database access for the dataset tables.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Init creates the dataset tables and converts them to TimescaleDB
// hypertables chunked by week. Safe to run on every startup.
func (s *Store) Init(ctx context.Context) error {
	for _, ds := range dataset.All {
		if _, err := s.pool.Exec(ctx, createTableSQL(ds)); err != nil {
			return fmt.Errorf("create table %s: %w", ds.Table, err)
		}
		hypertable := fmt.Sprintf(
			`SELECT create_hypertable('%s', 'time', chunk_time_interval => INTERVAL '7 days', if_not_exists => TRUE, migrate_data => TRUE)`,
			ds.Table)
		if _, err := s.pool.Exec(ctx, hypertable); err != nil {
			return fmt.Errorf("create hypertable %s: %w", ds.Table, err)
		}
	}
	return nil
}

// CountRange counts stored rows matching the exact filter tuple. The count
// never spans areas, and for the grouped dataset never spans MGA codes:
// a nil group matches only sentinel rows.
func (s *Store) CountRange(ctx context.Context, ds dataset.Descriptor, area string, rng dataset.Range, group *string) (int64, error) {
	sql := "SELECT COUNT(*) FROM " + ds.Table + rangeWhere(ds)
	var count int64
	if err := s.pool.QueryRow(ctx, sql, rangeArgs(ds, area, rng, group)...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Merge inserts normalized rows, silently skipping any whose identity key
// already exists. Existing rows are never updated, which makes re-merging a
// range and concurrent overlapping merges converge to the same state. An
// empty batch performs no store access. Returns the number of rows attempted.
func (s *Store) Merge(ctx context.Context, ds dataset.Descriptor, rows []dataset.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	sql := insertSQL(ds)
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(sql, insertArgs(ds, row)...)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for range rows {
		if _, err := res.Exec(); err != nil {
			return 0, err
		}
	}
	return int64(len(rows)), nil
}

// ReadPage returns one page of rows ordered by time plus the total count of
// the full filtered set. Out-of-range pages yield an empty slice with the
// correct total.
func (s *Store) ReadPage(ctx context.Context, ds dataset.Descriptor, area string, rng dataset.Range, group *string, page, pageSize int) ([]dataset.Row, int64, error) {
	where := rangeWhere(ds)
	args := rangeArgs(ds, area, rng, group)

	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+ds.Table+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	argPos := len(args) + 1
	sql := "SELECT " + strings.Join(selectColumns(ds), ", ") + " FROM " + ds.Table + where +
		" ORDER BY time OFFSET $" + strconv.Itoa(argPos) + " LIMIT $" + strconv.Itoa(argPos+1)
	args = append(args, (page-1)*pageSize, pageSize)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]dataset.Row, 0)
	for rows.Next() {
		row, err := scanRow(ds, rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}

func rangeWhere(ds dataset.Descriptor) string {
	where := " WHERE mba = $1 AND time >= $2 AND time < $3"
	if ds.HasGroup {
		where += " AND mga_code = $4"
	}
	return where
}

func rangeArgs(ds dataset.Descriptor, area string, rng dataset.Range, group *string) []any {
	args := []any{area, rng.Start, rng.End}
	if ds.HasGroup {
		args = append(args, groupValue(group))
	}
	return args
}

func groupValue(group *string) string {
	if group == nil {
		return groupSentinel
	}
	return *group
}
