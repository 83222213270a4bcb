package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/TheFoister/kgm-checker/module/query/domain"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/database"
)

var _ database.QueryEventRepository = (*QueryEventRepo)(nil)

const schema = `CREATE TABLE IF NOT EXISTS query_events (
	id BIGSERIAL PRIMARY KEY,
	outcome TEXT NOT NULL,
	source TEXT NOT NULL,
	upstream_status INTEGER NOT NULL DEFAULT 0,
	duration_ms BIGINT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL
)`

type QueryEventRepo struct {
	db *sql.DB
}

func NewQueryEventRepo(db *sql.DB) *QueryEventRepo {
	return &QueryEventRepo{db: db}
}

func (r *QueryEventRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create query_events: %w", err)
	}
	return nil
}

func (r *QueryEventRepo) Insert(ctx context.Context, ev *domain.QueryEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO query_events (outcome, source, upstream_status, duration_ms, occurred_at) VALUES ($1, $2, $3, $4, $5)`,
		string(ev.Outcome), string(ev.Source), ev.UpstreamStatus, ev.DurationMS, ev.OccurredAt,
	)
	return err
}

func (r *QueryEventRepo) Stats(ctx context.Context, since time.Time) (*domain.QueryStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT outcome, COUNT(*), COALESCE(AVG(duration_ms), 0) FROM query_events WHERE occurred_at >= $1 GROUP BY outcome ORDER BY outcome`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	stats := &domain.QueryStats{
		Since:     since,
		ByOutcome: map[domain.Outcome]int{},
	}
	var weighted float64
	for rows.Next() {
		var (
			outcome string
			count   int
			avg     float64
		)
		if err := rows.Scan(&outcome, &count, &avg); err != nil {
			return nil, err
		}
		stats.ByOutcome[domain.Outcome(outcome)] = count
		stats.Total += count
		weighted += avg * float64(count)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.Total > 0 {
		stats.AvgDurationMS = weighted / float64(stats.Total)
	}
	return stats, nil
}
