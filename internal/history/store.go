// Package history caches fetched usage points in a local sqlite database so
// the dashboard can show last-known traffic when the panel is unreachable.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tunneldash/tunneldash/internal/core"
)

// aggregateEntityID marks cached rows that came from an aggregate-only
// response. Confined to the storage schema, like the wire sentinel is to
// panelapi.
const aggregateEntityID = ""

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening DB: %w", err)
	}

	store := NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usage_points (
			scope TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			period_start TEXT NOT NULL,
			uplink_bytes INTEGER NOT NULL,
			downlink_bytes INTEGER NOT NULL,
			total_bytes INTEGER NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (scope, entity_id, period_start)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_usage_points_window ON usage_points(scope, period_start);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("history: init schema: %w", err)
		}
	}
	return nil
}

// Save upserts every point of a fetched response. Re-fetching the same window
// overwrites the cached buckets, so the still-open "today" bucket converges
// to its final value.
func (s *Store) Save(ctx context.Context, scope core.Scope, stats core.Stats) error {
	switch v := stats.(type) {
	case core.PerEntityStats:
		for id, points := range v.Series {
			if err := s.savePoints(ctx, scope, id, points); err != nil {
				return err
			}
		}
		return nil
	case core.AggregateStats:
		return s.savePoints(ctx, scope, aggregateEntityID, v.Points)
	default:
		return nil
	}
}

func (s *Store) savePoints(ctx context.Context, scope core.Scope, entityID string, points []core.UsagePoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback()

	now := s.now().UTC().Format(time.RFC3339Nano)
	for _, p := range points {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO usage_points (scope, entity_id, period_start, uplink_bytes, downlink_bytes, total_bytes, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (scope, entity_id, period_start) DO UPDATE SET
				uplink_bytes = excluded.uplink_bytes,
				downlink_bytes = excluded.downlink_bytes,
				total_bytes = excluded.total_bytes,
				updated_at = excluded.updated_at
		`,
			string(scope),
			entityID,
			p.PeriodStart.UTC().Format(time.RFC3339Nano),
			p.UplinkBytes,
			p.DownlinkBytes,
			p.TotalBytes,
			now,
		); err != nil {
			return fmt.Errorf("history: upsert point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit tx: %w", err)
	}
	return nil
}

// Load returns the cached stats for a window, shaped the same way the live
// response would be: per-entity when breakdown rows exist, aggregate when
// only sentinel rows do.
func (s *Store) Load(ctx context.Context, scope core.Scope, qr core.QueryRange) (core.Stats, error) {
	query := `
		SELECT entity_id, period_start, uplink_bytes, downlink_bytes, total_bytes
		FROM usage_points
		WHERE scope = ? AND period_start <= ?`
	args := []any{string(scope), qr.EndInstant.UTC().Format(time.RFC3339Nano)}
	if !qr.StartInstant.IsZero() {
		query += ` AND period_start >= ?`
		args = append(args, qr.StartInstant.UTC().Format(time.RFC3339Nano))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query window: %w", err)
	}
	defer rows.Close()

	series := make(map[string][]core.UsagePoint)
	var aggregate []core.UsagePoint
	for rows.Next() {
		var entityID, periodStart string
		var p core.UsagePoint
		if err := rows.Scan(&entityID, &periodStart, &p.UplinkBytes, &p.DownlinkBytes, &p.TotalBytes); err != nil {
			return nil, fmt.Errorf("history: scan point: %w", err)
		}
		at, err := time.Parse(time.RFC3339Nano, periodStart)
		if err != nil {
			return nil, fmt.Errorf("history: parse period start: %w", err)
		}
		p.PeriodStart = at

		if entityID == aggregateEntityID {
			aggregate = append(aggregate, p)
		} else {
			series[entityID] = append(series[entityID], p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate points: %w", err)
	}

	if len(series) == 0 && len(aggregate) > 0 {
		return core.AggregateStats{Points: aggregate}, nil
	}
	return core.PerEntityStats{Series: series}, nil
}
