package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"dayahead-procurement/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS prices (
	zone  TEXT    NOT NULL,
	ts    INTEGER NOT NULL,
	price REAL    NOT NULL,
	PRIMARY KEY (zone, ts)
);
CREATE INDEX IF NOT EXISTS idx_prices_zone_ts ON prices (zone, ts);
`

// Store persists downloaded day-ahead prices in SQLite. One row per
// (zone, timestamp); re-downloading a range is idempotent.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the price database at path.
// Pass ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open price store: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// UpsertPrices inserts or replaces the given points for a zone in one
// transaction.
func (s *Store) UpsertPrices(ctx context.Context, zone string, points []model.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO prices (zone, ts, price) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, zone, p.Time.UTC().Unix(), p.Price); err != nil {
			return fmt.Errorf("upsert %s@%s: %w", zone, p.Time.Format(time.RFC3339), err)
		}
	}
	return tx.Commit()
}

// LoadSeries reads the ordered series for a zone. Zero from/to mean
// unbounded on that side.
func (s *Store) LoadSeries(ctx context.Context, zone string, from, to time.Time) (model.Series, error) {
	query := "SELECT ts, price FROM prices WHERE zone = ?"
	args := []any{zone}
	if !from.IsZero() {
		query += " AND ts >= ?"
		args = append(args, from.UTC().Unix())
	}
	if !to.IsZero() {
		query += " AND ts < ?"
		args = append(args, to.UTC().Unix())
	}
	query += " ORDER BY ts ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return model.Series{}, fmt.Errorf("load series %s: %w", zone, err)
	}
	defer rows.Close()

	series := model.Series{Zone: zone}
	for rows.Next() {
		var ts int64
		var price float64
		if err := rows.Scan(&ts, &price); err != nil {
			return model.Series{}, fmt.Errorf("scan series %s: %w", zone, err)
		}
		series.Points = append(series.Points, model.PricePoint{
			Time:  time.Unix(ts, 0).UTC(),
			Price: price,
		})
	}
	if err := rows.Err(); err != nil {
		return model.Series{}, fmt.Errorf("load series %s: %w", zone, err)
	}
	return series, nil
}

// LatestTimestamp returns the newest stored sample time for a zone. The
// downloader resumes from here instead of re-fetching history. ok is false
// when the zone has no rows yet.
func (s *Store) LatestTimestamp(ctx context.Context, zone string) (time.Time, bool, error) {
	var ts sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(ts) FROM prices WHERE zone = ?", zone).Scan(&ts)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("latest timestamp %s: %w", zone, err)
	}
	if !ts.Valid {
		return time.Time{}, false, nil
	}
	return time.Unix(ts.Int64, 0).UTC(), true, nil
}

// CountPrices returns the number of stored samples for a zone.
func (s *Store) CountPrices(ctx context.Context, zone string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM prices WHERE zone = ?", zone).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count prices %s: %w", zone, err)
	}
	return n, nil
}

// Zones lists the zones that have at least one stored sample.
func (s *Store) Zones(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT zone FROM prices ORDER BY zone")
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()

	var zones []string
	for rows.Next() {
		var z string
		if err := rows.Scan(&z); err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
