package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/couchcryptid/covid-data-etl/internal/domain"
)

// DB persists the canonical dataset in a SQLite table keyed by country and
// report date. It implements pipeline.Store: the watermark (latest persisted
// date) lives here, not in the pipeline.
type DB struct {
	conn    *sql.DB
	country string
	logger  *slog.Logger
}

// New opens (or creates) the SQLite file at dbPath and runs migrations.
func New(dbPath, country string, logger *slog.Logger) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer; a single connection avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, country: country, logger: logger}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	const schema = `CREATE TABLE IF NOT EXISTS covid_daily (
		country TEXT NOT NULL,
		report_date TEXT NOT NULL,
		cases INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		recovered INTEGER NOT NULL,
		PRIMARY KEY (country, report_date)
	)`
	_, err := db.conn.Exec(schema)
	return err
}

// Watermark returns the latest persisted report date for the configured
// country. ok is false when the table is empty (first-run bootstrap).
func (db *DB) Watermark(ctx context.Context) (string, bool, error) {
	query, args, err := sq.Select("MAX(report_date)").
		From("covid_daily").
		Where(sq.Eq{"country": db.country}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build watermark query: %w", err)
	}

	var latest sql.NullString
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&latest); err != nil {
		return "", false, fmt.Errorf("query watermark: %w", err)
	}
	return latest.String, latest.Valid, nil
}

// Append inserts the rows of the dataset whose date is strictly greater than
// the watermark; with an empty store it loads everything. Inserts run in one
// transaction so a failed run leaves the table untouched.
func (db *DB) Append(ctx context.Context, dataset domain.CanonicalDataset) (int, error) {
	watermark, hasWatermark, err := db.Watermark(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	appended := 0
	for _, record := range dataset {
		date := record.Date.Format(domain.DateLayout)
		if hasWatermark && date <= watermark {
			continue
		}

		query, args, err := sq.Insert("covid_daily").
			Columns("country", "report_date", "cases", "deaths", "recovered").
			Values(db.country, date, record.Cases, record.Deaths, record.Recovered).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert row %s: %w", date, err)
		}
		appended++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}

	db.logger.Info("dataset persisted",
		"country", db.country,
		"rows_appended", appended,
		"bootstrap", !hasWatermark,
	)
	return appended, nil
}

// Load returns all persisted rows for the configured country in ascending
// date order. Used by tests and the preview tool.
func (db *DB) Load(ctx context.Context) (domain.CanonicalDataset, error) {
	query, args, err := sq.Select("report_date", "cases", "deaths", "recovered").
		From("covid_daily").
		Where(sq.Eq{"country": db.country}).
		OrderBy("report_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var dataset domain.CanonicalDataset
	for rows.Next() {
		var (
			date   string
			record domain.CanonicalRecord
		)
		if err := rows.Scan(&date, &record.Cases, &record.Deaths, &record.Recovered); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		record.Date, err = parseDate(date)
		if err != nil {
			return nil, err
		}
		dataset = append(dataset, record)
	}
	return dataset, rows.Err()
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("stored date %q: %w", value, err)
	}
	return t, nil
}
