package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"eve-nexus/internal/logger"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database used as a volatile cache for ESI data.
type DB struct {
	sql        *sql.DB
	historyTTL time.Duration
}

// Open opens (or creates) the SQLite database at dsn and runs migrations.
// ":memory:" keeps everything in process memory; the cache is then lost on restart.
// Cached history older than historyTTL is treated as a miss.
func Open(dsn string, historyTTL time.Duration) (*DB, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	inMemory := dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
	source := dsn
	if !inMemory && !strings.Contains(dsn, "?") {
		source = dsn + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	sqlDB, err := sql.Open("sqlite", source)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if inMemory {
		// Every new connection to :memory: would be a separate empty database.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB, historyTTL: historyTTL}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", dsn))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	// Missing table on a fresh database leaves version at 0.
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS market_history (
				region_id   INTEGER NOT NULL,
				type_id     INTEGER NOT NULL,
				date        TEXT NOT NULL,
				average     REAL,
				highest     REAL,
				lowest      REAL,
				volume      INTEGER,
				order_count INTEGER,
				PRIMARY KEY (region_id, type_id, date)
			);

			CREATE TABLE IF NOT EXISTS market_history_meta (
				region_id  INTEGER NOT NULL,
				type_id    INTEGER NOT NULL,
				updated_at INTEGER NOT NULL, -- unix nanoseconds
				PRIMARY KEY (region_id, type_id)
			);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Debug("DB", "Applied migration v1 (market history)")
	}

	if version < 2 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS universe_cache (
				path       TEXT PRIMARY KEY,
				body       BLOB NOT NULL,
				updated_at TEXT NOT NULL
			);

			INSERT OR IGNORE INTO schema_version (version) VALUES (2);
		`)
		if err != nil {
			return fmt.Errorf("migration v2: %w", err)
		}
		logger.Debug("DB", "Applied migration v2 (universe cache)")
	}

	return nil
}

// SqlDB returns the underlying *sql.DB.
func (d *DB) SqlDB() *sql.DB {
	return d.sql
}
