package db

import (
	"fmt"
	"time"

	"eve-nexus/internal/esi"
	"eve-nexus/internal/logger"
)

// GetHistory retrieves cached market history for a region/type pair, oldest day first.
// Returns nil, false if not cached or if the cache is older than the history TTL.
func (d *DB) GetHistory(regionID int32, typeID int32) ([]esi.HistoryEntry, bool) {
	var updatedAt int64
	err := d.sql.QueryRow(
		"SELECT updated_at FROM market_history_meta WHERE region_id=? AND type_id=?",
		regionID, typeID,
	).Scan(&updatedAt)
	if err != nil {
		return nil, false
	}

	if time.Since(time.Unix(0, updatedAt)) > d.historyTTL {
		return nil, false
	}

	rows, err := d.sql.Query(
		"SELECT date, average, highest, lowest, volume, order_count FROM market_history WHERE region_id=? AND type_id=? ORDER BY date",
		regionID, typeID,
	)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var entries []esi.HistoryEntry
	for rows.Next() {
		var e esi.HistoryEntry
		if err := rows.Scan(&e.Date, &e.Average, &e.Highest, &e.Lowest, &e.Volume, &e.OrderCount); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, false
	}
	return entries, true
}

// SetHistory replaces the cached market history for a region/type pair.
func (d *DB) SetHistory(regionID int32, typeID int32, entries []esi.HistoryEntry) {
	if err := d.setHistory(regionID, typeID, entries); err != nil {
		logger.Warn("DB", fmt.Sprintf("SetHistory region=%d type=%d: %v", regionID, typeID, err))
	}
}

func (d *DB) setHistory(regionID int32, typeID int32, entries []esi.HistoryEntry) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM market_history WHERE region_id=? AND type_id=?", regionID, typeID); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO market_history (region_id, type_id, date, average, highest, lowest, volume, order_count) VALUES (?,?,?,?,?,?,?,?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(regionID, typeID, e.Date, e.Average, e.Highest, e.Lowest, e.Volume, e.OrderCount); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO market_history_meta (region_id, type_id, updated_at) VALUES (?,?,?)",
		regionID, typeID, time.Now().UnixNano(),
	); err != nil {
		return err
	}

	return tx.Commit()
}

// PurgeExpiredHistory removes history whose meta entry is older than the history TTL.
// Returns the number of region/type pairs removed.
func (d *DB) PurgeExpiredHistory() int {
	cutoff := time.Now().Add(-d.historyTTL).UnixNano()

	res, err := d.sql.Exec("DELETE FROM market_history_meta WHERE updated_at < ?", cutoff)
	if err != nil {
		logger.Warn("DB", fmt.Sprintf("PurgeExpiredHistory: meta delete error: %v", err))
		return 0
	}
	n, _ := res.RowsAffected()

	// Orphaned history rows (meta was removed but history rows remain).
	if _, err := d.sql.Exec(`
		DELETE FROM market_history
		WHERE NOT EXISTS (
			SELECT 1 FROM market_history_meta m
			WHERE m.region_id = market_history.region_id AND m.type_id = market_history.type_id
		)
	`); err != nil {
		logger.Warn("DB", fmt.Sprintf("PurgeExpiredHistory: orphan delete error: %v", err))
	}
	if n > 0 {
		logger.Info("DB", fmt.Sprintf("PurgeExpiredHistory: removed %d stale entries", n))
	}
	return int(n)
}
