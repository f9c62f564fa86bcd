package db

import (
	"fmt"
	"time"

	"eve-nexus/internal/logger"
)

// GetUniverse returns a cached static universe document by ESI path.
// Universe data (region and type details) does not expire.
func (d *DB) GetUniverse(path string) ([]byte, bool) {
	var body []byte
	if err := d.sql.QueryRow("SELECT body FROM universe_cache WHERE path=?", path).Scan(&body); err != nil {
		return nil, false
	}
	return body, true
}

// SetUniverse stores a static universe document.
func (d *DB) SetUniverse(path string, body []byte) {
	_, err := d.sql.Exec(
		"INSERT OR REPLACE INTO universe_cache (path, body, updated_at) VALUES (?,?,?)",
		path, body, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		logger.Warn("DB", fmt.Sprintf("SetUniverse %s: %v", path, err))
	}
}
