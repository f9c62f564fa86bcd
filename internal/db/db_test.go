package db

import (
	"path/filepath"
	"testing"
	"time"

	"eve-nexus/internal/esi"
)

func openTestDB(t *testing.T, ttl time.Duration) *DB {
	t.Helper()
	d, err := Open(":memory:", ttl)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestOpen_MigratesAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexus.db")
	d, err := Open(path, time.Hour)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	d.Close()

	d, err = Open(path, time.Hour)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d.Close()

	var version int
	if err := d.SqlDB().QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("schema_version: %v", err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}
}

func TestHistory_RoundTripOrderedByDate(t *testing.T) {
	d := openTestDB(t, time.Hour)
	in := []esi.HistoryEntry{
		{Date: "2025-01-02", Average: 2, Highest: 3, Lowest: 1, Volume: 20, OrderCount: 2},
		{Date: "2025-01-01", Average: 1, Highest: 2, Lowest: 0.5, Volume: 10, OrderCount: 1},
	}
	d.SetHistory(10000002, 34, in)

	got, ok := d.GetHistory(10000002, 34)
	if !ok {
		t.Fatal("GetHistory miss after SetHistory")
	}
	if len(got) != 2 || got[0].Date != "2025-01-01" || got[1].Date != "2025-01-02" {
		t.Fatalf("history = %+v, want 2 entries oldest first", got)
	}
	if got[1] != in[0] {
		t.Errorf("entry = %+v, want %+v", got[1], in[0])
	}

	if _, ok := d.GetHistory(10000002, 35); ok {
		t.Error("hit for a type that was never cached")
	}
}

func TestHistory_SetReplacesPrevious(t *testing.T) {
	d := openTestDB(t, time.Hour)
	d.SetHistory(1, 2, []esi.HistoryEntry{{Date: "2025-01-01"}, {Date: "2025-01-02"}})
	d.SetHistory(1, 2, []esi.HistoryEntry{{Date: "2025-02-01", Average: 9}})

	got, ok := d.GetHistory(1, 2)
	if !ok || len(got) != 1 || got[0].Date != "2025-02-01" || got[0].Average != 9 {
		t.Errorf("history = %+v, ok=%v; want only the replacement", got, ok)
	}
}

func TestHistory_ExpiresAndPurges(t *testing.T) {
	d := openTestDB(t, time.Millisecond)
	d.SetHistory(1, 2, []esi.HistoryEntry{{Date: "2025-01-01"}})
	time.Sleep(5 * time.Millisecond)

	if _, ok := d.GetHistory(1, 2); ok {
		t.Error("expected miss after TTL")
	}
	if n := d.PurgeExpiredHistory(); n != 1 {
		t.Errorf("PurgeExpiredHistory = %d, want 1", n)
	}
	var rows int
	d.SqlDB().QueryRow("SELECT COUNT(*) FROM market_history").Scan(&rows)
	if rows != 0 {
		t.Errorf("market_history rows = %d, want 0 after purge", rows)
	}
}

func TestUniverse_RoundTrip(t *testing.T) {
	d := openTestDB(t, time.Hour)
	if _, ok := d.GetUniverse("/universe/types/34/"); ok {
		t.Fatal("hit on empty cache")
	}
	d.SetUniverse("/universe/types/34/", []byte(`{"name":"Tritanium"}`))
	body, ok := d.GetUniverse("/universe/types/34/")
	if !ok || string(body) != `{"name":"Tritanium"}` {
		t.Errorf("GetUniverse = %q, %v", body, ok)
	}
}

func TestDB_ImplementsESIStore(t *testing.T) {
	var _ esi.Store = (*DB)(nil)
}
