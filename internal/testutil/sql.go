package testutil

import (
	"context"
	"testing"

	"github.com/jacentio/pawtrail/internal/metrics"
	"github.com/jacentio/pawtrail/sqlstore"
)

// SQLiteStore opens a migrated in-memory SQLite animal store that is closed
// when the test ends.
func SQLiteStore(t testing.TB, m *metrics.Metrics) *sqlstore.Store {
	t.Helper()
	s, err := sqlstore.Open(context.Background(), sqlstore.SQLite, ":memory:", m)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// CountRows returns the number of rows in the animals table.
func CountRows(t testing.TB, s *sqlstore.Store) int {
	t.Helper()
	var n int
	if err := s.DB().QueryRowContext(context.Background(), `SELECT COUNT(*) FROM animals`).Scan(&n); err != nil {
		t.Fatalf("count animals: %v", err)
	}
	return n
}
