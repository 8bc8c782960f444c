package repositories_test

import (
	"testing"

	"github.com/mkarvonen/prepdeck/internal/sqlite"
)

// newTestDB creates a new in-memory database for testing purposes.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()

	dbs, err := sqlite.NewDatabase(":memory:")
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := dbs.Close(); err != nil {
			t.Fatal(err)
		}
	})

	return dbs
}
