package service_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/testutil"
)

// testNow is the frozen "now" every service test starts at.
var testNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*sql.DB, *testutil.Clock, *testutil.Services) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	clock := testutil.NewClock(testNow)
	return db, clock, testutil.NewTestServices(t, db, clock.Now)
}

func ptr[T any](v T) *T {
	return &v
}
