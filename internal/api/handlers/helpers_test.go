package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/testutil"
)

// testNow is the frozen "now" every handler test runs at.
var testNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

type handlerEnv struct {
	db    *sql.DB
	clock *testutil.Clock
	svc   *testutil.Services
}

func setupHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	clock := testutil.NewClock(testNow)
	return &handlerEnv{
		db:    db,
		clock: clock,
		svc:   testutil.NewTestServices(t, db, clock.Now),
	}
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}
