package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/config"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	clock := testutil.NewClock(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))
	svc := testutil.NewTestServices(t, db, clock.Now)

	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}

	return api.NewRouter(api.Services{
		System:       svc.System,
		Instruments:  svc.Instruments,
		Transactions: svc.Transactions,
		Valuations:   svc.Valuations,
		Positions:    svc.Positions,
		Portfolio:    svc.Portfolio,
		Snapshots:    svc.Snapshots,
	}, cfg, zerolog.Nop())
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// TestRouter_LedgerFlow drives the main flow through the router:
// register an instrument, record entries, read the position and portfolio, snapshot.
//
// WHY: Route wiring and UUID middleware are only exercised end to end.
func TestRouter_LedgerFlow(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/instrument", map[string]any{
		"name": "Deposit Account", "class": "CASH", "currency": "CNY", "riskLevel": 1, "liquidity": "HIGH",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create instrument: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var inst model.Instrument
	if err := json.NewDecoder(w.Body).Decode(&inst); err != nil {
		t.Fatalf("decode instrument: %v", err)
	}

	w = do(t, h, http.MethodPost, "/api/transaction", map[string]any{
		"instrumentId": inst.ID, "date": "2024-01-10", "kind": "DEPOSIT", "amount": "10000", "currency": "CNY",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create transaction: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/api/instrument/"+inst.ID+"/position", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("position: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/api/portfolio", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("portfolio: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodPost, "/api/snapshot", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("snapshot: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodDelete, "/api/instrument/"+inst.ID, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("delete referenced instrument: expected 409, got %d", w.Code)
	}
}

func TestRouter_UUIDValidation(t *testing.T) {
	h := newTestRouter(t)

	paths := []string{
		"/api/instrument/not-a-uuid",
		"/api/instrument/not-a-uuid/position",
		"/api/transaction/not-a-uuid",
		"/api/snapshot/not-a-uuid",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := do(t, h, http.MethodGet, path, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", w.Code)
			}
		})
	}
}

func TestRouter_SystemRoutes(t *testing.T) {
	h := newTestRouter(t)

	for _, path := range []string{"/api/system/health", "/api/system/version"} {
		t.Run(path, func(t *testing.T) {
			w := do(t, h, http.MethodGet, path, nil)
			if w.Code != http.StatusOK {
				t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}
