package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/repository"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/service"
)

// TestBaseCurrency is the base currency every test service is configured with.
const TestBaseCurrency = "CNY"

// Services bundles every service wired to one test database and clock.
type Services struct {
	Instruments  *service.InstrumentService
	Transactions *service.TransactionService
	Valuations   *service.ValuationService
	Positions    *service.PositionService
	Portfolio    *service.PortfolioService
	Snapshots    *service.SnapshotService
	System       *service.SystemService
}

// NewTestServices wires all services to db, reading "now" from clock.
//
// Example usage:
//
//	clock := testutil.NewClock(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))
//	svc := testutil.NewTestServices(t, db, clock.Now)
func NewTestServices(t *testing.T, db *sql.DB, now service.Clock) *Services {
	t.Helper()

	instrumentRepo := repository.NewInstrumentRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	valuationRepo := repository.NewValuationRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	log := zerolog.Nop()

	positions := service.NewPositionService(instrumentRepo, transactionRepo, valuationRepo, now)
	portfolio := service.NewPortfolioService(instrumentRepo, positions, TestBaseCurrency, now, log)

	return &Services{
		Instruments:  service.NewInstrumentService(instrumentRepo, now),
		Transactions: service.NewTransactionService(instrumentRepo, transactionRepo, TestBaseCurrency, now),
		Valuations:   service.NewValuationService(instrumentRepo, valuationRepo, TestBaseCurrency, now),
		Positions:    positions,
		Portfolio:    portfolio,
		Snapshots:    service.NewSnapshotService(portfolio, snapshotRepo, now, log),
		System:       service.NewSystemService(db, TestBaseCurrency),
	}
}

// Clock is a settable clock for tests.
type Clock struct {
	now time.Time
}

// NewClock returns a clock frozen at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the frozen time. Pass clock.Now as a service.Clock.
func (c *Clock) Now() time.Time {
	return c.now
}

// Set moves the clock to now.
func (c *Clock) Set(now time.Time) {
	c.now = now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeInstrumentName generates a unique instrument name for testing.
//
// Example usage:
//
//	name := testutil.MakeInstrumentName("Savings")
//	// Returns: "Savings ABC123"
func MakeInstrumentName(base string) string {
	if base == "" {
		base = "Instrument"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
