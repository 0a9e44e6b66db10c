package service

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/database"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db           *sql.DB
	baseCurrency string
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB, baseCurrency string) *SystemService {
	return &SystemService{
		db:           db,
		baseCurrency: baseCurrency,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion reports the application version and the applied schema version.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	dbVersion, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	return model.VersionInfo{
		AppVersion:   version.Version,
		DbVersion:    strconv.FormatInt(dbVersion, 10),
		BaseCurrency: s.baseCurrency,
	}, nil
}
