package version

// Version is the application version, overridden at build time with
// -ldflags "-X github.com/ndewijer/Holdings-Ledger-Backend/internal/version.Version=..."
var Version = "dev"
