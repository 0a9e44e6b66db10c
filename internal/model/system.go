package model

// VersionInfo contains version information for the application.
type VersionInfo struct {
	AppVersion   string `json:"app_version"`
	DbVersion    string `json:"db_version"`
	BaseCurrency string `json:"base_currency"`
}
