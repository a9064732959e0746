package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a short token sign key or an out-of-range bcrypt cost).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or unknown driver).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid server settings
	// (for example, missing address or non-positive timeout).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)

// Supported values of [DB.Driver].
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// MinTokenSignKeyLength is the shortest accepted HS256 secret.
const MinTokenSignKeyLength = 32
