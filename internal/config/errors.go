package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid agent adapter settings
	// (for example, missing remote address or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, an empty cache path).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidQuotaConfigs indicates inconsistent quota ceilings (for
	// example, a per-tier ceiling above the device-wide ceiling, or
	// thresholds out of percentage range).
	ErrInvalidQuotaConfigs = errors.New("invalid quota configuration")
	// ErrInvalidSyncConfigs indicates invalid sync cadence or retry
	// settings (for example, zero interval or backoff bounds inverted).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
