package models

// QuotaState is the coarse pressure indicator derived from the device
// ceiling thresholds. It backs the persistent status indicator shown to
// the user.
type QuotaState string

const (
	QuotaOK       QuotaState = "ok"
	QuotaWarning  QuotaState = "warning"
	QuotaCritical QuotaState = "critical"
)

// TierUsage reports byte usage of a single tier against its ceiling.
// A zero Limit means the tier is unbounded.
type TierUsage struct {
	UsedBytes  int64 `json:"used_bytes"`
	LimitBytes int64 `json:"limit_bytes"`
}

// QuotaStatus is derived, never persisted: a snapshot of usage against
// the configured ceilings at the moment of the call.
type QuotaStatus struct {
	// TotalBytes is the hard device-wide ceiling.
	TotalBytes int64 `json:"total_bytes"`

	// UsedBytes is the sum of all retained documents' payload sizes.
	UsedBytes int64 `json:"used_bytes"`

	Tiers map[Tier]TierUsage `json:"tiers"`

	// Status is computed from the warning/critical percentage
	// thresholds of the device-wide ceiling.
	Status QuotaState `json:"status"`
}
