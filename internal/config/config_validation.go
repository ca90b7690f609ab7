// SPDX-License-Identifier: Apache-2.0

package config

// validate checks that the final merged [StructuredConfig] satisfies
// the invariants both binaries rely on at startup. Quota and sync
// settings are validated here because defaults always populate them;
// binary-specific requirements (DSN, remote address) are validated by
// the narrower config views.
func (cfg *StructuredConfig) validate() error {
	q := cfg.Quota
	if q.DeviceBytes <= 0 {
		return ErrInvalidQuotaConfigs
	}
	if q.EssentialBytes > q.DeviceBytes || q.RecentBytes > q.DeviceBytes || q.PinnedBytes > q.DeviceBytes {
		return ErrInvalidQuotaConfigs
	}
	if q.WarnPercent <= 0 || q.WarnPercent > 100 ||
		q.CriticalPercent <= 0 || q.CriticalPercent > 100 ||
		q.WarnPercent > q.CriticalPercent {
		return ErrInvalidQuotaConfigs
	}

	s := cfg.Sync
	if s.Interval <= 0 || s.PullBatchSize <= 0 || s.PushBatchSize <= 0 {
		return ErrInvalidSyncConfigs
	}
	if s.MaxAttempts <= 0 || s.BackoffMin <= 0 || s.BackoffMax < s.BackoffMin {
		return ErrInvalidSyncConfigs
	}

	return nil
}

func (cfg *AgentConfig) validate() error {
	if cfg.Storage.Path == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.Interval == 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
