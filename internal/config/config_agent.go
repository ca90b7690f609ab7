package config

import (
	"fmt"
	"time"
)

// AgentAdapter holds network settings used by the agent's transport
// layer.
type AgentAdapter struct {
	// HTTPAddress is the remote store endpoint used by the agent.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

// AgentStorage holds the on-device cache settings.
type AgentStorage struct {
	// Path is the SQLite cache file.
	Path string
}

// AgentConfig is the top-level agent configuration assembled from
// [StructuredConfig]: the narrower view the on-device sync agent needs.
type AgentConfig struct {
	// Adapter contains remote store address and timeouts.
	Adapter AgentAdapter
	// Storage contains local cache settings.
	Storage AgentStorage
	// Quota contains the ceilings enforced on this device.
	Quota Quota
	// Tier contains the classification policy constants.
	Tier TierPolicy
	// Sync contains cadence, batch and retry settings.
	Sync Sync
}

// GetAgentConfig builds and validates an agent-specific config view
// from the merged structured configuration.
func GetAgentConfig() (*AgentConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	agentCfg := &AgentConfig{
		Adapter: AgentAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: AgentStorage{Path: cfg.Storage.Local.Path},
		Quota:   cfg.Quota,
		Tier:    cfg.Tier,
		Sync:    cfg.Sync,
	}

	return agentCfg, agentCfg.validate()
}
