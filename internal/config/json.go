package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations so operators can keep a readable config
// file.
type StructuredJSONConfig struct {
	Auth struct {
		PasswordHashKey string   `json:"password_hash_key"`
		TokenSignKey    string   `json:"token_sign_key"`
		TokenIssuer     string   `json:"token_issuer"`
		TokenDuration   Duration `json:"token_duration"`
	} `json:"auth,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Local struct {
			Path string `json:"path"`
		} `json:"local,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Quota struct {
		DeviceBytes     int64 `json:"device_bytes"`
		EssentialBytes  int64 `json:"essential_bytes"`
		RecentBytes     int64 `json:"recent_bytes"`
		PinnedBytes     int64 `json:"pinned_bytes"`
		WarnPercent     int   `json:"warn_percent"`
		CriticalPercent int   `json:"critical_percent"`
	} `json:"quota,omitempty"`

	Tier struct {
		RecencyWindow Duration `json:"recency_window"`
	} `json:"tier,omitempty"`

	Sync struct {
		Interval      Duration `json:"interval"`
		PullBatchSize int      `json:"pull_batch_size"`
		PushBatchSize int      `json:"push_batch_size"`
		MaxAttempts   int      `json:"max_attempts"`
		BackoffMin    Duration `json:"backoff_min"`
		BackoffMax    Duration `json:"backoff_max"`
	} `json:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Auth: Auth{
			PasswordHashKey: jsonCfg.Auth.PasswordHashKey,
			TokenSignKey:    jsonCfg.Auth.TokenSignKey,
			TokenIssuer:     jsonCfg.Auth.TokenIssuer,
			TokenDuration:   time.Duration(jsonCfg.Auth.TokenDuration),
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Local: Local{Path: jsonCfg.Storage.Local.Path},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Quota: Quota{
			DeviceBytes:     jsonCfg.Quota.DeviceBytes,
			EssentialBytes:  jsonCfg.Quota.EssentialBytes,
			RecentBytes:     jsonCfg.Quota.RecentBytes,
			PinnedBytes:     jsonCfg.Quota.PinnedBytes,
			WarnPercent:     jsonCfg.Quota.WarnPercent,
			CriticalPercent: jsonCfg.Quota.CriticalPercent,
		},
		Tier: TierPolicy{
			RecencyWindow: time.Duration(jsonCfg.Tier.RecencyWindow),
		},
		Sync: Sync{
			Interval:      time.Duration(jsonCfg.Sync.Interval),
			PullBatchSize: jsonCfg.Sync.PullBatchSize,
			PushBatchSize: jsonCfg.Sync.PushBatchSize,
			MaxAttempts:   jsonCfg.Sync.MaxAttempts,
			BackoffMin:    time.Duration(jsonCfg.Sync.BackoffMin),
			BackoffMax:    time.Duration(jsonCfg.Sync.BackoffMax),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
