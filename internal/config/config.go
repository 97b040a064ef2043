package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"fillScope/internal/exchange"
)

// ScanConfig holds configuration for the scan command, loaded from flags,
// env, or config file.
type ScanConfig struct {
	RPCURL       string
	PgDSN        string
	ChainID      uint64
	Addresses    []string
	FromBlock    uint64
	ToBlock      uint64
	FromTime     uint64
	ToTime       uint64
	ChunkSize    uint64
	MinChunkSize uint64
	MaxRetries   int
	RetryBackoff time.Duration
	DryRun       bool
	MetricsAddr  string
	LogLevel     string
}

// LoadScan merges config file, environment variables, and flags into
// ScanConfig.
func LoadScan(cfgFile string, flags *pflag.FlagSet) (ScanConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"chain-id":       exchange.DefaultChainID,
		"address":        exchange.DefaultExchangeAddresses,
		"chunk-size":     uint64(2000),
		"min-chunk-size": uint64(10),
		"max-retries":    5,
		"retry-backoff":  500 * time.Millisecond,
		"log-level":      "info",
	})
	if err != nil {
		return ScanConfig{}, err
	}

	cfg := ScanConfig{
		RPCURL:       v.GetString("rpc"),
		PgDSN:        v.GetString("pg-dsn"),
		ChainID:      v.GetUint64("chain-id"),
		Addresses:    getStringSlice(v, "address"),
		FromBlock:    v.GetUint64("from"),
		ToBlock:      v.GetUint64("to"),
		FromTime:     v.GetUint64("from-time"),
		ToTime:       v.GetUint64("to-time"),
		ChunkSize:    v.GetUint64("chunk-size"),
		MinChunkSize: v.GetUint64("min-chunk-size"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		DryRun:       v.GetBool("dry-run"),
		MetricsAddr:  v.GetString("metrics-addr"),
		LogLevel:     v.GetString("log-level"),
	}
	if len(cfg.Addresses) == 0 {
		cfg.Addresses = exchange.DefaultExchangeAddresses
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]any) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("FILLSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
