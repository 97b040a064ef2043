package config

import (
	"github.com/spf13/pflag"
)

// QueryConfig holds configuration for the query command.
type QueryConfig struct {
	PgDSN    string
	TokenIDs []string
	FromTime uint64
	ToTime   uint64
	LogLevel string
}

// LoadQuery merges config file, environment variables, and flags into
// QueryConfig.
func LoadQuery(cfgFile string, flags *pflag.FlagSet) (QueryConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"log-level": "info",
	})
	if err != nil {
		return QueryConfig{}, err
	}

	cfg := QueryConfig{
		PgDSN:    v.GetString("pg-dsn"),
		TokenIDs: getStringSlice(v, "token-id"),
		FromTime: v.GetUint64("from-time"),
		ToTime:   v.GetUint64("to-time"),
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}
