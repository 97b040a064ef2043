package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fillScope/internal/config"
	"fillScope/internal/query"
	"fillScope/internal/storage"
	"fillScope/internal/storage/postgres"
)

func runQuery(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuery(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.PgDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}
	if len(cfg.TokenIDs) == 0 {
		return fmt.Errorf("at least one token id is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PgDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	facade := query.NewFacade(store)
	fills, err := facade.FillsForTokens(ctx, cfg.TokenIDs, storage.TimeRange{
		From: cfg.FromTime,
		To:   cfg.ToTime,
	})
	if err != nil {
		return fmt.Errorf("query fills: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	for _, fill := range fills {
		if err := encoder.Encode(fill); err != nil {
			return fmt.Errorf("encode fill: %w", err)
		}
	}

	logger.Info("query complete", zap.Int("token_ids", len(cfg.TokenIDs)), zap.Int("fills", len(fills)))
	return nil
}
