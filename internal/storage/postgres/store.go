package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"fillScope/internal/model"
	"fillScope/internal/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store provides Postgres persistence for fills and the scan checkpoint.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres, applies pending migrations, and returns a
// ready store.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	if err := migrate(ctx, dsn); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertFills inserts fills idempotently; keys already present are ignored.
func (s *Store) UpsertFills(ctx context.Context, fills []model.Fill) error {
	if len(fills) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, fill := range fills {
		batch.Queue(`
			INSERT INTO fills (
				chain_id, exchange, block_number, tx_hash, log_index, timestamp,
				order_hash, maker, taker, maker_asset_id, taker_asset_id,
				maker_amount_filled, taker_amount_filled, fee
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
			ON CONFLICT (chain_id, tx_hash, log_index) DO NOTHING
		`,
			int64(fill.ChainID),
			fill.Exchange,
			int64(fill.BlockNumber),
			fill.TxHash,
			int64(fill.LogIndex),
			int64(fill.Timestamp),
			fill.OrderHash,
			fill.Maker,
			fill.Taker,
			fill.MakerAssetID,
			fill.TakerAssetID,
			fill.MakerAmountFilled,
			fill.TakerAmountFilled,
			fill.Fee,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range fills {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// SetCheckpoint upserts the last fully scanned block for a chain.
func (s *Store) SetCheckpoint(ctx context.Context, chainID uint64, block uint64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sync_state (chain_id, last_scanned_block)
		VALUES ($1, $2)
		ON CONFLICT (chain_id) DO UPDATE
		SET last_scanned_block = EXCLUDED.last_scanned_block
	`, int64(chainID), int64(block))
	return err
}

// GetCheckpoint returns the last fully scanned block for a chain.
func (s *Store) GetCheckpoint(ctx context.Context, chainID uint64) (uint64, bool, error) {
	var block int64
	row := s.pool.QueryRow(ctx, `SELECT last_scanned_block FROM sync_state WHERE chain_id = $1`, int64(chainID))
	if err := row.Scan(&block); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(block), true, nil
}

// QueryByTokenIDs returns every fill touching one of the token ids,
// optionally bounded by timestamp, most recent first.
func (s *Store) QueryByTokenIDs(ctx context.Context, tokenIDs []string, window storage.TimeRange) ([]model.Fill, error) {
	if len(tokenIDs) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT chain_id, exchange, block_number, tx_hash, log_index, timestamp,
			order_hash, maker, taker, maker_asset_id, taker_asset_id,
			maker_amount_filled::text, taker_amount_filled::text, fee::text
		FROM fills
		WHERE (maker_asset_id = ANY($1) OR taker_asset_id = ANY($1))
	`)
	args := []any{tokenIDs}
	if window.From != 0 {
		args = append(args, int64(window.From))
		fmt.Fprintf(&sb, " AND timestamp >= $%d", len(args))
	}
	if window.To != 0 {
		args = append(args, int64(window.To))
		fmt.Fprintf(&sb, " AND timestamp <= $%d", len(args))
	}
	sb.WriteString(" ORDER BY block_number DESC, log_index DESC")

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fills := make([]model.Fill, 0)
	for rows.Next() {
		var (
			fill      model.Fill
			chainID   int64
			blockNum  int64
			logIndex  int64
			timestamp int64
		)
		if err := rows.Scan(
			&chainID,
			&fill.Exchange,
			&blockNum,
			&fill.TxHash,
			&logIndex,
			&timestamp,
			&fill.OrderHash,
			&fill.Maker,
			&fill.Taker,
			&fill.MakerAssetID,
			&fill.TakerAssetID,
			&fill.MakerAmountFilled,
			&fill.TakerAmountFilled,
			&fill.Fee,
		); err != nil {
			return nil, err
		}
		fill.ChainID = uint64(chainID)
		fill.BlockNumber = uint64(blockNum)
		fill.LogIndex = uint64(logIndex)
		fill.Timestamp = uint64(timestamp)
		fills = append(fills, fill)
	}
	return fills, rows.Err()
}
