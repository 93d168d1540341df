package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vignesh-goutham/tradelog/pkg/store"
	"github.com/vignesh-goutham/tradelog/pkg/types"
)

const uniqueViolation = "23505"

type Store struct {
	pool  *pgxpool.Pool
	table string
}

func Open(ctx context.Context, dsn, tableName string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s := &Store{pool: pool, table: pgx.Identifier{tableName}.Sanitize()}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS `+s.table+` (
  pk TEXT NOT NULL,
  sk TEXT NOT NULL,
  trade_id TEXT NOT NULL DEFAULT '',
  symbol TEXT NOT NULL,
  direction TEXT NOT NULL,
  qty DOUBLE PRECISION NOT NULL,
  entry_price DOUBLE PRECISION NOT NULL,
  exit_price DOUBLE PRECISION NOT NULL,
  status TEXT NOT NULL,
  strategy TEXT,
  opened_at TEXT NOT NULL,
  closed_at TEXT,
  notes TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (pk, sk)
)`)
	if err != nil {
		return fmt.Errorf("schema migration: %w", err)
	}
	return nil
}

func (s *Store) PutTrade(ctx context.Context, record types.TradeRecord) error {
	var passThrough [3]*string
	for i, v := range []any{record.Strategy, record.ClosedAt, record.Notes} {
		encoded, err := encodeJSON(v)
		if err != nil {
			return &store.BackendError{Code: "SerializationError", Message: err.Error(), Err: err}
		}
		passThrough[i] = encoded
	}

	_, err := s.pool.Exec(ctx, `
INSERT INTO `+s.table+` (pk, sk, trade_id, symbol, direction, qty, entry_price, exit_price,
  status, strategy, opened_at, closed_at, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		record.PartitionKey, record.SortKey, record.TradeID, record.Symbol,
		string(record.Direction), record.Qty, record.EntryPrice, record.ExitPrice,
		string(record.Status), passThrough[0], record.OpenedAt, passThrough[1], passThrough[2],
	)
	if err != nil {
		return translateError(record, err)
	}
	return nil
}

func (s *Store) ListTrades(ctx context.Context, partitionKey string) ([]types.TradeRecord, error) {
	rows, err := s.pool.Query(ctx, `
SELECT pk, sk, trade_id, symbol, direction, qty, entry_price, exit_price,
  status, strategy, opened_at, closed_at, notes
FROM `+s.table+` WHERE pk = $1 ORDER BY sk`, partitionKey)
	if err != nil {
		return nil, translateError(types.TradeRecord{}, err)
	}
	defer rows.Close()

	var results []types.TradeRecord
	for rows.Next() {
		var (
			r                         types.TradeRecord
			direction, status         string
			strategy, closedAt, notes *string
		)
		if err := rows.Scan(&r.PartitionKey, &r.SortKey, &r.TradeID, &r.Symbol, &direction,
			&r.Qty, &r.EntryPrice, &r.ExitPrice, &status, &strategy, &r.OpenedAt,
			&closedAt, &notes); err != nil {
			return nil, err
		}
		r.Direction = types.Direction(direction)
		r.Status = types.Status(status)
		if r.Strategy, err = decodeJSON(strategy); err != nil {
			return nil, err
		}
		if r.ClosedAt, err = decodeJSON(closedAt); err != nil {
			return nil, err
		}
		if r.Notes, err = decodeJSON(notes); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func translateError(record types.TradeRecord, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolation {
			return store.Conflict(record)
		}
		return &store.BackendError{Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}
	return &store.BackendError{Code: "ServerError", Message: err.Error(), Err: err}
}

func encodeJSON(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func decodeJSON(s *string) (any, error) {
	if s == nil {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(*s), &v); err != nil {
		return nil, fmt.Errorf("decoding stored value: %w", err)
	}
	return v, nil
}
