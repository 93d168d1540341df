package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/vignesh-goutham/tradelog/pkg/store"
	"github.com/vignesh-goutham/tradelog/pkg/types"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS %[1]s (
	pk          TEXT NOT NULL,
	sk          TEXT NOT NULL,
	trade_id    TEXT NOT NULL DEFAULT '',
	symbol      TEXT NOT NULL,
	direction   TEXT NOT NULL,
	qty         REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price  REAL NOT NULL,
	status      TEXT NOT NULL,
	strategy    TEXT,
	opened_at   TEXT NOT NULL,
	closed_at   TEXT,
	notes       TEXT,
	PRIMARY KEY (pk, sk)
);

CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s(symbol);
`

// Store keeps trades in a SQLite file. The composite primary key provides the
// insert-only guarantee.
type Store struct {
	db    *sql.DB
	table string
}

func Open(path, tableName string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	db.SetMaxOpenConns(1)

	// WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	table := quoteIdent(tableName)
	ddl := fmt.Sprintf(schemaDDL, table, quoteIdent("idx_"+tableName+"_symbol"))
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema migration: %w", err)
	}

	return &Store{db: db, table: table}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) PutTrade(ctx context.Context, record types.TradeRecord) error {
	strategy, err := encodeJSON(record.Strategy)
	if err != nil {
		return &store.BackendError{Code: "SerializationError", Message: err.Error(), Err: err}
	}
	closedAt, err := encodeJSON(record.ClosedAt)
	if err != nil {
		return &store.BackendError{Code: "SerializationError", Message: err.Error(), Err: err}
	}
	notes, err := encodeJSON(record.Notes)
	if err != nil {
		return &store.BackendError{Code: "SerializationError", Message: err.Error(), Err: err}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO `+s.table+` (pk, sk, trade_id, symbol, direction, qty, entry_price,
			exit_price, status, strategy, opened_at, closed_at, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.PartitionKey, record.SortKey, record.TradeID, record.Symbol,
		string(record.Direction), record.Qty, record.EntryPrice, record.ExitPrice,
		string(record.Status), strategy, record.OpenedAt, closedAt, notes,
	)
	if err != nil {
		return translateError(record, err)
	}
	return nil
}

func (s *Store) ListTrades(ctx context.Context, partitionKey string) ([]types.TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pk, sk, trade_id, symbol, direction, qty, entry_price, exit_price,
			status, strategy, opened_at, closed_at, notes
		FROM `+s.table+` WHERE pk = ? ORDER BY sk`, partitionKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []types.TradeRecord
	for rows.Next() {
		var (
			r                         types.TradeRecord
			direction, status         string
			strategy, closedAt, notes sql.NullString
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
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return &store.BackendError{Code: "ServerError", Message: err.Error(), Err: err}
	}

	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
		(code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")) {
		return store.Conflict(record)
	}
	return &store.BackendError{Code: codeName(code), Message: sqliteErr.Error(), Err: err}
}

func codeName(code int) string {
	switch code & 0xff {
	case sqlite3.SQLITE_BUSY:
		return "SQLITE_BUSY"
	case sqlite3.SQLITE_LOCKED:
		return "SQLITE_LOCKED"
	case sqlite3.SQLITE_READONLY:
		return "SQLITE_READONLY"
	case sqlite3.SQLITE_IOERR:
		return "SQLITE_IOERR"
	case sqlite3.SQLITE_FULL:
		return "SQLITE_FULL"
	case sqlite3.SQLITE_CONSTRAINT:
		return "SQLITE_CONSTRAINT"
	}
	return fmt.Sprintf("SQLITE_ERROR_%d", code)
}

// encodeJSON stores pass-through values as JSON text, nil as NULL
func encodeJSON(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeJSON(s sql.NullString) (any, error) {
	if !s.Valid {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return nil, fmt.Errorf("decoding stored value: %w", err)
	}
	return v, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
