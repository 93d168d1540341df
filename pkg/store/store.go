package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/vignesh-goutham/tradelog/pkg/types"
)

// ErrConflict is returned by PutTrade when a record already exists at the composite key
var ErrConflict = errors.New("trade already exists")

// BackendError is any store failure other than a conflict. Code is the backend's own
// classification (e.g. a DynamoDB error code) and Message its description.
type BackendError struct {
	Code    string
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// TradeWriter persists canonical trade records with insert-only semantics
type TradeWriter interface {
	// PutTrade stores the record if no record exists at its composite key. It returns
	// an error wrapping ErrConflict when one does, and a *BackendError for any other
	// store failure. No retries are attempted.
	PutTrade(ctx context.Context, record types.TradeRecord) error
}

// TradeReader reads stored trade records
type TradeReader interface {
	// ListTrades returns every record under a partition key ordered by sort key
	ListTrades(ctx context.Context, partitionKey string) ([]types.TradeRecord, error)
}

// Store is a trade table backend
type Store interface {
	TradeWriter
	TradeReader
	Close() error
}

// Conflict wraps ErrConflict with the key that collided
func Conflict(record types.TradeRecord) error {
	return fmt.Errorf("%w: %s/%s", ErrConflict, record.PartitionKey, record.SortKey)
}
