package store

import (
	"context"
	"sort"
	"sync"

	"github.com/vignesh-goutham/tradelog/pkg/types"
)

type compositeKey struct {
	partition string
	sort      string
}

// MemoryStore is an in-process Store used for local runs and tests
type MemoryStore struct {
	mu     sync.Mutex
	trades map[compositeKey]types.TradeRecord
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trades: make(map[compositeKey]types.TradeRecord),
	}
}

func (m *MemoryStore) PutTrade(ctx context.Context, record types.TradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := compositeKey{partition: record.PartitionKey, sort: record.SortKey}
	if _, exists := m.trades[key]; exists {
		return Conflict(record)
	}
	m.trades[key] = record
	return nil
}

func (m *MemoryStore) ListTrades(ctx context.Context, partitionKey string) ([]types.TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []types.TradeRecord
	for key, record := range m.trades {
		if key.partition == partitionKey {
			result = append(result, record)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SortKey < result[j].SortKey
	})
	return result, nil
}

// Get returns the record stored at a composite key
func (m *MemoryStore) Get(partitionKey, sortKey string) (types.TradeRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.trades[compositeKey{partition: partitionKey, sort: sortKey}]
	return record, ok
}

func (m *MemoryStore) Close() error {
	return nil
}
