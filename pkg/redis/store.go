package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/vignesh-goutham/tradelog/pkg/store"
	"github.com/vignesh-goutham/tradelog/pkg/types"
)

// Writes the trade and indexes its sort key only if the trade key is free.
// KEYS[1] trade key, KEYS[2] partition index; ARGV[1] payload, ARGV[2] sort key.
var insertScript = redis.NewScript(`
if redis.call('SET', KEYS[1], ARGV[1], 'NX') then
  redis.call('ZADD', KEYS[2], 0, ARGV[2])
  return 1
end
return 0
`)

// storedTrade is the JSON payload kept under each trade key
type storedTrade struct {
	PartitionKey string `json:"pk"`
	SortKey      string `json:"sk"`
	types.TradeRecord
}

type Store struct {
	rdb    *redis.Client
	prefix string
}

// Open connects using a redis:// URL. prefix namespaces every key.
func Open(ctx context.Context, redisURL, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return New(rdb, prefix), nil
}

func New(rdb *redis.Client, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) Close() error { return s.rdb.Close() }

func (s *Store) tradeKey(pk, sk string) string {
	return s.prefix + ":trade:" + url.QueryEscape(pk) + ":" + url.QueryEscape(sk)
}

func (s *Store) indexKey(pk string) string {
	return s.prefix + ":idx:" + url.QueryEscape(pk)
}

func (s *Store) PutTrade(ctx context.Context, record types.TradeRecord) error {
	payload, err := json.Marshal(storedTrade{
		PartitionKey: record.PartitionKey,
		SortKey:      record.SortKey,
		TradeRecord:  record,
	})
	if err != nil {
		return &store.BackendError{Code: "SerializationError", Message: err.Error(), Err: err}
	}

	keys := []string{s.tradeKey(record.PartitionKey, record.SortKey), s.indexKey(record.PartitionKey)}
	inserted, err := insertScript.Run(ctx, s.rdb, keys, payload, record.SortKey).Int()
	if err != nil {
		return translateError(err)
	}
	if inserted == 0 {
		return store.Conflict(record)
	}
	return nil
}

func (s *Store) ListTrades(ctx context.Context, partitionKey string) ([]types.TradeRecord, error) {
	sortKeys, err := s.rdb.ZRange(ctx, s.indexKey(partitionKey), 0, -1).Result()
	if err != nil {
		return nil, translateError(err)
	}
	if len(sortKeys) == 0 {
		return nil, nil
	}

	keys := make([]string, len(sortKeys))
	for i, sk := range sortKeys {
		keys[i] = s.tradeKey(partitionKey, sk)
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, translateError(err)
	}

	trades := make([]types.TradeRecord, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var st storedTrade
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			return nil, fmt.Errorf("decoding stored trade: %w", err)
		}
		st.TradeRecord.PartitionKey = st.PartitionKey
		st.TradeRecord.SortKey = st.SortKey
		trades = append(trades, st.TradeRecord)
	}
	return trades, nil
}

// translateError uses the leading word of a server reply (e.g. READONLY, OOM) as the code
func translateError(err error) error {
	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		msg := replyErr.Error()
		code, _, _ := strings.Cut(msg, " ")
		return &store.BackendError{Code: code, Message: msg, Err: err}
	}
	return &store.BackendError{Code: "RedisError", Message: err.Error(), Err: err}
}
