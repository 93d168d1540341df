package storage

import (
	"context"
	"fmt"

	"github.com/vignesh-goutham/tradelog/pkg/config"
	"github.com/vignesh-goutham/tradelog/pkg/dynamodb"
	"github.com/vignesh-goutham/tradelog/pkg/postgres"
	"github.com/vignesh-goutham/tradelog/pkg/redis"
	"github.com/vignesh-goutham/tradelog/pkg/sqlite"
	"github.com/vignesh-goutham/tradelog/pkg/store"
)

// Open returns the trade store selected by cfg.StoreBackend
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	var (
		s   store.Store
		err error
	)

	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		s, err = unwrap(dynamodb.NewService(ctx, cfg.DynamoDBRegion, cfg.DynamoDBEndpoint, cfg.TableName, cfg.Keys()))
	case config.BackendSQLite:
		s, err = unwrap(sqlite.Open(cfg.SQLitePath, cfg.TableName))
	case config.BackendRedis:
		s, err = unwrap(redis.Open(ctx, cfg.RedisURL, cfg.TableName))
	case config.BackendPostgres:
		s, err = unwrap(postgres.Open(ctx, cfg.PostgresDSN, cfg.TableName))
	case config.BackendMemory:
		s = store.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.StoreBackend, err)
	}
	return s, nil
}

// unwrap keeps a failed constructor from leaking a typed nil into the interface
func unwrap[S store.Store](s S, err error) (store.Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
