package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vignesh-goutham/tradelog/pkg/types"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "trading_log", config.TableName)
	assert.Equal(t, types.DefaultKeySchema, config.Keys())
	assert.Equal(t, "*", config.AllowedOrigins)
	assert.Equal(t, BackendDynamoDB, config.StoreBackend)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "tradelog.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
table_name = "from_file"
partition_key = "account"
sort_key = "opened"
store_backend = "sqlite"
`), 0o644))

	t.Setenv("SORT_KEY", "tradeKey")
	t.Setenv("ALLOWED_ORIGINS", "https://journal.example.com")

	config, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from_file", config.TableName)
	assert.Equal(t, types.KeySchema{PartitionKey: "account", SortKey: "tradeKey"}, config.Keys())
	assert.Equal(t, "https://journal.example.com", config.AllowedOrigins)
	assert.Equal(t, BackendSQLite, config.StoreBackend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "empty partition key", modify: func(c *Config) { c.PartitionKey = "" }, wantErr: true},
		{name: "same key names", modify: func(c *Config) { c.SortKey = c.PartitionKey }, wantErr: true},
		{name: "unknown backend", modify: func(c *Config) { c.StoreBackend = "mongo" }, wantErr: true},
		{name: "postgres without dsn", modify: func(c *Config) { c.StoreBackend = BackendPostgres }, wantErr: true},
		{name: "postgres with dsn", modify: func(c *Config) {
			c.StoreBackend = BackendPostgres
			c.PostgresDSN = "postgres://localhost/tradelog"
		}},
		{name: "partition key is an attribute", modify: func(c *Config) { c.PartitionKey = "symbol" }, wantErr: true},
		{name: "sort key is an attribute", modify: func(c *Config) { c.SortKey = "notes" }, wantErr: true},
		{name: "custom key names", modify: func(c *Config) {
			c.PartitionKey = "acct"
			c.SortKey = "tradeKey"
		}},
		{name: "bad log format", modify: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(config)

			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
