package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
market:
  name: South Pearl Street Farmers Market
  seed:
    items:
      - {key: peach, name: Peach, price: "$0.75"}
      - {key: tomato, name: Tomato, price: "$0.50"}
    vendors:
      - name: Rocky Mountain Fresh
        stock:
          - {item: peach, quantity: 35}
          - {item: tomato, quantity: 7}
      - name: Palisade Peach Shack
        stock:
          - {item: peach, quantity: 65}
`

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeTempFile(t, seedYAML))
	require.NoError(t, err)

	assert.Equal(t, "South Pearl Street Farmers Market", cfg.Market.Name)
	require.Len(t, cfg.Market.Seed.Items, 2)
	assert.Equal(t, SeedItem{Key: "peach", Name: "Peach", Price: "$0.75"}, cfg.Market.Seed.Items[0])
	require.Len(t, cfg.Market.Seed.Vendors, 2)
	assert.Equal(t, []SeedStock{{Item: "peach", Quantity: 65}}, cfg.Market.Seed.Vendors[1].Stock)
}

func TestLoad_KeepsDollarPrices(t *testing.T) {
	cfg, err := Parse([]byte(seedYAML))
	require.NoError(t, err)
	assert.Equal(t, "$0.50", cfg.Market.Seed.Items[1].Price)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_REDIS_PASSWORD", "secret123")

	cfg, err := Parse([]byte(`
redis:
  addr: cache:6379
  password: ${TEST_REDIS_PASSWORD}
`))
	require.NoError(t, err)

	assert.Equal(t, "secret123", cfg.Redis.Password)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
}

func TestLoadAndValidate_Defaults(t *testing.T) {
	cfg, err := LoadAndValidate(writeTempFile(t, "market:\n  name: Tiny Market\n"))
	require.NoError(t, err)

	assert.Equal(t, "Tiny Market", cfg.Market.Name)
	assert.Equal(t, DefaultHTTPAddr, cfg.Server.HTTPAddr)
	assert.Equal(t, DefaultGRPCAddr, cfg.Server.GRPCAddr)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DefaultMySQLDSN, cfg.MySQL.DSN)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, DefaultIdempotencyTTL, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, DefaultLedgerWorkers, cfg.Ledger.Workers)
	assert.Equal(t, DefaultLedgerQueueSize, cfg.Ledger.QueueSize)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestLoadAndValidate_Durations(t *testing.T) {
	cfg, err := LoadAndValidate(writeTempFile(t, `
server:
  shutdown_timeout: 12s
ledger:
  write_timeout: 250ms
`))
	require.NoError(t, err)

	assert.Equal(t, 12*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Ledger.WriteTimeout)
}

func TestParsedDSNEnablesParseTime(t *testing.T) {
	c := MySQLConfig{DSN: "user:pass@tcp(db:3306)/market"}

	dsn, err := c.ParsedDSN()
	require.NoError(t, err)
	assert.True(t, dsn.ParseTime)
	assert.Equal(t, "db:3306", dsn.Addr)
	assert.Equal(t, "market", dsn.DBName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad dsn", func(c *Config) { c.MySQL.DSN = "not a dsn" }, "mysql.dsn"},
		{"no workers", func(c *Config) { c.Ledger.Workers = -1 }, "ledger.workers"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"duplicate key", func(c *Config) {
			c.Market.Seed.Items = append(c.Market.Seed.Items, SeedItem{Key: "peach", Name: "Peach", Price: "$1"})
		}, "duplicate key"},
		{"unknown item", func(c *Config) {
			c.Market.Seed.Vendors[0].Stock[0].Item = "kale"
		}, "unknown item"},
		{"zero quantity", func(c *Config) {
			c.Market.Seed.Vendors[0].Stock[0].Quantity = 0
		}, "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(seedYAML))
			require.NoError(t, err)
			cfg.applyDefaults()
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
