package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultMarketName         = "Farmers Market"
	DefaultHTTPAddr           = ":8080"
	DefaultGRPCAddr           = ":50051"
	DefaultShutdownTimeout    = 5 * time.Second
	DefaultRequestTimeout     = 10 * time.Second
	DefaultMySQLDSN           = "root:root@tcp(localhost:3306)/farmers_market?parseTime=true"
	DefaultMaxOpenConns       = 50
	DefaultMaxIdleConns       = 25
	DefaultConnMaxLifetime    = 5 * time.Minute
	DefaultRedisAddr          = "localhost:6379"
	DefaultRedisPoolSize      = 100
	DefaultIdempotencyTTL     = 24 * time.Hour
	DefaultLedgerWorkers      = 10
	DefaultLedgerQueueSize    = 10000
	DefaultLedgerWriteTimeout = 5 * time.Second
	DefaultLogLevel           = "info"
)

func (c *Config) applyDefaults() {
	if c.Market.Name == "" {
		c.Market.Name = DefaultMarketName
	}

	// Server defaults
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = DefaultHTTPAddr
	}
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = DefaultGRPCAddr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = DefaultRequestTimeout
	}

	// MySQL defaults
	if c.MySQL.DSN == "" {
		c.MySQL.DSN = DefaultMySQLDSN
	}
	if c.MySQL.MaxOpenConns == 0 {
		c.MySQL.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.MySQL.MaxIdleConns == 0 {
		c.MySQL.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.MySQL.ConnMaxLifetime == 0 {
		c.MySQL.ConnMaxLifetime = DefaultConnMaxLifetime
	}

	// Redis defaults
	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = DefaultRedisPoolSize
	}
	if c.Redis.IdempotencyTTL == 0 {
		c.Redis.IdempotencyTTL = DefaultIdempotencyTTL
	}

	// Ledger defaults
	if c.Ledger.Workers == 0 {
		c.Ledger.Workers = DefaultLedgerWorkers
	}
	if c.Ledger.QueueSize == 0 {
		c.Ledger.QueueSize = DefaultLedgerQueueSize
	}
	if c.Ledger.WriteTimeout == 0 {
		c.Ledger.WriteTimeout = DefaultLedgerWriteTimeout
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
