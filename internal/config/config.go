// Package config loads the market server configuration from YAML.
package config

import "time"

type Config struct {
	Market MarketConfig `yaml:"market"`
	Server ServerConfig `yaml:"server"`
	MySQL  MySQLConfig  `yaml:"mysql"`
	Redis  RedisConfig  `yaml:"redis"`
	Ledger LedgerConfig `yaml:"ledger"`
	Log    LogConfig    `yaml:"log"`
}

type MarketConfig struct {
	Name string     `yaml:"name"`
	Seed SeedConfig `yaml:"seed"`
}

// SeedConfig is the catalog loaded at startup. Vendors reference items by
// key, so a key stocked by several vendors is one item.
type SeedConfig struct {
	Items   []SeedItem   `yaml:"items"`
	Vendors []SeedVendor `yaml:"vendors"`
}

type SeedItem struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

type SeedVendor struct {
	Name  string      `yaml:"name"`
	Stock []SeedStock `yaml:"stock"`
}

type SeedStock struct {
	Item     string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
}

type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

type MySQLConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	PoolSize       int           `yaml:"pool_size"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

type LedgerConfig struct {
	Workers      int           `yaml:"workers"`
	QueueSize    int           `yaml:"queue_size"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}
