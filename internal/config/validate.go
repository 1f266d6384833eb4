package config

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap/zapcore"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if _, err := c.MySQL.ParsedDSN(); err != nil {
		return err
	}
	if c.MySQL.MaxOpenConns < 1 {
		return errors.New("mysql.max_open_conns must be >= 1")
	}

	if c.Redis.Addr == "" {
		return errors.New("redis.addr is required")
	}

	if c.Ledger.Workers < 1 {
		return errors.New("ledger.workers must be >= 1")
	}
	if c.Ledger.QueueSize < 1 {
		return errors.New("ledger.queue_size must be >= 1")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return c.Market.Seed.validate()
}

// ParsedDSN parses the DSN and turns on parseTime, which the ledger needs to
// scan DATETIME columns.
func (c MySQLConfig) ParsedDSN() (*mysql.Config, error) {
	dsn, err := mysql.ParseDSN(c.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql.dsn: %w", err)
	}
	dsn.ParseTime = true
	return dsn, nil
}

func (s SeedConfig) validate() error {
	keys := make(map[string]struct{}, len(s.Items))
	for i, item := range s.Items {
		if item.Key == "" {
			return fmt.Errorf("market.seed.items[%d].key is required", i)
		}
		if item.Name == "" {
			return fmt.Errorf("market.seed.items[%d].name is required", i)
		}
		if _, dup := keys[item.Key]; dup {
			return fmt.Errorf("market.seed.items[%d]: duplicate key %q", i, item.Key)
		}
		keys[item.Key] = struct{}{}
	}

	for i, v := range s.Vendors {
		if v.Name == "" {
			return fmt.Errorf("market.seed.vendors[%d].name is required", i)
		}
		for j, st := range v.Stock {
			if _, ok := keys[st.Item]; !ok {
				return fmt.Errorf("market.seed.vendors[%d].stock[%d]: unknown item %q", i, j, st.Item)
			}
			if st.Quantity < 1 {
				return fmt.Errorf("market.seed.vendors[%d].stock[%d].quantity must be >= 1", i, j)
			}
		}
	}

	return nil
}
