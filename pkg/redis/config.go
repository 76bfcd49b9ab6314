package redis

import (
	"fmt"
	"time"
)

// Config holds Redis cache store configuration
type Config struct {
	// Cache Strategy
	Enabled bool `env:"CACHE_ENABLED" envDefault:"true"`

	// Redis Connection
	Host     string `env:"CACHE_HOST" envDefault:"localhost"`
	Port     int    `env:"CACHE_PORT" envDefault:"6379"`
	Password string `env:"CACHE_PASSWORD"`
	Database int    `env:"CACHE_DATABASE" envDefault:"0"`

	// Connection Pool
	PoolSize     int           `env:"CACHE_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"CACHE_MIN_IDLE_CONNS" envDefault:"2"`
	MaxConnAge   time.Duration `env:"CACHE_MAX_CONN_AGE" envDefault:"1h"`
	PoolTimeout  time.Duration `env:"CACHE_POOL_TIMEOUT" envDefault:"4s"`
	IdleTimeout  time.Duration `env:"CACHE_IDLE_TIMEOUT" envDefault:"5m"`

	// Performance
	DialTimeout  time.Duration `env:"CACHE_DIAL_TIMEOUT" envDefault:"2s"`
	ReadTimeout  time.Duration `env:"CACHE_READ_TIMEOUT" envDefault:"500ms"`
	WriteTimeout time.Duration `env:"CACHE_WRITE_TIMEOUT" envDefault:"500ms"`

	// OpTimeout bounds every individual store call. The cache is best-effort:
	// a slow store must degrade to a miss, never stall a request the database
	// could serve.
	OpTimeout time.Duration `env:"CACHE_OP_TIMEOUT" envDefault:"1s"`
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil // Nothing else matters when the cache is off
	}
	if c.Host == "" {
		return fmt.Errorf("cache host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("cache port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Database < 0 {
		return fmt.Errorf("cache database cannot be negative, got %d", c.Database)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("cache pool_size must be at least 1")
	}
	if c.OpTimeout <= 0 {
		return fmt.Errorf("cache op_timeout must be positive")
	}
	return nil
}

// GetAddr returns the Redis address in host:port format
func (c *Config) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
