package db

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config holds MySQL/GORM database configuration
type Config struct {
	// Connection Settings
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"3306"`
	Database string `env:"DB_NAME" envDefault:"storefront"`
	Username string `env:"DB_USER" envDefault:"storefront"`
	Password string `env:"DB_PASSWORD"`

	// Connection Pool Settings
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"30m"`

	// MySQL Specific Settings
	Charset   string `env:"DB_CHARSET" envDefault:"utf8mb4"`
	Collation string `env:"DB_COLLATION" envDefault:"utf8mb4_unicode_ci"`
	TimeZone  string `env:"DB_TIMEZONE" envDefault:"UTC"`

	// TLS mode passed through to the driver: "", "true", "skip-verify", "preferred"
	TLSMode string `env:"DB_TLS_MODE"`

	// GORM Settings
	PrepareStmt  bool          `env:"DB_PREPARE_STMT" envDefault:"true"`
	QueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"30s"`

	// LogLevel controls GORM query logging: silent, error, warn, info
	LogLevel string `env:"DB_LOG_LEVEL" envDefault:"error"`
}

// Validate checks if the database configuration is valid
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("database port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Username == "" {
		return fmt.Errorf("database username is required")
	}
	if c.MaxOpenConns < 1 {
		return fmt.Errorf("max_open_conns must be at least 1")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

// GetDSN returns the MySQL Data Source Name using the official MySQL driver config builder
func (c *Config) GetDSN() string {
	cfg := mysql.Config{
		User:                 c.Username,
		Passwd:               c.Password,
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%d", c.Host, c.Port),
		DBName:               c.Database,
		Collation:            c.Collation,
		Loc:                  parseLocation(c.TimeZone),
		ParseTime:            true,
		AllowNativePasswords: true,
	}

	if c.TLSMode != "" {
		cfg.TLSConfig = c.TLSMode
	}

	return cfg.FormatDSN()
}

// parseLocation parses timezone string to *time.Location
func parseLocation(tz string) *time.Location {
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		// Fallback to UTC if timezone parsing fails
		loc, _ = time.LoadLocation("UTC")
	}
	return loc
}
