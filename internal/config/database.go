package config

import (
	"charmi-backend/internal/infrastructure/database"
)

// DBConfig maps the database section onto the connection settings used by the postgres package.
func (c *Config) DBConfig() *database.DBConfig {
	d := c.Database
	return &database.DBConfig{
		Host:              d.Host,
		Port:              d.Port,
		Username:          d.User,
		Password:          d.Password,
		DBName:            d.Name,
		SSLMode:           d.SSLMode,
		MaxConns:          d.MaxConns,
		MinConns:          d.MinConns,
		MaxConnLifetime:   d.MaxConnLifetime,
		MaxConnIdleTime:   d.MaxConnIdleTime,
		HealthCheckPeriod: d.HealthCheckPeriod,
		MaxRetries:        d.MaxRetries,
		RetryDelay:        d.RetryDelay,
		ConnectTimeout:    d.ConnectTimeout,
	}
}

// LoadDatabaseConfig is used by tools that only need a database connection.
func LoadDatabaseConfig() (*database.DBConfig, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	return cfg.DBConfig(), nil
}
