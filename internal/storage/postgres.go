package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/estoquehub/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Database struct {
	*sqlx.DB
}

// NewDatabase creates a new connection pool and verifies it
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	return &Database{DB: db}, nil
}

// Ping checks the database is reachable
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Close closes the connection pool
func (d *Database) Close() error {
	return d.DB.Close()
}

// RunMigrations applies the schema
func (d *Database) RunMigrations() error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(100) NOT NULL,
			email VARCHAR(254) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			sku VARCHAR(100) UNIQUE NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 0 CONSTRAINT products_quantity_check CHECK (quantity >= 0),
			min_quantity INTEGER NOT NULL DEFAULT 0 CONSTRAINT products_min_quantity_check CHECK (min_quantity >= 0),
			category VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS stock_reports (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			total_products INTEGER NOT NULL,
			total_items BIGINT NOT NULL,
			low_stock INTEGER NOT NULL,
			out_of_stock INTEGER NOT NULL,
			triggered_by VARCHAR(100) NOT NULL,
			notified BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`,
		`CREATE INDEX IF NOT EXISTS idx_products_low_stock ON products(quantity) WHERE quantity <= min_quantity`,
		`CREATE INDEX IF NOT EXISTS idx_stock_reports_created_at ON stock_reports(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := d.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
