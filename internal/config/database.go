package config

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// Create tables if they don't exist
	if err := createTables(db, logger); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := seedCategories(db); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id VARCHAR(36) PRIMARY KEY,
		code VARCHAR(64) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS equipment (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS journal_entries (
		id VARCHAR(36) PRIMARY KEY,
		category VARCHAR(64),
		category_id VARCHAR(36) REFERENCES categories(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		author_id VARCHAR(36) NOT NULL REFERENCES users(id),
		author_name VARCHAR(255) NOT NULL,
		status VARCHAR(16) NOT NULL CHECK (status IN ('draft', 'active', 'cancelled')),
		priority VARCHAR(16) NOT NULL CHECK (priority IN ('low', 'medium', 'high', 'critical')),
		equipment_id VARCHAR(36) REFERENCES equipment(id),
		location_id VARCHAR(36) REFERENCES locations(id),
		cancelled_at TIMESTAMPTZ,
		cancelled_by VARCHAR(255),
		cancel_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS shift_handovers (
		id VARCHAR(36) PRIMARY KEY,
		shift_date DATE NOT NULL,
		shift_type VARCHAR(8) NOT NULL CHECK (shift_type IN ('day', 'night')),
		outgoing_operator_id VARCHAR(36) NOT NULL REFERENCES users(id),
		outgoing_operator_name VARCHAR(255) NOT NULL,
		incoming_operator_id VARCHAR(36) REFERENCES users(id),
		incoming_operator_name VARCHAR(255),
		ongoing_works TEXT,
		special_instructions TEXT,
		incidents TEXT,
		handover_notes TEXT,
		status VARCHAR(16) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed', 'cancelled')),
		handed_over_at TIMESTAMPTZ,
		received_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB, logger *zap.Logger) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_journal_entries_created_at ON journal_entries(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_journal_entries_author ON journal_entries(author_id)",
		"CREATE INDEX IF NOT EXISTS idx_shift_handovers_shift_date ON shift_handovers(shift_date DESC, created_at DESC)",
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			// Don't return error here, indexes are not critical
			logger.Warn("failed to create index", zap.String("statement", idx), zap.Error(err))
		}
	}

	return nil
}

// DefaultCategory is a category present on a fresh install
type DefaultCategory struct {
	Code      string
	Name      string
	SortOrder int
}

// DefaultCategories are the categories the journal started with
var DefaultCategories = []DefaultCategory{
	{Code: "equipment_work", Name: "Работы на оборудовании", SortOrder: 1},
	{Code: "relay_protection", Name: "РЗА и телемеханика", SortOrder: 2},
	{Code: "team_permits", Name: "Допуски бригад", SortOrder: 3},
	{Code: "emergency", Name: "Аварийные сообщения", SortOrder: 4},
	{Code: "network_outages", Name: "Отключения в сети", SortOrder: 5},
	{Code: "other", Name: "Прочие события", SortOrder: 6},
}

func seedCategories(db *sqlx.DB) error {
	for _, c := range DefaultCategories {
		_, err := db.Exec(`
			INSERT INTO categories (id, code, name, sort_order)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (code) DO NOTHING
		`, uuid.New().String(), c.Code, c.Name, c.SortOrder)
		if err != nil {
			return err
		}
	}
	return nil
}
