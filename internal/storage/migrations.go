package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Veraticus/credit-limit-engine/internal/common"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Evaluation table",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS evaluations (
					row_number INTEGER PRIMARY KEY,
					customer_id TEXT NOT NULL,
					customer_key TEXT NOT NULL,
					classification TEXT,
					credit_limit REAL NOT NULL DEFAULT 0,
					outstanding_balance REAL NOT NULL DEFAULT 0,
					last_modification DATETIME,
					days_since_modification INTEGER,
					recently_modified BOOLEAN NOT NULL DEFAULT 0,
					promissory TEXT,
					contract TEXT,
					guarantor_id TEXT,
					pts_uso REAL NOT NULL,
					pts_adn REAL NOT NULL,
					pts_variabilidad REAL NOT NULL,
					pts_dpp REAL NOT NULL,
					pts_antiguedad REAL NOT NULL,
					pts_vencido REAL NOT NULL,
					pts_capacidad_pago REAL NOT NULL,
					final_score INTEGER,
					decision TEXT NOT NULL,
					suggested_limit TEXT NOT NULL
				)`,
				`CREATE INDEX idx_evaluations_customer_key ON evaluations(customer_key)`,
				`CREATE INDEX idx_evaluations_decision ON evaluations(decision)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Export metadata",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS export_metadata (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					run_id TEXT NOT NULL,
					source TEXT NOT NULL,
					as_of DATETIME NOT NULL,
					generated_at DATETIME NOT NULL,
					customers INTEGER NOT NULL,
					scored INTEGER NOT NULL,
					current_limit_total TEXT NOT NULL,
					suggested_limit_total TEXT NOT NULL,
					exported_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`ALTER TABLE evaluations ADD COLUMN run_id TEXT NOT NULL DEFAULT ''`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Debug("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("%w: schema version mismatch: expected %d, got %d",
			common.ErrDatabaseCorrupted, ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
