package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/credit-limit-engine/internal/common"
	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/Veraticus/credit-limit-engine/internal/normalize"
	"github.com/Veraticus/credit-limit-engine/internal/report"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage exports the enriched evaluation table to SQLite. Every export
// replaces the previous one.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// ExportInfo describes the run currently held in the database.
type ExportInfo struct {
	AsOf                time.Time
	GeneratedAt         time.Time
	RunID               string
	Source              string
	CurrentLimitTotal   string
	SuggestedLimitTotal string
	Customers           int
	Scored              int
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Write replaces the stored evaluations with the report's.
func (s *SQLiteStorage) Write(ctx context.Context, r *report.Report) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReport(r); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM evaluations`); err != nil {
		return fmt.Errorf("failed to clear evaluations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM export_metadata`); err != nil {
		return fmt.Errorf("failed to clear export metadata: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO evaluations (
			row_number, run_id, customer_id, customer_key, classification,
			credit_limit, outstanding_balance,
			last_modification, days_since_modification, recently_modified,
			promissory, contract, guarantor_id,
			pts_uso, pts_adn, pts_variabilidad, pts_dpp, pts_antiguedad, pts_vencido, pts_capacidad_pago,
			final_score, decision, suggested_limit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, ev := range r.Evaluations {
		if _, err := stmt.ExecContext(ctx, evaluationArgs(r.RunID, i, ev)...); err != nil {
			return fmt.Errorf("failed to insert evaluation for row %d: %w", ev.Customer.Row, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO export_metadata (
			id, run_id, source, as_of, generated_at, customers, scored,
			current_limit_total, suggested_limit_total
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.RunID, r.Source, r.AsOf.UTC(), r.GeneratedAt.UTC(), r.Summary.Customers, r.Summary.Scored,
		r.Summary.CurrentLimitTotal.String(), r.Summary.SuggestedLimitTotal.String())
	if err != nil {
		return fmt.Errorf("failed to save export metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}

	slog.Info("Exported evaluations to SQLite",
		"path", s.dbPath,
		"run_id", r.RunID,
		"rows", len(r.Evaluations))
	return nil
}

// LatestExport returns the metadata of the stored run.
func (s *SQLiteStorage) LatestExport(ctx context.Context) (*ExportInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var info ExportInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, source, as_of, generated_at, customers, scored,
			current_limit_total, suggested_limit_total
		FROM export_metadata WHERE id = 1
	`).Scan(&info.RunID, &info.Source, &info.AsOf, &info.GeneratedAt, &info.Customers, &info.Scored,
		&info.CurrentLimitTotal, &info.SuggestedLimitTotal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query export metadata: %w", err)
	}

	return &info, nil
}

// CountByDecision returns the number of stored evaluations per decision.
func (s *SQLiteStorage) CountByDecision(ctx context.Context) (map[model.Decision]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT decision, COUNT(*) FROM evaluations GROUP BY decision`)
	if err != nil {
		return nil, fmt.Errorf("failed to count decisions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[model.Decision]int)
	for rows.Next() {
		var d string
		var n int
		if err := rows.Scan(&d, &n); err != nil {
			return nil, fmt.Errorf("failed to scan decision count: %w", err)
		}
		counts[model.Decision(d)] = n
	}

	return counts, rows.Err()
}

func evaluationArgs(runID string, i int, ev model.Evaluation) []any {
	c := ev.Customer

	var lastMod, days, final any
	if ev.LastModification != nil {
		lastMod = *ev.LastModification
	}
	if ev.DaysSinceModification != nil {
		days = *ev.DaysSinceModification
	}
	if ev.FinalScore != nil {
		final = *ev.FinalScore
	}

	var promissory, contract, guarantor any
	if ev.Coverage != nil {
		promissory = nullIfEmpty(ev.Coverage.Promissory)
		contract = nullIfEmpty(ev.Coverage.Contract)
		guarantor = nullIfEmpty(ev.Coverage.GuarantorID)
	}

	rowNumber := c.Row
	if rowNumber == 0 {
		rowNumber = i + 1
	}

	return []any{
		rowNumber,
		runID,
		c.ID.String(),
		normalize.CustomerKey(c.ID),
		nullIfEmpty(c.Classification.String()),
		c.CreditLimit.Number(0),
		c.OutstandingBalance.Number(0),
		lastMod,
		days,
		ev.RecentlyModified,
		promissory,
		contract,
		guarantor,
		ev.Scores.Uso,
		ev.Scores.ADN,
		ev.Scores.Variabilidad,
		ev.Scores.DPP,
		ev.Scores.Antiguedad,
		ev.Scores.Vencido,
		ev.Scores.CapacidadPago,
		final,
		string(ev.Decision),
		ev.SuggestedLimit.String(),
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
