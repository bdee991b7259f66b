package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/Veraticus/credit-limit-engine/internal/config"
	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/Veraticus/credit-limit-engine/internal/storage"
	"github.com/spf13/viper"
)

// initExport opens the SQLite export database and brings its schema up to date.
func initExport(ctx context.Context, dbPath string) (*storage.SQLiteStorage, func(), error) {
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	closeStore := func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close export database", "error", err)
		}
	}
	return store, closeStore, nil
}

// describeExport reads the stored run back from the export database and
// returns a one-line note for the terminal.
func describeExport(ctx context.Context, store *storage.SQLiteStorage, runID string) (string, error) {
	info, err := store.LatestExport(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read export metadata: %w", err)
	}
	if info.RunID != runID {
		return "", fmt.Errorf("export holds run %s, expected %s", info.RunID, runID)
	}

	counts, err := store.CountByDecision(ctx)
	if err != nil {
		return "", err
	}
	review := 0
	for d, n := range counts {
		if d.NeedsReview() {
			review += n
		}
	}

	slog.Info("Verified SQLite export",
		"run_id", info.RunID,
		"customers", info.Customers,
		"increases", counts[model.DecisionIncrease],
		"decreases", counts[model.DecisionDecrease],
		"manual_review", review)

	return fmt.Sprintf("%d clientes exportados a SQLite, %d para revisión manual", info.Customers, review), nil
}

func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		configFile = filepath.Join(dir, "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}

// openBrowser tries to open the URL in the default browser.
func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start() //nolint:gosec
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start() //nolint:gosec
	case "darwin":
		err = exec.Command("open", url).Start() //nolint:gosec
	}
	if err != nil {
		slog.Debug("Failed to open browser", "error", err)
	}
}
