package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/credit-limit-engine/internal/cli"
	"github.com/Veraticus/credit-limit-engine/internal/common"
	"github.com/Veraticus/credit-limit-engine/internal/config"
	"github.com/Veraticus/credit-limit-engine/internal/engine"
	"github.com/Veraticus/credit-limit-engine/internal/report"
	"github.com/Veraticus/credit-limit-engine/internal/service"
	"github.com/Veraticus/credit-limit-engine/internal/sheets"
	"github.com/Veraticus/credit-limit-engine/internal/storage"
	"github.com/Veraticus/credit-limit-engine/internal/tui"
	"github.com/Veraticus/credit-limit-engine/internal/workbook"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const asOfLayout = "2006-01-02"

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate [path]",
		Short: "Score a portfolio workbook and write the credit analysis",
		Long: `Score every customer of a portfolio workbook and write the results.

The workbook must hold the portfolio table (first sheet unless --sheet is
given), the limit modification history and the coverage documents. When no
path is given it is asked for interactively.

The analysis is written to Resultado_Analisis_credito.xlsx next to the input
unless --output is given. It can also be exported to SQLite and published to
Google Sheets.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEvaluate,
	}

	cmd.Flags().String("sheet", "", "portfolio sheet (default: first sheet)")
	cmd.Flags().String("history-sheet", workbook.DefaultHistorySheet, "limit modification history sheet")
	cmd.Flags().String("coverage-sheet", workbook.DefaultCoverageSheet, "coverage documents sheet")
	cmd.Flags().StringP("output", "o", "", "output workbook (default: next to the input)")
	cmd.Flags().String("as-of", "", "evaluation date, YYYY-MM-DD (default: today)")
	cmd.Flags().String("sqlite", "", "also export the evaluations to this SQLite database")
	cmd.Flags().Bool("publish", false, "also publish the analysis to Google Sheets")
	cmd.Flags().Bool("browse", false, "browse the results in the terminal when done")

	_ = viper.BindPFlag("input.sheet", cmd.Flags().Lookup("sheet"))
	_ = viper.BindPFlag("input.history_sheet", cmd.Flags().Lookup("history-sheet"))
	_ = viper.BindPFlag("input.coverage_sheet", cmd.Flags().Lookup("coverage-sheet"))
	_ = viper.BindPFlag("output.path", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("evaluate.as_of", cmd.Flags().Lookup("as-of"))
	_ = viper.BindPFlag("export.sqlite_path", cmd.Flags().Lookup("sqlite"))

	return cmd
}

// evaluateOptions are the resolved settings of one run.
type evaluateOptions struct {
	asOf       time.Time
	input      string
	output     string
	sqlitePath string
	sheets     workbook.Options
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	opts, err := loadEvaluateOptions(time.Now())
	if err != nil {
		return err
	}

	if len(args) > 0 {
		opts.input = args[0]
	} else {
		reader := cli.NewNonBlockingReader(cmd.InOrStdin())
		opts.input, err = cli.PromptPath(ctx, reader, out, "Ruta del archivo a analizar")
		if err != nil {
			return fmt.Errorf("failed to read input path: %w", err)
		}
	}
	opts.input = config.ExpandPath(opts.input)
	if opts.output == "" {
		opts.output = workbook.DefaultOutputPath(opts.input)
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = interrupts.HandleInterrupts(ctx)

	xlsx := workbook.NewWriter(opts.output)
	writers := []service.ReportWriter{xlsx}
	var store *storage.SQLiteStorage
	if opts.sqlitePath != "" {
		var closeStore func()
		store, closeStore, err = initExport(ctx, opts.sqlitePath)
		if err != nil {
			return err
		}
		defer closeStore()
		writers = append(writers, store)
	}
	if publish, _ := cmd.Flags().GetBool("publish"); publish {
		publisher, pubErr := initPublisher(ctx)
		if pubErr != nil {
			return pubErr
		}
		writers = append(writers, publisher)
	}

	r, err := evaluate(ctx, opts, out, writers, interrupts.OutputWritten)
	if err != nil {
		if interrupts.WasInterrupted() {
			return nil
		}
		return err
	}

	fmt.Fprintln(out, cli.RenderSummary(r.Summary))
	fmt.Fprintln(out, cli.FormatSuccess("Resultados guardados en "+xlsx.Path()))
	if store != nil {
		note, err := describeExport(ctx, store, r.RunID)
		if err != nil {
			slog.Warn("Failed to verify SQLite export", "path", opts.sqlitePath, "error", err)
		} else {
			fmt.Fprintln(out, cli.FormatInfo(note))
		}
	}

	if browse, _ := cmd.Flags().GetBool("browse"); browse {
		return tui.Browse(ctx, r.Evaluations)
	}
	return nil
}

// loadEvaluateOptions reads the run settings from flags, config and env.
func loadEvaluateOptions(now time.Time) (evaluateOptions, error) {
	opts := evaluateOptions{
		asOf:       now,
		output:     config.ExpandPath(viper.GetString("output.path")),
		sqlitePath: config.ExpandPath(viper.GetString("export.sqlite_path")),
		sheets: workbook.Options{
			PrimarySheet:  viper.GetString("input.sheet"),
			HistorySheet:  viper.GetString("input.history_sheet"),
			CoverageSheet: viper.GetString("input.coverage_sheet"),
		},
	}

	if s := viper.GetString("evaluate.as_of"); s != "" {
		asOf, err := time.ParseInLocation(asOfLayout, s, time.Local)
		if err != nil {
			return opts, common.NewUserError("La fecha de corte debe tener el formato AAAA-MM-DD", err)
		}
		opts.asOf = asOf
	}

	return opts, nil
}

// evaluate runs the pipeline: load, score and hand the report to every writer
// in order. written is called after each writer succeeds.
func evaluate(ctx context.Context, opts evaluateOptions, progress io.Writer, writers []service.ReportWriter, written func()) (*report.Report, error) {
	portfolio, err := workbook.NewLoader(opts.sheets).Load(ctx, opts.input)
	if err != nil {
		return nil, inputError(err)
	}

	slog.Info("Loaded portfolio",
		"source", portfolio.Source,
		"customers", len(portfolio.Customers),
		"limit_changes", len(portfolio.LimitChanges),
		"coverage", len(portfolio.Coverage))

	bar := cli.NewScoringProgress(progress)
	eng := engine.NewWithConfig(engine.Config{
		AsOf:     opts.asOf,
		Logger:   slog.Default(),
		Progress: bar.Update,
	})

	evaluations, err := eng.Evaluate(ctx, portfolio)
	if err != nil {
		return nil, inputError(err)
	}

	r := report.New(portfolio, evaluations, opts.asOf)
	logger := slog.With("run_id", r.RunID)
	logger.Info("Evaluation complete",
		"customers", r.Summary.Customers,
		"scored", r.Summary.Scored)

	for _, w := range writers {
		if err := w.Write(ctx, r); err != nil {
			return nil, outputError(err)
		}
		if written != nil {
			written()
		}
	}

	return r, nil
}

func inputError(err error) error {
	switch {
	case errors.Is(err, common.ErrInputNotFound):
		return common.NewUserError("No se encontró el archivo de entrada", err)
	case errors.Is(err, common.ErrMissingSheet), errors.Is(err, common.ErrMissingColumn):
		return common.NewUserError("El archivo no tiene la estructura esperada", err)
	case errors.Is(err, common.ErrNoCustomers):
		return common.NewUserError("El archivo no contiene clientes", err)
	default:
		return err
	}
}

func outputError(err error) error {
	switch {
	case errors.Is(err, common.ErrOutputLocked):
		return common.NewUserError("No se pudo guardar el resultado. Cierre el archivo si está abierto en Excel", err)
	case errors.Is(err, common.ErrMaxRetries), errors.Is(err, common.ErrSheetsUnavailable):
		return common.NewUserError("No se pudo publicar en Google Sheets", err)
	default:
		return err
	}
}

func initPublisher(ctx context.Context) (*sheets.Writer, error) {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, common.NewUserError("Google Sheets no está configurado. Ejecute 'creditlimit auth sheets'", err)
	}
	return sheets.NewWriter(ctx, *cfg, slog.Default())
}
