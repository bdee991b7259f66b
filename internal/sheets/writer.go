package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Veraticus/credit-limit-engine/internal/common"
	"github.com/Veraticus/credit-limit-engine/internal/report"
	"github.com/Veraticus/credit-limit-engine/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Tab names, shared with the xlsx report.
const (
	AnalysisTab = "Evaluacion_Crediticia"
	SummaryTab  = "Resumen_Ejecutivo"
)

// Writer publishes reports to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newWriterWithService(srv, config, logger), nil
}

func newWriterWithService(srv *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}
}

// Write replaces the contents of both tabs with the report.
func (w *Writer) Write(ctx context.Context, r *report.Report) error {
	w.logger.Info("publishing report",
		"run_id", r.RunID,
		"evaluations", len(r.Evaluations))

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	var tabs map[string]int64
	err = common.WithRetry(ctx, func() error {
		var tabErr error
		tabs, tabErr = w.ensureTabs(ctx, spreadsheetID)
		return classifyError(tabErr)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to prepare tabs: %w", err)
	}

	analysis := EvaluationValues(r)
	summary := SummaryValues(r)

	for _, tab := range []struct {
		name   string
		values [][]any
	}{
		{name: AnalysisTab, values: analysis},
		{name: SummaryTab, values: summary},
	} {
		err = common.WithRetry(ctx, func() error {
			if clearErr := w.clearTab(ctx, spreadsheetID, tab.name); clearErr != nil {
				return classifyError(clearErr)
			}
			return classifyError(w.writeData(ctx, spreadsheetID, tab.name, tab.values))
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", tab.name, err)
		}
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return classifyError(w.applyFormatting(ctx, spreadsheetID, tabs, len(analysis), len(r.Header())))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already published.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("report published",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(analysis))

	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = oauthConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: AnalysisTab}},
			{Properties: &sheets.SheetProperties{Title: SummaryTab}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// ensureTabs returns the sheet ID of every tab, adding the ones the
// spreadsheet lacks.
func (w *Writer) ensureTabs(ctx context.Context, spreadsheetID string) (map[string]int64, error) {
	ss, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to access spreadsheet %s: %w", spreadsheetID, err)
	}

	tabs := make(map[string]int64, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			tabs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}

	var requests []*sheets.Request
	for _, name := range []string{AnalysisTab, SummaryTab} {
		if _, ok := tabs[name]; !ok {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: name}},
			})
		}
	}
	if len(requests) == 0 {
		return tabs, nil
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to add tabs: %w", err)
	}
	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			tabs[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
		}
	}

	return tabs, nil
}

// clearTab clears all data from a tab.
func (w *Writer) clearTab(ctx context.Context, spreadsheetID, tab string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, quoteTab(tab), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes values to a tab in batches to stay under API limits.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))
		batch := values[i:end]

		rangeStr := fmt.Sprintf("%s!A%d", quoteTab(tab), i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "tab", tab, "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// applyFormatting bolds and freezes the analysis header, formats the suggested
// limit as currency and styles the summary title.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, tabs map[string]int64, totalRows, columns int) error {
	analysisID := tabs[AnalysisTab]
	summaryID := tabs[SummaryTab]

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          analysisID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(columns),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
						BackgroundColor: &sheets.Color{
							Red:   0xBD / 255.0,
							Green: 0xD7 / 255.0,
							Blue:  0xEE / 255.0,
						},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          analysisID,
					StartRowIndex:    1,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: int64(columns - 1),
					EndColumnIndex:   int64(columns),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    "CURRENCY",
							Pattern: "$#,##0",
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: analysisID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    analysisID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(columns),
				},
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          summaryID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold:     true,
							FontSize: 14,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

func quoteTab(tab string) string {
	return "'" + tab + "'"
}

// classifyError tells the retry loop which API failures are worth another
// attempt: rate limits and server errors are, other API errors are not.
func classifyError(err error) error {
	var apiErr *googleapi.Error
	if err == nil || !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", common.ErrSheetsUnavailable, err)
	default:
		return &common.RetryableError{Err: err, Retryable: false}
	}
}
