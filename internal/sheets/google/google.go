package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"moneta/internal/config"
	"moneta/internal/core"
	ports "moneta/internal/sheets"
)

// Client mirrors ledger snapshots to a Google Sheets tab.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.LedgerExporter = (*Client)(nil)

// New creates a Sheets exporter from the application config.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, errors.New("missing Google spreadsheet ID")
	}

	sheetName := cfg.GoogleSheetName
	if sheetName == "" {
		sheetName = "Transactions"
	}

	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets exporter ready",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", sheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func loadCredentials(cfg *config.Config) ([]byte, error) {
	switch {
	case cfg.GoogleOAuthClientJSON != "":
		return []byte(cfg.GoogleOAuthClientJSON), nil
	case cfg.GoogleOAuthClientFile != "":
		data, err := os.ReadFile(cfg.GoogleOAuthClientFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing Google credentials (set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE)")
	}
}

// ExportSnapshot replaces the sheet contents with the given transactions.
// Clearing first keeps deleted transactions from lingering in the sheet.
func (c *Client) ExportSnapshot(ctx context.Context, txs []core.Transaction) error {
	clearRange := fmt.Sprintf("%s!A:H", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	values := make([][]interface{}, 0, len(txs)+1)
	values = append(values, headerRow())
	for _, tx := range txs {
		values = append(values, transactionRow(tx))
	}

	writeRange := fmt.Sprintf("%s!A1", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, &gsheet.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Exported ledger snapshot",
		"rows", len(txs),
		"sheet", c.sheetName)

	return nil
}

func headerRow() []interface{} {
	return []interface{}{"ID", "Type", "Category", "Amount", "Currency", "Date", "Notes", "Recurring"}
}

func transactionRow(tx core.Transaction) []interface{} {
	recurring := ""
	switch {
	case tx.IsRecurringInstance:
		recurring = fmt.Sprintf("instance of %d", tx.ParentID)
	case tx.RecurrenceIntervalDays > 0:
		recurring = fmt.Sprintf("every %d days", tx.RecurrenceIntervalDays)
	}

	return []interface{}{
		fmt.Sprintf("%d", tx.ID),
		string(tx.Type),
		tx.Category,
		tx.Amount.String(),
		tx.CurrencyOrDefault(),
		tx.Date.Format(time.DateOnly),
		tx.Notes,
		recurring,
	}
}
