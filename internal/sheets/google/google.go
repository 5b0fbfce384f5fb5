package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	defaultExpensesSheet = "Expenses"
	defaultSummarySheet  = "Summary"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	expensesSheet string
	summarySheet  string
}

var _ ports.ReportWriter = (*Client)(nil)

// Config selects the spreadsheet and the service account used to write it.
type Config struct {
	SpreadsheetID string
	ExpensesSheet string
	SummarySheet  string
	// CredentialsJSON wins over CredentialsFile when both are set.
	CredentialsJSON string
	CredentialsFile string
}

// NewFromEnv creates a client from GOOGLE_SPREADSHEET_ID, GOOGLE_SHEET_NAME,
// GOOGLE_SUMMARY_SHEET_NAME and the service account variables
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	cfg := Config{
		SpreadsheetID:   strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID")),
		ExpensesSheet:   strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME")),
		SummarySheet:    strings.TrimSpace(os.Getenv("GOOGLE_SUMMARY_SHEET_NAME")),
		CredentialsJSON: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")),
		CredentialsFile: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")),
	}
	if cfg.CredentialsJSON == "" && cfg.CredentialsFile == "" {
		cfg.CredentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	return New(ctx, cfg)
}

// New creates a client authenticated with service account credentials.
// Extra options are appended after the credentials.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := credentials(ctx, cfg)
	if err != nil {
		return nil, err
	}
	base := []goption.ClientOption{
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	}
	svc, err := gsheet.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", cfg.SpreadsheetID)
	return NewWithService(svc, cfg), nil
}

// NewWithService wraps an existing service. Used by tests pointing the
// service at a fake endpoint.
func NewWithService(svc *gsheet.Service, cfg Config) *Client {
	expenses := cfg.ExpensesSheet
	if expenses == "" {
		expenses = defaultExpensesSheet
	}
	summary := cfg.SummarySheet
	if summary == "" {
		summary = defaultSummarySheet
	}
	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		expensesSheet: expenses,
		summarySheet:  summary,
	}
}

func credentials(ctx context.Context, cfg Config) ([]byte, error) {
	switch {
	case cfg.CredentialsJSON != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		return []byte(cfg.CredentialsJSON), nil
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
}

// WriteReport clears both sheets and rewrites them from x.
func (c *Client) WriteReport(ctx context.Context, x ports.Export) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if err := c.replace(ctx, c.expensesSheet, expenseRows(x.Expenses)); err != nil {
		return err
	}
	if err := c.replace(ctx, c.summarySheet, summaryRows(x)); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Report exported to Google Sheets",
		"version", x.Version,
		"expenses", len(x.Expenses),
		"spreadsheet_id", c.spreadsheetID)
	return nil
}

func (c *Client) replace(ctx context.Context, sheet string, rows [][]any) error {
	all := fmt.Sprintf("%s!A:Z", sheet)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, all, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", all, err)
	}

	rng := fmt.Sprintf("%s!A1", sheet)
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func expenseRows(expenses []core.Expense) [][]any {
	rows := make([][]any, 0, len(expenses)+1)
	rows = append(rows, []any{"ID", "Date", "Description", "Category", "Amount"})
	for _, e := range expenses {
		rows = append(rows, []any{
			fmt.Sprint(e.ID),
			e.Date.UTC().Format("2006-01-02 15:04"),
			e.Description,
			e.Category,
			e.Amount.Float(),
		})
	}
	return rows
}

func summaryRows(x ports.Export) [][]any {
	r := x.Report
	rows := [][]any{
		{"Generated", r.GeneratedAt.UTC().Format("2006-01-02 15:04:05"), "Version", x.Version},
		{},
		{"Card", "Value", "Change"},
	}
	for _, card := range r.Summary.Cards() {
		rows = append(rows, []any{card.Label, card.Value.Float(), card.Change.String()})
	}

	rows = append(rows, []any{}, []any{"Window", "Total", "Count"})
	for _, w := range r.Windows {
		rows = append(rows, []any{w.Label, w.Total.Float(), w.Count})
	}

	rows = append(rows, []any{}, []any{"Category", "Total"})
	for _, ct := range r.ByCategory {
		rows = append(rows, []any{ct.Name, ct.Amount.Float()})
	}

	rows = append(rows, []any{},
		[]any{"Budget", r.Budget.Limit.Float()},
		[]any{"Available", r.Budget.Available.Float()},
		[]any{"Exceeded", r.Budget.Exceeded},
	)
	return rows
}
