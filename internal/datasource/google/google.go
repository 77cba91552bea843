package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"showcase/internal/core"
	"showcase/internal/datasource"
)

// Client reads and writes records in a single sheet laid out as
// ID | Name | Category | Value | Status | CreatedAt, with an optional header row.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var (
	_ datasource.RecordLister  = (*Client)(nil)
	_ datasource.RecordGetter  = (*Client)(nil)
	_ datasource.RecordWriter  = (*Client)(nil)
	_ datasource.RecordDeleter = (*Client)(nil)
)

var errNoService = errors.New("sheets service not initialized")

// New wraps an existing Sheets service.
func New(svc *gsheet.Service, spreadsheetID, sheetName string) *Client {
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Records"
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

// NewFromEnv creates a Sheets client using service account credentials.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_SHEET_NAME (default "Records")
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return New(svc, spreadsheetID, os.Getenv("GOOGLE_SHEET_NAME")), nil
}

// newSheetsService uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS, in that order.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service", "credentials_size", len(credentialsJSON))
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

func (c *Client) dataRange() string {
	return fmt.Sprintf("%s!A:F", c.sheetName)
}

func (c *Client) readRows(ctx context.Context) ([][]interface{}, error) {
	if c.svc == nil {
		return nil, errNoService
	}
	rng := c.dataRange()
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// ListRecords returns every well-formed row in sheet order.
func (c *Client) ListRecords(ctx context.Context) ([]core.Record, error) {
	rows, err := c.readRows(ctx)
	if err != nil {
		return nil, err
	}
	records, skipped := parseRows(rows)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped malformed sheet rows", "sheet", c.sheetName, "skipped", skipped)
	}
	return records, nil
}

func (c *Client) GetRecord(ctx context.Context, id string) (core.Record, error) {
	records, err := c.ListRecords(ctx)
	if err != nil {
		return core.Record{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return core.Record{}, datasource.ErrNotFound
}

// CreateRecord appends r with a fresh id.
func (c *Client) CreateRecord(ctx context.Context, r core.Record) (core.Record, error) {
	if r.CreatedAt == "" {
		r.CreatedAt = core.Today()
	}
	if err := r.Validate(); err != nil {
		return core.Record{}, fmt.Errorf("validation failed: %w", err)
	}
	r.ID = uuid.NewString()
	if err := c.appendRow(ctx, r); err != nil {
		return core.Record{}, err
	}
	return r, nil
}

// UpsertRecord overwrites the row holding r.ID, appending when none exists.
// The sync worker uses it to mirror local records.
func (c *Client) UpsertRecord(ctx context.Context, r core.Record) error {
	rows, err := c.readRows(ctx)
	if err != nil {
		return err
	}
	idx := findRow(rows, r.ID)
	if idx < 0 {
		return c.appendRow(ctx, r)
	}
	rng := fmt.Sprintf("%s!A%d:F%d", c.sheetName, idx+1, idx+1)
	vr := &gsheet.ValueRange{Values: [][]interface{}{toRow(r)}}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) appendRow(ctx context.Context, r core.Record) error {
	if c.svc == nil {
		return errNoService
	}
	rng := c.dataRange()
	vr := &gsheet.ValueRange{Values: [][]interface{}{toRow(r)}}
	if _, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do(); err != nil {
		return fmt.Errorf("append to %s: %w", c.sheetName, err)
	}
	return nil
}

// DeleteRecord removes the row holding id from the sheet.
func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	rows, err := c.readRows(ctx)
	if err != nil {
		return err
	}
	idx := findRow(rows, id)
	if idx < 0 {
		return fmt.Errorf("delete %q: %w", id, datasource.ErrNotFound)
	}
	sheetID, err := c.sheetID(ctx)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(idx),
					EndIndex:   int64(idx + 1),
					// zero values would otherwise be dropped as empty
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d in %s: %w", idx+1, c.sheetName, err)
	}
	return nil
}

func (c *Client) sheetID(ctx context.Context) (int64, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == c.sheetName {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", c.sheetName)
}
