package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/m3rciful/leadbot/core/logger"
	"github.com/m3rciful/leadbot/internal/lead"
	"log/slog"
)

// Config locates the target spreadsheet and the service account credentials.
type Config struct {
	CredentialsFile string `yaml:"credentials_file" envconfig:"SHEETS_CREDENTIALS_FILE"`
	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SHEETS_SPREADSHEET_ID"`
	SheetName       string `yaml:"sheet_name" envconfig:"SHEETS_SHEET_NAME"`
}

// Store persists leads as rows of a single Google Sheets tab.
type Store struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	columns       []string
}

// NewStore authenticates with service account JWT credentials and binds
// to one sheet. The columns define the row layout for writes and reads.
func NewStore(ctx context.Context, cfg Config, columns []string) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet_id is required")
	}
	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "Sheet1"
	}

	creds, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("sheets: read credentials: %w", err)
	}
	jwtCfg, err := google.JWTConfigFromJSON(creds, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("sheets: parse credentials: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets: service init: %w", err)
	}

	logger.SHEETS.Info("sheets store ready",
		slog.String("event", "init"),
		slog.String("spreadsheet_id", cfg.SpreadsheetID),
		slog.String("sheet", sheetName),
	)

	return &Store{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		columns:       columns,
	}, nil
}

// Append writes the lead as one row with a single values.append call.
func (s *Store) Append(ctx context.Context, l lead.Lead) error {
	row := l.Row(s.columns)
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}

	vr := &sheetsapi.ValueRange{Values: [][]interface{}{cells}}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetName, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append row: %w", err)
	}
	logger.SHEETS.Debug("row appended",
		slog.String("event", "row.append"),
		slog.Int64("user_id", l.UserID),
		slog.String("sheet", s.sheetName),
	)
	return nil
}

// All reads the whole sheet with one values.get call and maps rows by
// the configured column order. A header row is skipped if present.
func (s *Store) All(ctx context.Context) ([]lead.Lead, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.sheetName).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read rows: %w", err)
	}

	leads := make([]lead.Lead, 0, len(resp.Values))
	for i, raw := range resp.Values {
		record := make([]string, len(raw))
		for j, cell := range raw {
			record[j], _ = cell.(string)
		}
		if i == 0 && isHeader(record) {
			continue
		}
		leads = append(leads, lead.FromRecord(s.columns, record))
	}
	logger.SHEETS.Debug("rows read",
		slog.String("event", "rows.read"),
		slog.Int("rows", len(leads)),
		slog.String("sheet", s.sheetName),
	)
	return leads, nil
}

func isHeader(record []string) bool {
	return len(record) > 0 && record[0] == lead.ColTimestamp
}
