package services

import (
	"context"
	"fmt"
	"log"

	"CounterPOS/app/api"
	"CounterPOS/app/config"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsService exports the order history to a Google Sheet. Optional;
// shops that do their bookkeeping in Sheets pair a service account to
// the spreadsheet and export on demand.
type SheetsService struct {
	cfg    config.SheetsConfig
	client *api.Client
}

// NewSheetsService creates a new sheets export service.
func NewSheetsService(cfg config.SheetsConfig, client *api.Client) *SheetsService {
	return &SheetsService{cfg: cfg, client: client}
}

// Enabled reports whether the export is configured.
func (s *SheetsService) Enabled() bool {
	return s.cfg.Enabled
}

func (s *SheetsService) service(ctx context.Context) (*sheets.Service, error) {
	if s.cfg.CredentialsJSON == "" || s.cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("missing credentials or spreadsheet ID")
	}

	creds, err := google.CredentialsFromJSON(ctx, []byte(s.cfg.CredentialsJSON), sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("invalid service account credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// TestConnection verifies the credentials can reach the spreadsheet.
func (s *SheetsService) TestConnection() error {
	ctx := context.Background()
	srv, err := s.service(ctx)
	if err != nil {
		return err
	}

	if _, err := srv.Spreadsheets.Get(s.cfg.SpreadsheetID).Do(); err != nil {
		return fmt.Errorf("unable to access spreadsheet: %w", err)
	}
	return nil
}

// ExportOrders replaces the configured sheet's contents with the full
// order history and returns the number of exported orders.
func (s *SheetsService) ExportOrders() (int, error) {
	if !s.cfg.Enabled {
		return 0, fmt.Errorf("sheets export is disabled")
	}

	orders, err := s.client.ListOrders()
	if err != nil {
		return 0, fmt.Errorf("unable to fetch orders: %w", err)
	}

	ctx := context.Background()
	srv, err := s.service(ctx)
	if err != nil {
		return 0, err
	}

	values := [][]interface{}{
		{"Order ID", "Date", "Total"},
	}
	for _, o := range orders {
		values = append(values, []interface{}{o.ID, o.OrderDate, o.Total})
	}

	clearRange := fmt.Sprintf("%s!A:C", s.cfg.SheetName)
	if _, err := srv.Spreadsheets.Values.Clear(s.cfg.SpreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Do(); err != nil {
		return 0, fmt.Errorf("unable to clear sheet: %w", err)
	}

	writeRange := fmt.Sprintf("%s!A1", s.cfg.SheetName)
	body := &sheets.ValueRange{Values: values}
	if _, err := srv.Spreadsheets.Values.Update(s.cfg.SpreadsheetID, writeRange, body).ValueInputOption("RAW").Do(); err != nil {
		return 0, fmt.Errorf("unable to write sheet: %w", err)
	}

	log.Printf("Exported %d orders to Google Sheets", len(orders))
	return len(orders), nil
}
