package schedule

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/msv-stihl/limpeza/internal/models"
)

var spreadsheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

// SpreadsheetID accepts either a bare id or a docs.google.com URL.
func SpreadsheetID(ref string) (string, error) {
	if m := spreadsheetIDPattern.FindStringSubmatch(ref); len(m) == 2 {
		return m[1], nil
	}
	if ref == "" || regexp.MustCompile(`[^a-zA-Z0-9-_]`).MatchString(ref) {
		return "", fmt.Errorf("invalid Google Sheets reference %q", ref)
	}
	return ref, nil
}

// SheetsSource reads the schedule tabs from a Google Sheet.
type SheetsSource struct {
	srv           *sheets.Service
	spreadsheetID string
	loc           *time.Location
}

func NewSheetsSource(ctx context.Context, ref, credentialsFile string, loc *time.Location) (*SheetsSource, error) {
	id, err := SpreadsheetID(ref)
	if err != nil {
		return nil, err
	}
	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init Google Sheets API: %w", err)
	}
	return &SheetsSource{srv: srv, spreadsheetID: id, loc: loc}, nil
}

func (s *SheetsSource) Load(ctx context.Context) ([]models.ScheduleEntry, []models.ChecklistReading, error) {
	scheduleRows, err := s.values(ctx, ScheduleSheet)
	if err != nil {
		return nil, nil, err
	}
	readingRows, err := s.values(ctx, ReadingsSheet)
	if err != nil {
		return nil, nil, err
	}

	entries, err := ParseSchedule(scheduleRows)
	if err != nil {
		return nil, nil, err
	}
	readings, err := ParseReadings(readingRows, 0, s.loc)
	if err != nil {
		return nil, nil, err
	}
	return entries, readings, nil
}

func (s *SheetsSource) values(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return stringRows(resp.Values), nil
}

func stringRows(values [][]interface{}) [][]string {
	rows := make([][]string, 0, len(values))
	for _, row := range values {
		strRow := make([]string, 0, len(row))
		for _, cell := range row {
			strRow = append(strRow, fmt.Sprintf("%v", cell))
		}
		rows = append(rows, strRow)
	}
	return rows
}
