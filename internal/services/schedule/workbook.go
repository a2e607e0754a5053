package schedule

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/msv-stihl/limpeza/internal/models"
)

// Loader provides the schedule and the readings a report is built from.
type Loader interface {
	Load(ctx context.Context) ([]models.ScheduleEntry, []models.ChecklistReading, error)
}

// WorkbookSource reads the Cronograma and MSPRO_DB sheets of a local xlsx.
type WorkbookSource struct {
	path string
	loc  *time.Location
}

func NewWorkbookSource(path string, loc *time.Location) *WorkbookSource {
	return &WorkbookSource{path: path, loc: loc}
}

func (s *WorkbookSource) Path() string { return s.path }

func (s *WorkbookSource) Load(ctx context.Context) ([]models.ScheduleEntry, []models.ChecklistReading, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()
	return loadWorkbook(f, s.loc)
}

func loadWorkbook(f *excelize.File, loc *time.Location) ([]models.ScheduleEntry, []models.ChecklistReading, error) {
	scheduleRows, err := f.GetRows(ScheduleSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("sheets %q and %q are required: %w", ScheduleSheet, ReadingsSheet, err)
	}
	readingRows, err := f.GetRows(ReadingsSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("sheets %q and %q are required: %w", ScheduleSheet, ReadingsSheet, err)
	}

	entries, err := ParseSchedule(scheduleRows)
	if err != nil {
		return nil, nil, err
	}
	readings, err := ParseReadings(readingRows, 0, loc)
	if err != nil {
		return nil, nil, err
	}
	return entries, readings, nil
}

// ReadExport parses a checklist results export (title row, header row, then
// data) from its first sheet.
func ReadExport(r io.Reader, loc *time.Location) ([]models.ChecklistReading, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("empty workbook")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return ParseReadings(rows, 1, loc)
}
