package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/msv-stihl/limpeza/internal/models"
)

// Sheet and column names of the cleaning schedule workbook.
const (
	ScheduleSheet = "Cronograma"
	ReadingsSheet = "MSPRO_DB"

	colLocation    = "Local Instalação"
	colAssetID     = "Arvore Prisma4 / Pro"
	colDescription = "Descrição"
	colShifts      = "Turnos"
	colStartedAt   = "Data/Hora de Início"
	colQRCode      = "QRCode"
)

var weekdayColumns = map[string]time.Weekday{
	"SEG": time.Monday,
	"TER": time.Tuesday,
	"QUA": time.Wednesday,
	"QUI": time.Thursday,
	"SEX": time.Friday,
	"SÁB": time.Saturday,
	"SAB": time.Saturday,
	"DOM": time.Sunday,
}

// readingColumns is the positional layout of the checklist export.
var readingColumns = []string{
	"id_resposta", "id_empresa", "id_checklist", "checklist", "data_inicio", "data_fim",
	"id_ativo", "ativo", "qr_code", "usuario", "data_registro",
}

// ParseSchedule reads the Cronograma sheet. The first row is the header;
// columns are located by name.
func ParseSchedule(rows [][]string) ([]models.ScheduleEntry, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("schedule sheet is empty")
	}
	header := indexHeader(rows[0])
	for _, name := range []string{colLocation, colAssetID, colDescription, colShifts} {
		if _, ok := header[name]; !ok {
			return nil, fmt.Errorf("schedule column %q not found", name)
		}
	}

	days := make(map[int]time.Weekday)
	for name, idx := range header {
		if wd, ok := weekdayColumns[strings.ToUpper(name)]; ok {
			days[idx] = wd
		}
	}

	var entries []models.ScheduleEntry
	for _, row := range rows[1:] {
		e := models.ScheduleEntry{
			Location:    cell(row, header[colLocation]),
			AssetID:     cell(row, header[colAssetID]),
			Description: cell(row, header[colDescription]),
			Shifts:      cell(row, header[colShifts]),
			Weekdays:    make(map[time.Weekday]bool),
		}
		if e.Location == "" && e.AssetID == "" {
			continue
		}
		for idx, wd := range days {
			if strings.EqualFold(cell(row, idx), "X") {
				e.Weekdays[wd] = true
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ParseReadings reads checklist rows whose header sits at headerRow. The
// export carries a title row above the header, MSPRO_DB does not. Known
// header names win; otherwise the export's positional layout applies.
func ParseReadings(rows [][]string, headerRow int, loc *time.Location) ([]models.ChecklistReading, error) {
	if len(rows) <= headerRow {
		return nil, fmt.Errorf("readings sheet has no header row")
	}
	header := indexHeader(rows[headerRow])
	pos := make(map[string]int, len(readingColumns))
	for i, name := range readingColumns {
		pos[name] = i
	}
	if idx, ok := header[colStartedAt]; ok {
		pos["data_inicio"] = idx
	}
	if idx, ok := header[colQRCode]; ok {
		pos["qr_code"] = idx
	}
	for name, idx := range header {
		if _, known := pos[name]; known {
			pos[name] = idx
		}
	}

	var readings []models.ChecklistReading
	for _, row := range rows[headerRow+1:] {
		r := models.ChecklistReading{
			ResponseID:   cell(row, pos["id_resposta"]),
			CompanyID:    cell(row, pos["id_empresa"]),
			ChecklistID:  cell(row, pos["id_checklist"]),
			Checklist:    cell(row, pos["checklist"]),
			StartedAt:    ParseTimestamp(cell(row, pos["data_inicio"]), loc),
			FinishedAt:   ParseTimestamp(cell(row, pos["data_fim"]), loc),
			AssetID:      cell(row, pos["id_ativo"]),
			Asset:        cell(row, pos["ativo"]),
			QRCode:       cell(row, pos["qr_code"]),
			User:         cell(row, pos["usuario"]),
			RegisteredAt: ParseTimestamp(cell(row, pos["data_registro"]), loc),
		}
		if r.ResponseID == "" && r.QRCode == "" {
			continue
		}
		readings = append(readings, r)
	}
	return readings, nil
}

var timestampLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp reads day-first dates, ISO dates and Excel serial numbers.
// Unparseable values yield nil.
func ParseTimestamp(value string, loc *time.Location) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return &t
		}
	}
	if serial, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
			return &t
		}
	}
	return nil
}

func indexHeader(row []string) map[string]int {
	header := make(map[string]int, len(row))
	for i, name := range row {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := header[name]; !dup {
			header[name] = i
		}
	}
	return header
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
