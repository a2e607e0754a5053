package schedule

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeRows(t *testing.T, f *excelize.File, sheet string, rows [][]interface{}) {
	t.Helper()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
}

func scheduleWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", ScheduleSheet))
	_, err := f.NewSheet(ReadingsSheet)
	require.NoError(t, err)

	writeRows(t, f, ScheduleSheet, [][]interface{}{
		{"Local Instalação", "Arvore Prisma4 / Pro", "Descrição", "Turnos", "SEG", "TER", "QUA", "QUI", "SEX", "SÁB", "DOM"},
		{"L1", "P1", "Banheiro", "T2", "", "", "X", "", "", "", ""},
		{"L2", "P2", "Copa", "T2", "", "", "X", "", "", "", ""},
	})
	writeRows(t, f, ReadingsSheet, [][]interface{}{
		{"id_resposta", "id_empresa", "id_checklist", "checklist", "Data/Hora de Início", "data_fim", "id_ativo", "ativo", "QRCode", "usuario", "data_registro"},
		{"r1", "c", "k", "Limpeza", "14/10/2026 09:00:00", "", "a", "Banheiro", "P1", "maria", ""},
	})

	path := filepath.Join(t.TempDir(), "cronograma_lc.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestWorkbookSourceLoad(t *testing.T) {
	src := NewWorkbookSource(scheduleWorkbook(t), time.UTC)

	entries, readings, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Len(t, readings, 1)

	report := Build(entries, readings, time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC))
	require.Len(t, report["T2"], 1)
	assert.Equal(t, "L2", report["T2"][0].Location)
}

func TestWorkbookSourceMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, f.SaveAs(path))
	f.Close()

	_, _, err := NewWorkbookSource(path, time.UTC).Load(context.Background())
	assert.ErrorContains(t, err, "are required")

	_, _, err = NewWorkbookSource(filepath.Join(t.TempDir(), "nope.xlsx"), time.UTC).Load(context.Background())
	assert.Error(t, err)
}

func TestReadExport(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	writeRows(t, f, "Sheet1", [][]interface{}{
		{"Histórico de Resultados"},
		{"ID", "Empresa", "ID Checklist", "Checklist", "Início", "Fim", "ID Ativo", "Ativo", "QR Code", "Usuário", "Registro"},
		{"r1", "c", "k", "Limpeza", "14/10/2026 09:00", "14/10/2026 09:10", "a", "Copa", "P2", "joao", "14/10/2026 09:11"},
		{"r2", "c", "k", "Limpeza", "14/10/2026 10:00", "", "a", "Banheiro", "P1", "maria", ""},
	})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	readings, err := ReadExport(bytes.NewReader(buf.Bytes()), time.UTC)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, "r1", readings[0].ResponseID)
	assert.Equal(t, "P2", readings[0].QRCode)
	assert.Equal(t, "joao", readings[0].User)

	_, err = ReadExport(bytes.NewReader([]byte("not a zip")), time.UTC)
	assert.Error(t, err)
}

func TestSpreadsheetID(t *testing.T) {
	id, err := SpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-d_9", id)

	id, err = SpreadsheetID("1AbC-d_9")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-d_9", id)

	_, err = SpreadsheetID("https://example.com/?x")
	assert.Error(t, err)
	_, err = SpreadsheetID("")
	assert.Error(t, err)
}

func TestStringRows(t *testing.T) {
	rows := stringRows([][]interface{}{{"L1", 12.5, true}, {}})
	assert.Equal(t, [][]string{{"L1", "12.5", "true"}, {}}, rows)
}
