package quiz

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"Number", "Picked", "Correct"}

func pickedCell(picked int) string {
	if picked == 0 {
		return ""
	}

	return strconv.Itoa(picked)
}

// ExportCSV экспортирует список ошибок экзамена в CSV.
func ExportCSV(result *Result) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	_ = w.Write(exportHeader)

	for _, entry := range result.Wrong {
		_ = w.Write([]string{
			strconv.Itoa(entry.Number),
			pickedCell(entry.Picked),
			strconv.Itoa(entry.Correct),
		})
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush buffer: %w", err)
	}

	return buf.Bytes(), nil
}

const resultSheet = "Result"

// ExportXLSX экспортирует итог и список ошибок в книгу Excel.
func ExportXLSX(result *Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Dataset", result.Dataset},
		{"Score", result.Score},
		{"Total", result.Total},
		{"Unknown", result.Unknown},
		{},
		{exportHeader[0], exportHeader[1], exportHeader[2]},
	}
	for _, entry := range result.Wrong {
		rows = append(rows, []interface{}{entry.Number, pickedCell(entry.Picked), entry.Correct})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}

		if len(row) == 0 {
			continue
		}

		if err := f.SetSheetRow(resultSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
