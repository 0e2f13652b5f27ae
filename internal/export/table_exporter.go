// Package export renders an admin list-table snapshot to a downloadable
// file: a styled xlsx workbook or plain CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	headerFillColor   = "BBDEFB"
	defaultColumnSpan = 20.0
)

// Table is a fully rendered listing: header labels plus string cells.
type Table struct {
	Sheet   string
	Title   string
	Headers []string
	Rows    [][]string
}

// BuildXLSX constructs the workbook. Callers own closing the file.
func (t Table) BuildXLSX() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := t.Sheet
	if sheet == "" {
		sheet = "Export"
	}
	f.SetSheetName("Sheet1", sheet)

	row := 1
	if t.Title != "" {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, cell, t.Title)
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("title style: %w", err)
		}
		if len(t.Headers) > 1 {
			end, _ := excelize.CoordinatesToCellName(len(t.Headers), row)
			f.MergeCell(sheet, cell, end)
			f.SetCellStyle(sheet, cell, end, style)
		} else {
			f.SetCellStyle(sheet, cell, cell, style)
		}
		row++
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	for i, header := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, colName, colName, defaultColumnSpan)
	}
	row++

	for _, cells := range t.Rows {
		for i, value := range cells {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, value)
		}
		row++
	}

	return f, nil
}

// WriteXLSX streams the workbook to w.
func (t Table) WriteXLSX(w io.Writer) error {
	f, err := t.BuildXLSX()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// ToBytes renders the workbook into memory, for responses that need a
// Content-Length up front.
func (t Table) ToBytes() ([]byte, error) {
	f, err := t.BuildXLSX()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV streams the table as CSV, headers first. The title is omitted;
// CSV consumers want a rectangular file.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
