// Package export produces the batch report workbook: one row per processed
// document with the extracted fields, the derived name, and the outcome.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hiraoka-dev/millsheet-renamer/internal/pipeline"
)

// Service produces XLSX bytes for batch reports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteReport returns an XLSX workbook (as bytes) summarizing one batch.
// Rows keep the submission order, so the report reads like the run log.
func (s *Service) WriteReport(outcomes []pipeline.Outcome) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Millsheets"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet so the workbook opens on the report.
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Source Path",
		"New Name",
		"Date",
		"Material",
		"Dimensions",
		"Manufacturer",
		"Charge No",
		"Status",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, out := range outcomes {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		errText := ""
		if out.Err != nil {
			errText = truncate(out.Err.Error(), 140)
		}

		write(1, out.SourcePath)
		write(2, out.NewName)
		write(3, out.Record.Date)
		write(4, out.Record.Material)
		write(5, out.Record.Dimensions)
		write(6, out.Record.Manufacturer)
		write(7, out.Record.ChargeNo)
		write(8, string(out.Status))
		write(9, errText)

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "B", 48) // paths and names
	_ = f.SetColWidth(sheet, "C", "C", 12) // date
	_ = f.SetColWidth(sheet, "D", "E", 16) // material, dimensions
	_ = f.SetColWidth(sheet, "F", "F", 20) // manufacturer
	_ = f.SetColWidth(sheet, "G", "H", 14) // charge, status
	_ = f.SetColWidth(sheet, "I", "I", 48) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(outcomes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
