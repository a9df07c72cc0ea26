package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hiringtools/cv-screener/internal/screening"
)

const (
	summarySheet = "Summary"
	resultsSheet = "Results"
)

// WriteExcel generates an XLSX report with a summary sheet and the full
// results table.
func WriteExcel(path string, result screening.BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(resultsSheet); err != nil {
		return fmt.Errorf("creating results sheet: %w", err)
	}

	if err := writeSummary(f, result); err != nil {
		return fmt.Errorf("writing summary sheet: %w", err)
	}

	if err := writeResults(f, result); err != nil {
		return fmt.Errorf("writing results sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving excel report: %w", err)
	}

	return nil
}

func writeSummary(f *excelize.File, result screening.BatchResult) error {
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	accepted, failedPairs := 0, 0
	for _, rec := range result {
		switch {
		case rec.IsEmpty():
			failedPairs++
		case rec.ShortlistedStatus == screening.StatusAccept:
			accepted++
		}
	}

	rows := []struct {
		label string
		value any
	}{
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Evaluated pairs:", len(result)},
		{"Shortlisted:", accepted},
		{"Failed pairs:", failedPairs},
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return err
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetCellValue(summarySheet, cell, row.label); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, cell, cell, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), row.value); err != nil {
			return err
		}
	}

	return nil
}

func writeResults(f *excelize.File, result screening.BatchResult) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for col, name := range screening.Header() {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(resultsSheet, cell, name); err != nil {
			return err
		}
		if err := f.SetCellStyle(resultsSheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, rec := range result {
		for col, value := range rec.Row() {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(resultsSheet, cell, value); err != nil {
				return err
			}
		}
	}

	return nil
}
