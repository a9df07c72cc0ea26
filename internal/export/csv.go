package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hiringtools/cv-screener/internal/screening"
)

// WriteCSV renders the batch result as a delimited table: the seven record
// field names as the header, one row per processed pair, empty sentinels
// as rows of empty cells.
func WriteCSV(w io.Writer, result screening.BatchResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(screening.Header()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range result {
		if err := writer.Write(rec.Row()); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes the batch result to the given path.
func WriteCSVFile(path string, result screening.BatchResult) error {
	path = filepath.Clean(path)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}

	if err := WriteCSV(file, result); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
