package screening

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

const (
	jobTitleColumn       = "Job Title"
	jobDescriptionColumn = "Job Description"
)

// JobPosting is one read-only row of the job table.
type JobPosting struct {
	Title       string
	Description string
}

// ResumeDocument holds the extracted text of one uploaded resume. It is
// produced once per file and never mutated afterwards.
type ResumeDocument struct {
	FileName string
	RawText  string
}

// ReadJobs parses the job table from CSV. Payloads that are not valid
// UTF-8 are decoded as ISO-8859-1 first, since job descriptions exported
// from office tooling frequently carry legacy single-byte encodings.
// Rows too short to carry both columns are skipped with a warning.
func ReadJobs(r io.Reader, logger *zap.Logger) ([]JobPosting, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading job table: %w", err)
	}

	if !utf8.Valid(data) {
		data, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decoding job table as ISO-8859-1: %w", err)
		}
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading job table header: %w", err)
	}

	titleIdx, descIdx := -1, -1
	for i, name := range header {
		switch {
		case strings.EqualFold(strings.TrimSpace(name), jobTitleColumn):
			titleIdx = i
		case strings.EqualFold(strings.TrimSpace(name), jobDescriptionColumn):
			descIdx = i
		}
	}

	if titleIdx == -1 || descIdx == -1 {
		return nil, fmt.Errorf("job table must contain %q and %q columns, got %v",
			jobTitleColumn, jobDescriptionColumn, header)
	}

	var jobs []JobPosting
	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading job table row: %w", err)
		}

		if titleIdx >= len(row) || descIdx >= len(row) {
			logger.Warn("job table row is missing required columns, skipping",
				zap.Int("row", rowNum),
				zap.Int("columns", len(row)),
			)
			continue
		}

		jobs = append(jobs, JobPosting{
			Title:       strings.TrimSpace(row[titleIdx]),
			Description: strings.TrimSpace(row[descIdx]),
		})
	}

	return jobs, nil
}
