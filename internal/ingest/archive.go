package ingest

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hiringtools/cv-screener/internal/screening"
)

// LoadResumes reads resume documents from the given path, which is either
// a directory of resume files or a zip archive of them. Extraction runs
// exactly once per file.
func LoadResumes(path string, logger *zap.Logger) ([]screening.ResumeDocument, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return loadZip(path, logger)
	}

	return loadDir(path, logger)
}

func loadDir(dir string, logger *zap.Logger) ([]screening.ResumeDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading resumes directory: %w", err)
	}

	var resumes []screening.ResumeDocument
	for _, entry := range entries {
		if entry.IsDir() || skipName(entry.Name()) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading resume %s: %w", entry.Name(), err)
		}

		resumes = append(resumes, newDocument(entry.Name(), data, logger))
	}

	return resumes, nil
}

func loadZip(path string, logger *zap.Logger) ([]screening.ResumeDocument, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening resumes archive: %w", err)
	}
	defer archive.Close()

	var resumes []screening.ResumeDocument
	for _, file := range archive.File {
		if file.FileInfo().IsDir() {
			continue
		}

		name := filepath.Base(file.Name)
		// macOS archives carry resource-fork noise.
		if skipName(name) || strings.Contains(file.Name, "__MACOSX") {
			continue
		}

		reader, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening archive entry %s: %w", file.Name, err)
		}

		data, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			return nil, fmt.Errorf("reading archive entry %s: %w", file.Name, err)
		}

		resumes = append(resumes, newDocument(name, data, logger))
	}

	return resumes, nil
}

func newDocument(name string, data []byte, logger *zap.Logger) screening.ResumeDocument {
	text := ExtractText(name, data)

	logger.Debug("extracted resume text",
		zap.String("file", name),
		zap.Int("bytes", len(data)),
		zap.Int("text_length", len(text)),
	)

	return screening.ResumeDocument{
		FileName: name,
		RawText:  text,
	}
}

func skipName(name string) bool {
	return strings.HasPrefix(name, "._") || strings.HasPrefix(name, ".")
}
