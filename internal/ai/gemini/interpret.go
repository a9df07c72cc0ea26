package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/hiringtools/cv-screener/internal/screening"
)

// ParseVerdict turns the judge's free-form output into a screening record.
// The primary path parses the whole payload as a JSON object; when that
// fails, the substring between the first "{" and the last "}" is parsed
// instead, tolerating verdicts wrapped in prose or markdown. Interpretation
// never fails: anything unparseable degrades to the empty sentinel.
func ParseVerdict(raw string, logger *zap.Logger) screening.Record {
	if logger == nil {
		logger = zap.NewNop()
	}

	rec, err := decodeVerdict(stripFences(raw))
	if err == nil {
		return rec
	}

	logger.Debug("primary verdict parse failed, trying brace extraction", zap.Error(err))

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		rec, err = decodeVerdict(raw[start : end+1])
		if err == nil {
			return rec
		}
	}

	logger.Warn("fallback verdict parse failed, returning empty record", zap.Error(err))

	return screening.Record{}
}

// decodeVerdict requires a JSON object. Values are decoded weakly so that
// scores arriving as strings (or statuses as arbitrary scalars) still land
// in the typed record. Single-quoted legacy responses get one normalization
// pass before giving up.
func decodeVerdict(payload string) (screening.Record, error) {
	fields, err := decodeObject(payload)
	if err != nil {
		// Older judge deployments emitted Python-style dict literals.
		if fields, err = decodeObject(normalizeQuotes(payload)); err != nil {
			return screening.Record{}, err
		}
	}

	var rec screening.Record
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return screening.Record{}, fmt.Errorf("building verdict decoder: %w", err)
	}

	if err := decoder.Decode(fields); err != nil {
		return screening.Record{}, fmt.Errorf("decoding verdict fields: %w", err)
	}

	return rec, nil
}

var (
	quoteAfterPunct  = regexp.MustCompile(`([{\[,:]\s*)'`)
	quoteBeforePunct = regexp.MustCompile(`'(\s*[}\],:])`)
)

// normalizeQuotes rewrites single quotes that delimit keys or values into
// double quotes. Only quotes adjacent to object punctuation are touched,
// so apostrophes inside string values survive.
func normalizeQuotes(payload string) string {
	payload = quoteAfterPunct.ReplaceAllString(payload, `$1"`)
	return quoteBeforePunct.ReplaceAllString(payload, `"$1`)
}

func decodeObject(payload string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &fields); err != nil {
		return nil, fmt.Errorf("parse verdict object: %w", err)
	}
	return fields, nil
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}
