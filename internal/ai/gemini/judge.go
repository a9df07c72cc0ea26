package gemini

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/hiringtools/cv-screener/internal/logger"
	"github.com/hiringtools/cv-screener/internal/screening"
	"github.com/hiringtools/cv-screener/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

// ErrJudgeUnavailable marks evaluation failures caused by the external AI
// service rather than by the response content.
var ErrJudgeUnavailable = errors.New("ai judge unavailable")

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

// Judge evaluates one (job, resume) pair with Gemini and interprets the
// free-form output into a screening record.
type Judge struct {
	generator contentGenerator
	threshold float64
	maxLogLen int
	logger    *zap.Logger
}

func NewJudge(generator contentGenerator, threshold float64, maxLogLength int, log *zap.Logger) *Judge {
	if threshold <= 0 {
		threshold = screening.DefaultThreshold
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	model := ""
	if generator != nil {
		model = generator.Model()
	}

	return &Judge{
		generator: generator,
		threshold: threshold,
		maxLogLen: maxLogLength,
		logger:    logger.WithCommonFields(log, "gemini", model),
	}
}

// Evaluate builds the judgment request for the pair, invokes the judge and
// returns the interpreted record. The record's shortlisted status is
// derived from the score, never taken from the model verbatim. A transport
// failure surfaces as ErrJudgeUnavailable; an uninterpretable response
// comes back as the empty sentinel with a nil error.
func (j *Judge) Evaluate(ctx context.Context, job screening.JobPosting, resume screening.ResumeDocument) (screening.Record, error) {
	if j == nil || j.generator == nil {
		return screening.Record{}, errors.New("judge is not initialized")
	}

	system := strings.ReplaceAll(promptTemplate,
		"{{THRESHOLD}}", strconv.FormatFloat(j.threshold, 'f', -1, 64))
	prompt := buildPrompt(job, resume)

	j.logger.Debug("judgment request",
		zap.String("resume", resume.FileName),
		zap.String("job_title", job.Title),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, j.maxLogLen)),
	)

	raw, err := j.generator.GenerateContent(ctx, system, prompt)
	if err != nil {
		return screening.Record{}, fmt.Errorf("%w: %v", ErrJudgeUnavailable, err)
	}

	j.logger.Debug("judgment response",
		zap.String("resume", resume.FileName),
		zap.String("job_title", job.Title),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, j.maxLogLen)),
	)

	rec := ParseVerdict(raw, j.logger)
	rec.NormalizeStatus(j.threshold)

	return rec, nil
}

// Threshold returns the accept boundary the judge applies.
func (j *Judge) Threshold() float64 {
	return j.threshold
}

func buildPrompt(job screening.JobPosting, resume screening.ResumeDocument) string {
	var builder strings.Builder

	builder.WriteString("This is the Job Title:\n")
	builder.WriteString(job.Title)
	builder.WriteString("\n\nThis is the Job Description:\n")
	builder.WriteString(job.Description)
	builder.WriteString("\n\nThis is the Candidate Resume text content:\n")
	builder.WriteString(resume.RawText)
	builder.WriteString("\n")

	return builder.String()
}
