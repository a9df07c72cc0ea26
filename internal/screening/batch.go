package screening

import (
	"context"

	"go.uber.org/zap"
)

// NotifyStatus describes the result of a notification attempt.
type NotifyStatus string

const (
	NotifySent    NotifyStatus = "sent"
	NotifySkipped NotifyStatus = "skipped"
	NotifyFailed  NotifyStatus = "failed"
)

// NotifyOutcome carries the notification result for one record. A failed
// send never affects the stored record or the rest of the batch.
type NotifyOutcome struct {
	Status NotifyStatus
	Reason string
	Err    error
}

// Judge evaluates one (job, resume) pair and returns the structured
// verdict. An error means the judgment service was unavailable; a verdict
// that could not be interpreted comes back as the empty sentinel instead.
type Judge interface {
	Evaluate(ctx context.Context, job JobPosting, resume ResumeDocument) (Record, error)
}

// Notifier delivers the decision to the candidate.
type Notifier interface {
	Notify(ctx context.Context, rec Record) NotifyOutcome
}

// Runner walks the cross product of resumes and jobs, invoking the judge
// and the notifier per pair and collecting every record into a single
// batch result.
type Runner struct {
	judge    Judge
	notifier Notifier
	logger   *zap.Logger
}

func NewRunner(judge Judge, notifier Notifier, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		judge:    judge,
		notifier: notifier,
		logger:   logger,
	}
}

// Run processes every (resume, job) pair in source order, resume-major and
// job-minor. No pair aborts the batch: a failed judgment degrades to the
// empty sentinel and a failed notification is only logged, so the result
// always holds len(resumes) * len(jobs) records.
func (r *Runner) Run(ctx context.Context, resumes []ResumeDocument, jobs []JobPosting) BatchResult {
	result := make(BatchResult, 0, len(resumes)*len(jobs))

	for _, resume := range resumes {
		for _, job := range jobs {
			pairLogger := r.logger.With(
				zap.String("resume", resume.FileName),
				zap.String("job_title", job.Title),
			)

			rec, err := r.judge.Evaluate(ctx, job, resume)
			if err != nil {
				pairLogger.Warn("judgment unavailable, recording empty row", zap.Error(err))
				result = append(result, Record{})
				continue
			}

			if rec.IsEmpty() {
				pairLogger.Warn("verdict not interpretable, recording empty row")
				result = append(result, rec)
				continue
			}

			r.dispatch(ctx, pairLogger, rec)

			result = append(result, rec)
		}
	}

	r.logger.Info("batch completed",
		zap.Int("resumes", len(resumes)),
		zap.Int("jobs", len(jobs)),
		zap.Int("records", len(result)),
	)

	return result
}

func (r *Runner) dispatch(ctx context.Context, logger *zap.Logger, rec Record) {
	if r.notifier == nil {
		return
	}

	outcome := r.notifier.Notify(ctx, rec)
	switch outcome.Status {
	case NotifySent:
		logger.Info("notification sent",
			zap.String("candidate", rec.CandidateName),
			zap.String("status", rec.ShortlistedStatus),
		)
	case NotifySkipped:
		logger.Info("notification skipped", zap.String("reason", outcome.Reason))
	case NotifyFailed:
		logger.Warn("notification failed", zap.Error(outcome.Err))
	}
}
