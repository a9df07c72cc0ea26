package screening

import "strconv"

const (
	// StatusAccept marks a candidate that passed the score threshold.
	StatusAccept = "accept"
	// StatusReject marks a candidate below the score threshold.
	StatusReject = "reject"

	// DefaultThreshold is the minimum score for an accept decision.
	DefaultThreshold = 80.0
)

// Record is the structured outcome of evaluating one resume against one
// job posting. The zero value is the empty sentinel which keeps the batch
// cardinality intact when judgment or interpretation fails for a pair.
type Record struct {
	CandidateName              string  `json:"candidate_name" mapstructure:"candidate_name"`
	JobTitle                   string  `json:"job_title" mapstructure:"job_title"`
	CandidateEmailID           string  `json:"candidate_email_id" mapstructure:"candidate_email_id"`
	CandidateContactNo         string  `json:"candidate_contact_no" mapstructure:"candidate_contact_no"`
	Score                      float64 `json:"score" mapstructure:"score"`
	ShortlistedStatus          string  `json:"shortlisted_status" mapstructure:"shortlisted_status"`
	ReasonForShortlistedStatus string  `json:"reason_for_shortlisted_status" mapstructure:"reason_for_shortlisted_status"`
}

// IsEmpty reports whether the record is the empty sentinel.
func (r Record) IsEmpty() bool {
	return r == Record{}
}

// NormalizeStatus derives the shortlisted status from the score so the
// decision never depends on the model's own wording. Empty sentinels are
// left untouched.
func (r *Record) NormalizeStatus(threshold float64) {
	if r.IsEmpty() {
		return
	}
	if r.Score >= threshold {
		r.ShortlistedStatus = StatusAccept
		return
	}
	r.ShortlistedStatus = StatusReject
}

// Header returns the column names of the exported table, in record order.
func Header() []string {
	return []string{
		"candidate_name",
		"job_title",
		"candidate_email_id",
		"candidate_contact_no",
		"score",
		"shortlisted_status",
		"reason_for_shortlisted_status",
	}
}

// Row renders the record as one exported table row. The empty sentinel
// renders as a row of empty cells so failed pairs stay visible downstream.
func (r Record) Row() []string {
	if r.IsEmpty() {
		return make([]string, len(Header()))
	}

	return []string{
		r.CandidateName,
		r.JobTitle,
		r.CandidateEmailID,
		r.CandidateContactNo,
		strconv.FormatFloat(r.Score, 'f', -1, 64),
		r.ShortlistedStatus,
		r.ReasonForShortlistedStatus,
	}
}

// BatchResult is the ordered sequence of records produced by one batch,
// resume-major and job-minor, one entry per (resume, job) pair.
type BatchResult []Record
