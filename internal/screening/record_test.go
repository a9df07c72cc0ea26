package screening

import (
	"testing"
)

func TestRecordNormalizeStatus(t *testing.T) {
	cases := []struct {
		name      string
		score     float64
		status    string
		threshold float64
		want      string
	}{
		{"above threshold", 92, StatusReject, 80, StatusAccept},
		{"exactly threshold", 80, StatusReject, 80, StatusAccept},
		{"below threshold", 79.99, StatusAccept, 80, StatusReject},
		{"zero score", 0, StatusAccept, 80, StatusReject},
		{"custom threshold", 55, "", 50, StatusAccept},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := Record{CandidateName: "X", Score: tc.score, ShortlistedStatus: tc.status}
			rec.NormalizeStatus(tc.threshold)
			if rec.ShortlistedStatus != tc.want {
				t.Fatalf("score %v threshold %v: got %q, want %q", tc.score, tc.threshold, rec.ShortlistedStatus, tc.want)
			}
		})
	}
}

func TestRecordNormalizeStatusLeavesSentinelAlone(t *testing.T) {
	var rec Record
	rec.NormalizeStatus(80)

	if !rec.IsEmpty() {
		t.Fatalf("expected sentinel to survive normalization, got %+v", rec)
	}
}

func TestRecordIsEmpty(t *testing.T) {
	if !(Record{}).IsEmpty() {
		t.Fatalf("zero record must be empty")
	}

	if (Record{Score: 1}).IsEmpty() {
		t.Fatalf("record with a score must not be empty")
	}

	if (Record{ReasonForShortlistedStatus: "x"}).IsEmpty() {
		t.Fatalf("record with a reason must not be empty")
	}
}

func TestRecordRow(t *testing.T) {
	rec := Record{
		CandidateName:              "Jane Roe",
		JobTitle:                   "Go Developer",
		CandidateEmailID:           "jane@example.com",
		CandidateContactNo:         "+1 555 0100",
		Score:                      87.5,
		ShortlistedStatus:          StatusAccept,
		ReasonForShortlistedStatus: "Strong match",
	}

	row := rec.Row()
	if len(row) != len(Header()) {
		t.Fatalf("row length %d does not match header length %d", len(row), len(Header()))
	}

	if row[4] != "87.5" {
		t.Fatalf("unexpected score cell: %q", row[4])
	}

	if row[0] != "Jane Roe" || row[5] != StatusAccept {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestRecordRowSentinel(t *testing.T) {
	row := Record{}.Row()

	if len(row) != len(Header()) {
		t.Fatalf("sentinel row length %d does not match header length %d", len(row), len(Header()))
	}

	for i, cell := range row {
		if cell != "" {
			t.Fatalf("expected empty cell at %d, got %q", i, cell)
		}
	}
}

func TestHeaderOrder(t *testing.T) {
	want := []string{
		"candidate_name",
		"job_title",
		"candidate_email_id",
		"candidate_contact_no",
		"score",
		"shortlisted_status",
		"reason_for_shortlisted_status",
	}

	got := Header()
	if len(got) != len(want) {
		t.Fatalf("unexpected header length: %d", len(got))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("header[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
