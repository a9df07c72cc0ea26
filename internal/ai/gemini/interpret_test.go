package gemini

import (
	"testing"

	"go.uber.org/zap"
)

func TestParseVerdict(t *testing.T) {
	t.Parallel()

	t.Run("plain object", func(t *testing.T) {
		rec := ParseVerdict(`{"candidate_name": "Jane Roe", "score": 85, "shortlisted_status": "accept"}`, zap.NewNop())
		if rec.CandidateName != "Jane Roe" || rec.Score != 85 {
			t.Fatalf("unexpected record: %+v", rec)
		}
	})

	t.Run("fenced markdown", func(t *testing.T) {
		raw := "```json\n{\"candidate_name\": \"John Doe\", \"score\": 42}\n```"
		rec := ParseVerdict(raw, zap.NewNop())
		if rec.CandidateName != "John Doe" || rec.Score != 42 {
			t.Fatalf("unexpected record: %+v", rec)
		}
	})

	t.Run("object wrapped in prose", func(t *testing.T) {
		raw := "Sure! Here is the evaluation:\n{\"candidate_name\": \"Ann\", \"score\": 70}\nLet me know if you need more."
		rec := ParseVerdict(raw, zap.NewNop())
		if rec.CandidateName != "Ann" || rec.Score != 70 {
			t.Fatalf("unexpected record: %+v", rec)
		}
	})

	t.Run("score as string", func(t *testing.T) {
		rec := ParseVerdict(`{"candidate_name": "Bob", "score": "88.5"}`, zap.NewNop())
		if rec.Score != 88.5 {
			t.Fatalf("expected weakly typed score 88.5, got %v", rec.Score)
		}
	})

	t.Run("single quoted dict literal", func(t *testing.T) {
		raw := `{'candidate_name': 'Eve', 'job_title': 'Analyst', 'score': 65}`
		rec := ParseVerdict(raw, zap.NewNop())
		if rec.CandidateName != "Eve" || rec.JobTitle != "Analyst" || rec.Score != 65 {
			t.Fatalf("unexpected record: %+v", rec)
		}
	})

	t.Run("single quoted value with apostrophe", func(t *testing.T) {
		raw := `{'candidate_name': 'Eve', 'reason_for_shortlisted_status': "Eve's profile fits well", 'score': 81}`
		rec := ParseVerdict(raw, zap.NewNop())
		if rec.CandidateName != "Eve" || rec.Score != 81 {
			t.Fatalf("unexpected record: %+v", rec)
		}
		if rec.ReasonForShortlistedStatus != "Eve's profile fits well" {
			t.Fatalf("apostrophe mangled: %q", rec.ReasonForShortlistedStatus)
		}
	})

	t.Run("empty string", func(t *testing.T) {
		if !ParseVerdict("", zap.NewNop()).IsEmpty() {
			t.Fatalf("expected empty sentinel for empty input")
		}
	})

	t.Run("prose without object", func(t *testing.T) {
		if !ParseVerdict("no structured verdict here", zap.NewNop()).IsEmpty() {
			t.Fatalf("expected empty sentinel for plain prose")
		}
	})

	t.Run("json array", func(t *testing.T) {
		// A non-object payload falls back to the brace-delimited slice,
		// so the inner object is still recovered.
		rec := ParseVerdict(`[{"score": 90}]`, zap.NewNop())
		if rec.Score != 90 {
			t.Fatalf("expected inner object to be extracted, got %+v", rec)
		}
	})

	t.Run("nil logger", func(t *testing.T) {
		rec := ParseVerdict(`{"score": 10}`, nil)
		if rec.Score != 10 {
			t.Fatalf("expected parse to work without a logger")
		}
	})
}

func TestParseVerdictNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"{",
		"}",
		"{}",
		"{{{}}}",
		"null",
		"true",
		"``````",
		"```json```",
		"{\"score\": }",
		"random text with a stray } brace { out of order",
	}

	for _, raw := range inputs {
		if rec := ParseVerdict(raw, zap.NewNop()); !rec.IsEmpty() {
			t.Fatalf("expected empty sentinel for %q, got %+v", raw, rec)
		}
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"`{\"a\": 1}`", `{"a": 1}`},
		{`{"a": 1}`, `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}

	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Fatalf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
