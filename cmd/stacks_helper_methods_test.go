package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PolarWolf314/envcrypt/internal/batch"
	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
	"github.com/PolarWolf314/envcrypt/internal/transform"
	"github.com/PolarWolf314/envcrypt/internal/workflows"
	"github.com/fatih/color"
)

func withoutColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = original })
}

func TestFormatOutcome(t *testing.T) {
	withoutColor(t)

	lineErr := &transform.LineError{Line: 3, Key: "TOKEN", Err: fmt.Errorf("decoding: %w", kerrors.ErrAuthentication)}
	tests := []struct {
		name    string
		outcome batch.Outcome
		want    []string
	}{
		{
			name:    "processed",
			outcome: batch.Outcome{Candidate: batch.Candidate{Stack: "api"}, Status: batch.Processed},
			want:    []string{"✓", "'api'", "processed"},
		},
		{
			name: "processed with warnings",
			outcome: batch.Outcome{
				Candidate: batch.Candidate{Stack: "api"},
				Status:    batch.Processed,
				Warnings:  []transform.Warning{{Line: 1, Key: "A", Message: "empty"}},
			},
			want: []string{"with 1 warning(s)"},
		},
		{
			name:    "skipped",
			outcome: batch.Outcome{Candidate: batch.Candidate{Stack: "web"}, Status: batch.Skipped, Reason: "already up to date"},
			want:    []string{"↷", "'web'", "skipped", "(already up to date)"},
		},
		{
			name:    "failed on a line",
			outcome: batch.Outcome{Candidate: batch.Candidate{Stack: "db"}, Status: batch.Failed, Err: lineErr},
			want:    []string{"✗", "'db'", "failed", "line 3", "`TOKEN`", "verify that you are using the right key"},
		},
		{
			name:    "failed without a line",
			outcome: batch.Outcome{Candidate: batch.Candidate{Stack: "x"}, Status: batch.Failed, Err: kerrors.ErrSourceMissing},
			want:    []string{"source file does not exist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatOutcome(tt.outcome)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("formatOutcome() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestFormatSummary(t *testing.T) {
	withoutColor(t)

	s := &batch.Summary{
		Outcomes: []batch.Outcome{
			{Candidate: batch.Candidate{Stack: "a"}, Status: batch.Processed},
			{Candidate: batch.Candidate{Stack: "b"}, Status: batch.Failed, Err: errors.New("boom")},
		},
		Processed: 1,
		Failed:    1,
	}

	lines := strings.Split(formatSummary(s), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), lines)
	}
	if lines[2] != "processed 1, skipped 0, failed 1" {
		t.Errorf("Unexpected totals line %q", lines[2])
	}
	if !strings.Contains(lines[1], "boom") {
		t.Errorf("Expected unknown errors to show their own message, got %q", lines[1])
	}
}

func TestFormatStatus(t *testing.T) {
	withoutColor(t)

	res := &workflows.StatusResult{
		Stacks: []workflows.StackStatusInfo{
			{Stack: "api", Status: workflows.StatusCurrent},
			{Stack: "web", Status: workflows.StatusStale},
		},
		Summary: workflows.StatusSummary{Current: 1, Stale: 1},
	}

	got := formatStatus(res)
	if !strings.Contains(got, "current 1, stale 1, unencrypted 0, encrypted only 0\n") {
		t.Errorf("Unexpected summary in %q", got)
	}
	if strings.Contains(got, "missing") {
		t.Errorf("Expected no missing count, got %q", got)
	}
	if !strings.Contains(got, "envcrypt stacks encrypt") {
		t.Errorf("Expected a hint for stale stacks, got %q", got)
	}
}

func TestIsReported(t *testing.T) {
	err := reportedError{fmt.Errorf("wrapped: %w", kerrors.ErrNoKeyFound)}
	if !IsReported(err) {
		t.Error("Expected reportedError to be reported")
	}
	if !errors.Is(err, kerrors.ErrNoKeyFound) {
		t.Error("Expected reportedError to unwrap to its cause")
	}
	if IsReported(errors.New("plain")) {
		t.Error("Expected plain errors not to be reported")
	}
}
