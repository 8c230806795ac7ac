package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/armandoblanco/github-coplit-metricas-uso/internal/github"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/report"
)

func countFilled(bar string) int {
	return strings.Count(bar, "█")
}

func TestProgressBar_HalfQuota(t *testing.T) {
	bar, pct := ProgressBar(500, 1000)

	if pct != 50 {
		t.Errorf("pct = %v, want 50", pct)
	}
	if got := countFilled(bar); got != 10 {
		t.Errorf("filled segments = %d, want 10", got)
	}
	if got := len([]rune(bar)); got != 20 {
		t.Errorf("bar length = %d, want 20", got)
	}
}

func TestProgressBar_OverQuotaCaps(t *testing.T) {
	bar, pct := ProgressBar(1500, 1000)

	if pct != 100 {
		t.Errorf("pct = %v, want capped 100", pct)
	}
	if got := countFilled(bar); got != 20 {
		t.Errorf("filled segments = %d, want 20", got)
	}
}

func TestProgressBar_Rounding(t *testing.T) {
	// 130/1000 = 13% -> 2.6 segments, rounds to 3.
	bar, _ := ProgressBar(130, 1000)
	if got := countFilled(bar); got != 3 {
		t.Errorf("filled segments = %d, want 3", got)
	}
}

func usersEnvelope(records ...report.Record) *report.Envelope {
	return &report.Envelope{
		ReportStartDay: "2026-01-01",
		ReportEndDay:   "2026-01-28",
		Data:           records,
	}
}

func TestUsageBreakdown_RawCountUncapped(t *testing.T) {
	seats := &github.SeatsReport{
		TotalSeats: 1,
		Seats: []github.Seat{
			{Assignee: github.Assignee{Login: "alice"}, LastActivityAt: "2026-01-27T10:00:00Z"},
		},
	}
	users := usersEnvelope(report.Record{
		"user_login":                       "alice",
		"user_initiated_interaction_count": float64(1000),
		"code_generation_activity_count":   float64(500),
	})

	var buf bytes.Buffer
	UsageBreakdown(&buf, seats, users, nil)
	out := buf.String()

	// The bar caps at 100% but the raw count stays uncapped.
	if !strings.Contains(out, "1,500/1,000") {
		t.Errorf("output missing uncapped count 1,500/1,000:\n%s", out)
	}
	if !strings.Contains(out, "100.0%") {
		t.Errorf("output missing capped percentage:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("█", 20)) {
		t.Errorf("output missing full bar:\n%s", out)
	}
}

func TestUsageBreakdown_Totals(t *testing.T) {
	seats := &github.SeatsReport{
		TotalSeats: 3,
		Seats: []github.Seat{
			{Assignee: github.Assignee{Login: "alice"}, LastActivityAt: "2026-01-27T10:00:00Z"},
			{Assignee: github.Assignee{Login: "bob"}, LastActivityAt: "2026-01-20T10:00:00Z"},
			{Assignee: github.Assignee{Login: "carol"}},
		},
	}
	users := usersEnvelope(
		report.Record{"user_login": "alice", "user_initiated_interaction_count": float64(10), "code_generation_activity_count": float64(5)},
		report.Record{"user_login": "bob", "user_initiated_interaction_count": float64(7)},
	)

	var buf bytes.Buffer
	UsageBreakdown(&buf, seats, users, nil)
	out := buf.String()

	if !strings.Contains(out, "Users with Copilot: 3") {
		t.Errorf("missing total seats:\n%s", out)
	}
	if !strings.Contains(out, "Active users: 2") {
		t.Errorf("missing active users:\n%s", out)
	}
	if !strings.Contains(out, "Users with no recent activity: 1") {
		t.Errorf("missing inactive users:\n%s", out)
	}
	if !strings.Contains(out, "Total interactions: 17") {
		t.Errorf("missing total interactions:\n%s", out)
	}
	if !strings.Contains(out, "Total code generations: 5") {
		t.Errorf("missing total code generations:\n%s", out)
	}
	if !strings.Contains(out, "Period: 2026-01-01 to 2026-01-28") {
		t.Errorf("missing period:\n%s", out)
	}
}

func TestUsageBreakdown_PendingCancellationFlag(t *testing.T) {
	seats := &github.SeatsReport{
		TotalSeats: 1,
		Seats: []github.Seat{
			{
				Assignee:                github.Assignee{Login: "alice"},
				LastActivityAt:          "2026-01-27T10:00:00Z",
				PendingCancellationDate: "2026-02-01",
			},
		},
	}

	var buf bytes.Buffer
	UsageBreakdown(&buf, seats, usersEnvelope(), nil)

	if !strings.Contains(buf.String(), "pending cancellation: 2026-02-01") {
		t.Errorf("missing pending cancellation flag:\n%s", buf.String())
	}
}

func TestUsageBreakdown_BillingLine(t *testing.T) {
	seats := &github.SeatsReport{
		TotalSeats: 1,
		Seats:      []github.Seat{{Assignee: github.Assignee{Login: "alice"}}},
	}
	billing := &github.BillingSummary{
		PlanType:      "business",
		SeatBreakdown: github.SeatBreakdown{AddedThisCycle: 2, PendingCancellation: 1},
	}

	var buf bytes.Buffer
	UsageBreakdown(&buf, seats, usersEnvelope(), billing)

	if !strings.Contains(buf.String(), "Plan: business") {
		t.Errorf("missing billing line:\n%s", buf.String())
	}
}

func TestSeatsDetail_StatusPriority(t *testing.T) {
	seats := &github.SeatsReport{
		TotalSeats: 3,
		Seats: []github.Seat{
			{
				Assignee:                github.Assignee{Login: "leaving"},
				CreatedAt:               "2025-06-01T00:00:00Z",
				LastActivityAt:          "2026-01-27T10:00:00Z",
				PendingCancellationDate: "2026-02-01",
			},
			{
				Assignee:       github.Assignee{Login: "worker"},
				CreatedAt:      "2025-06-01T00:00:00Z",
				LastActivityAt: "2026-01-27T10:00:00Z",
			},
			{
				Assignee:  github.Assignee{Login: "idle"},
				CreatedAt: "2025-06-01T00:00:00Z",
			},
		},
	}

	var buf bytes.Buffer
	SeatsDetail(&buf, seats)
	out := buf.String()

	lines := strings.Split(out, "\n")
	var leavingLine, workerLine, idleLine string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "leaving"):
			leavingLine = line
		case strings.HasPrefix(line, "worker"):
			workerLine = line
		case strings.HasPrefix(line, "idle"):
			idleLine = line
		}
	}

	// Pending cancellation wins over activity.
	if !strings.Contains(leavingLine, "cancels 2026-02-01") || strings.Contains(leavingLine, "active") {
		t.Errorf("leaving line = %q, want cancellation status", leavingLine)
	}
	if !strings.Contains(workerLine, "active") {
		t.Errorf("worker line = %q, want active", workerLine)
	}
	if !strings.Contains(idleLine, "inactive") {
		t.Errorf("idle line = %q, want inactive", idleLine)
	}
	if !strings.Contains(idleLine, "no activity") {
		t.Errorf("idle line = %q, want no-activity sentinel", idleLine)
	}
	if !strings.Contains(out, "Total: 3 users") {
		t.Errorf("missing total:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	env := &report.Envelope{
		ReportStartDay: "2026-01-01",
		ReportEndDay:   "2026-01-28",
		DownloadLinks:  []string{"a", "b"},
		Data: []report.Record{
			{"user_login": "alice", "day": "2026-01-01", "n": float64(1)},
		},
	}

	var buf bytes.Buffer
	Summary(&buf, env, "org_28_day")
	out := buf.String()

	if !strings.Contains(out, "REPORT SUMMARY: ORG_28_DAY") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "Period: 2026-01-01 to 2026-01-28") {
		t.Errorf("missing period:\n%s", out)
	}
	if !strings.Contains(out, "Report files: 2") {
		t.Errorf("missing file count:\n%s", out)
	}
	if !strings.Contains(out, "Records fetched: 1") {
		t.Errorf("missing record count:\n%s", out)
	}
	if !strings.Contains(out, "- user_login") {
		t.Errorf("missing field listing:\n%s", out)
	}
}

func TestComma(t *testing.T) {
	for _, tc := range []struct {
		in   int
		want string
	}{
		{0, "0"}, {999, "999"}, {1000, "1,000"}, {1500, "1,500"}, {1234567, "1,234,567"},
	} {
		if got := comma(tc.in); got != tc.want {
			t.Errorf("comma(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestShortEditor(t *testing.T) {
	if got := shortEditor("vscode/1.96.2/copilot"); got != "1.96.2" {
		t.Errorf("shortEditor = %q, want 1.96.2", got)
	}
	if got := shortEditor(""); got != "N/A" {
		t.Errorf("shortEditor(empty) = %q, want N/A", got)
	}
	if got := shortEditor("plain"); got != "plain" {
		t.Errorf("shortEditor(plain) = %q, want plain", got)
	}
}
