// Package view renders report summaries and seat tables to the
// console, closely following the layout of the GitHub Copilot UI.
package view

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/armandoblanco/github-coplit-metricas-uso/internal/github"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/report"
)

// IncludedRequestQuota is the number of premium requests included per
// seat before overage billing starts.
const IncludedRequestQuota = 1000

// PricePerPremiumRequest is the overage price per request in USD.
const PricePerPremiumRequest = 0.04

const barSegments = 20

// Summary prints an overview of a fetched report: period, file count,
// record count, and the fields available on the first record.
func Summary(w io.Writer, env *report.Envelope, reportType string) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 60))
	fmt.Fprintf(w, "REPORT SUMMARY: %s\n", strings.ToUpper(reportType))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	switch {
	case env.ReportStartDay != "" && env.ReportEndDay != "":
		fmt.Fprintf(w, "Period: %s to %s\n", env.ReportStartDay, env.ReportEndDay)
	case env.ReportDay != "":
		fmt.Fprintf(w, "Day: %s\n", env.ReportDay)
	}

	if len(env.DownloadLinks) > 0 {
		fmt.Fprintf(w, "Report files: %d\n", len(env.DownloadLinks))
	}

	if env.Data != nil {
		fmt.Fprintf(w, "Records fetched: %d\n", len(env.Data))
		if len(env.Data) > 0 {
			keys := recordKeys(env.Data[0])
			fmt.Fprintln(w, "\nFields available in the report:")
			shown := keys
			if len(shown) > 10 {
				shown = shown[:10]
			}
			for _, k := range shown {
				fmt.Fprintf(w, "   - %s\n", k)
			}
			if len(keys) > 10 {
				fmt.Fprintf(w, "   ... and %d more fields\n", len(keys)-10)
			}
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 60)+"\n")
}

// SeatsDetail prints one line per assigned seat with its derived
// status. A pending cancellation takes priority over active/inactive.
func SeatsDetail(w io.Writer, seats *github.SeatsReport) {
	if seats == nil || len(seats.Seats) == 0 {
		fmt.Fprintln(w, "No seat data to display")
		return
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 90))
	fmt.Fprintln(w, "COPILOT SEAT DETAIL")
	fmt.Fprintln(w, strings.Repeat("=", 90))
	fmt.Fprintf(w, "\n%-25s %-15s %-20s %s\n", "User", "Assigned", "Last activity", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, seat := range seats.Seats {
		created := dateOnly(seat.CreatedAt)
		if created == "" {
			created = "N/A"
		}
		lastActivity := dateOnly(seat.LastActivityAt)
		if lastActivity == "" {
			lastActivity = "no activity"
		}

		var status string
		switch {
		case seat.PendingCancellationDate != "":
			status = "cancels " + dateOnly(seat.PendingCancellationDate)
		case seat.LastActivityAt != "":
			status = "active"
		default:
			status = "inactive"
		}

		fmt.Fprintf(w, "%-25s %-15s %-20s %s\n", seat.Assignee.Login, created, lastActivity, status)
	}

	fmt.Fprintln(w, strings.Repeat("-", 90))
	fmt.Fprintf(w, "Total: %d users\n", len(seats.Seats))
	fmt.Fprintln(w, strings.Repeat("=", 90)+"\n")
}

// UsageBreakdown prints the per-user usage table: interactions, code
// generations, included-request consumption with a progress bar
// against the quota, and grand totals. billing may be nil.
func UsageBreakdown(w io.Writer, seats *github.SeatsReport, users *report.Envelope, billing *github.BillingSummary) {
	if seats == nil || len(seats.Seats) == 0 {
		fmt.Fprintln(w, "No user data to display")
		return
	}

	var stats map[string]report.UserStats
	periodStart, periodEnd := "N/A", "N/A"
	if users != nil {
		stats = report.Aggregate(users.Data)
		if users.ReportStartDay != "" {
			periodStart = users.ReportStartDay
		}
		if users.ReportEndDay != "" {
			periodEnd = users.ReportEndDay
		}
	}

	totalSeats := seats.TotalSeats
	if totalSeats == 0 {
		totalSeats = len(seats.Seats)
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 110))
	fmt.Fprintln(w, "USAGE BREAKDOWN")
	fmt.Fprintf(w, "   Period: %s to %s | Price per premium request: $%.2f\n", periodStart, periodEnd, PricePerPremiumRequest)
	fmt.Fprintln(w, strings.Repeat("=", 110))

	fmt.Fprintf(w, "\n%-24s %-15s %-12s %-18s %-25s\n", "User", "Interactions", "Code Gen", "Included req", "Editor")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	var totalInteractions, totalCodeGen, activeUsers int
	for _, seat := range seats.Seats {
		login := seat.Assignee.Login
		s := stats[login]

		totalInteractions += s.Interactions
		totalCodeGen += s.CodeGen
		if seat.LastActivityAt != "" {
			activeUsers++
		}

		requests := s.Requests()
		included := fmt.Sprintf("%s/%s", comma(requests), comma(IncludedRequestQuota))

		status := "○"
		if seat.LastActivityAt != "" {
			status = "●"
		}

		fmt.Fprintf(w, "%s %-22s %-15d %-12d %-18s %-25s\n",
			status, login, s.Interactions, s.CodeGen, included, shortEditor(seat.LastActivityEditor))

		if requests > 0 {
			bar, pct := ProgressBar(requests, IncludedRequestQuota)
			fmt.Fprintf(w, "   %s %.1f%%\n", bar, pct)
		}

		if seat.PendingCancellationDate != "" {
			fmt.Fprintf(w, "   ! pending cancellation: %s\n", dateOnly(seat.PendingCancellationDate))
		}
	}

	fmt.Fprintln(w, strings.Repeat("-", 110))
	fmt.Fprintln(w, "\nSUMMARY")
	fmt.Fprintf(w, "   Users with Copilot: %d\n", totalSeats)
	fmt.Fprintf(w, "   Active users: %d\n", activeUsers)
	fmt.Fprintf(w, "   Users with no recent activity: %d\n", totalSeats-activeUsers)
	fmt.Fprintf(w, "\n   Total interactions: %s\n", comma(totalInteractions))
	fmt.Fprintf(w, "   Total code generations: %s\n", comma(totalCodeGen))
	if billing != nil {
		fmt.Fprintf(w, "\n   Plan: %s | Seats added this cycle: %d | Pending cancellations: %d\n",
			billing.PlanType, billing.SeatBreakdown.AddedThisCycle, billing.SeatBreakdown.PendingCancellation)
	}
	fmt.Fprintln(w, strings.Repeat("=", 110)+"\n")
}

// ProgressBar renders usage against a quota as a 20-segment bar plus
// the usage percentage, capped at 100.
func ProgressBar(used, quota int) (string, float64) {
	pct := math.Min(100, float64(used)/float64(quota)*100)
	filled := int(math.Round(pct / 5))
	return strings.Repeat("█", filled) + strings.Repeat("░", barSegments-filled), pct
}

// shortEditor trims an editor identifier like "vscode/1.96.2/copilot"
// down to its second segment, capped at 20 characters.
func shortEditor(editor string) string {
	if editor == "" {
		return "N/A"
	}
	if parts := strings.Split(editor, "/"); len(parts) > 1 {
		editor = parts[1]
		if len(editor) > 20 {
			editor = editor[:20]
		}
	}
	return editor
}

func dateOnly(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

func comma(n int) string {
	s := fmt.Sprint(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func recordKeys(rec report.Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
