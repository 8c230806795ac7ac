// Package run sequences the report generation: which reports to
// fetch, how to render them, and where to persist them.
package run

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/armandoblanco/github-coplit-metricas-uso/internal/export"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/github"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/report"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/view"
)

// Options selects the reports for one invocation. Day narrows the
// metric reports to a single day; empty means the rolling 28-day
// window.
type Options struct {
	Day        string
	Users      bool
	Seats      bool
	Breakdown  bool
	Enterprise bool
}

type Runner struct {
	client     *github.Client
	downloader *report.Downloader
	exporter   *export.Exporter
	logger     *zap.Logger
	out        io.Writer
}

func NewRunner(client *github.Client, downloader *report.Downloader, exporter *export.Exporter, logger *zap.Logger, out io.Writer) *Runner {
	return &Runner{
		client:     client,
		downloader: downloader,
		exporter:   exporter,
		logger:     logger,
		out:        out,
	}
}

// Run executes the selected reports in order and returns the paths of
// every report file written. Errors from the single-shot metric
// endpoints abort the run; seat listing failures only degrade it.
func (r *Runner) Run(opts Options) ([]string, error) {
	var artifacts []string

	save := func(payload any, reportType string) error {
		path, err := r.exporter.Save(payload, reportType)
		if err != nil {
			return fmt.Errorf("saving %s report: %w", reportType, err)
		}
		fmt.Fprintf(r.out, "Report saved to: %s\n", path)
		artifacts = append(artifacts, path)
		return nil
	}

	orgType := "org_28_day"
	usersType := "users_28_day"
	if opts.Day != "" {
		orgType = "org_day_" + opts.Day
		usersType = "users_day_" + opts.Day
	}

	org, err := r.client.OrgMetrics(opts.Day)
	if err != nil {
		return artifacts, err
	}
	r.downloader.Populate(org)
	view.Summary(r.out, org, orgType)
	if err := save(org, orgType); err != nil {
		return artifacts, err
	}

	if opts.Users {
		users, err := r.client.OrgUserMetrics(opts.Day)
		if err != nil {
			return artifacts, err
		}
		r.downloader.Populate(users)
		view.Summary(r.out, users, usersType)
		if err := save(users, usersType); err != nil {
			return artifacts, err
		}
	}

	if opts.Enterprise {
		if !r.client.HasEnterprise() {
			r.logger.Warn("no enterprise configured, skipping enterprise metrics; set GITHUB_ENTERPRISE")
		} else {
			ent, err := r.client.EnterpriseMetrics()
			if err != nil {
				return artifacts, err
			}
			r.downloader.Populate(ent)
			view.Summary(r.out, ent, "enterprise_28_day")
			if err := save(ent, "enterprise_28_day"); err != nil {
				return artifacts, err
			}
		}
	}

	if opts.Seats || opts.Breakdown {
		seats, err := r.client.ListSeats()
		if err != nil {
			// Degrade: the metric reports above are already on disk.
			r.logger.Warn("failed to list copilot seats", zap.Error(err))
		} else {
			if opts.Breakdown {
				users, err := r.client.OrgUserMetrics(opts.Day)
				if err != nil {
					return artifacts, err
				}
				r.downloader.Populate(users)

				billing, err := r.client.GetBillingSummary()
				if err != nil {
					r.logger.Warn("failed to get billing summary", zap.Error(err))
				}

				view.UsageBreakdown(r.out, seats, users, billing)
				if err := save(users, "users_breakdown"); err != nil {
					return artifacts, err
				}
			} else {
				view.SeatsDetail(r.out, seats)
			}
			if err := save(seats, "seats"); err != nil {
				return artifacts, err
			}
		}
	}

	return artifacts, nil
}
