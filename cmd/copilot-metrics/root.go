package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/armandoblanco/github-coplit-metricas-uso/internal/config"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/export"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/github"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/logging"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/report"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/run"
)

var (
	flagDay        string
	flagFormat     string
	flagOutput     string
	flagOrg        string
	flagToken      string
	flagUsers      bool
	flagSeats      bool
	flagBreakdown  bool
	flagEnterprise bool
)

var rootCmd = &cobra.Command{
	Use:   "copilot-metrics",
	Short: "GitHub Copilot usage metrics report generator",
	Long: `Fetches GitHub Copilot usage metrics for an organization and writes
them as timestamped report files.

Examples:
  copilot-metrics                     # latest 28-day report
  copilot-metrics --day 2026-01-15    # report for one day
  copilot-metrics --users             # include per-user metrics
  copilot-metrics --seats             # list assigned Copilot seats
  copilot-metrics --breakdown         # per-user usage breakdown
  copilot-metrics --format csv        # export as CSV
  copilot-metrics --format excel      # export as xlsx`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runReport,
}

// Execute runs the CLI. Errors exit with code 1; a user interrupt
// exits with code 0.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&flagDay, "day", "", "specific report day (YYYY-MM-DD), default is the 28-day window")
	rootCmd.Flags().BoolVar(&flagUsers, "users", false, "include detailed per-user metrics")
	rootCmd.Flags().BoolVar(&flagSeats, "seats", false, "list users with assigned Copilot seats")
	rootCmd.Flags().BoolVar(&flagBreakdown, "breakdown", false, "show per-user usage breakdown (like the GitHub UI)")
	rootCmd.Flags().BoolVar(&flagEnterprise, "enterprise", false, "fetch enterprise-level metrics")
	rootCmd.Flags().StringVar(&flagFormat, "format", "", "output format: json, csv, or excel (default json, env OUTPUT_FORMAT)")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "output directory (default ./reports, env OUTPUT_DIR)")
	rootCmd.Flags().StringVar(&flagOrg, "org", "", "GitHub organization name (env GITHUB_ORG)")
	rootCmd.Flags().StringVar(&flagToken, "token", "", "GitHub personal access token (env GITHUB_TOKEN)")
}

func runReport(cmd *cobra.Command, args []string) error {
	conf, err := config.Load()
	if err != nil {
		return err
	}

	// Flags win over the environment.
	if flagToken != "" {
		conf.Token = flagToken
	}
	if flagOrg != "" {
		conf.Org = flagOrg
	}
	if flagFormat != "" {
		conf.OutputFormat = flagFormat
	}
	if flagOutput != "" {
		conf.OutputDir = flagOutput
	}

	if conf.Token == "" {
		fmt.Fprintln(os.Stderr, "Error: a GitHub token is required.")
		fmt.Fprintln(os.Stderr, "  Set GITHUB_TOKEN in the environment or a .env file,")
		fmt.Fprintln(os.Stderr, "  or pass --token.")
		return errors.New("missing GitHub token")
	}
	if conf.Org == "" {
		fmt.Fprintln(os.Stderr, "Error: a GitHub organization is required.")
		fmt.Fprintln(os.Stderr, "  Set GITHUB_ORG in the environment or a .env file,")
		fmt.Fprintln(os.Stderr, "  or pass --org.")
		return errors.New("missing GitHub organization")
	}

	// A user interrupt is a clean stop, not a failure.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		fmt.Fprintln(os.Stderr, "\nCancelled by user")
		os.Exit(0)
	}()

	logger := logging.New(conf.LogDebug, conf.LogLevel)
	defer logger.Sync()

	out := cmd.OutOrStdout()
	printBanner(out, conf)

	enterprise := ""
	if flagEnterprise {
		enterprise = conf.Enterprise
	}

	client := github.NewClient(conf.Token, conf.Org, enterprise, logger)
	downloader := report.NewDownloader(logger)

	exporter, err := export.New(conf.OutputDir, conf.OutputFormat, logger)
	if err != nil {
		return err
	}

	runner := run.NewRunner(client, downloader, exporter, logger, out)
	artifacts, err := runner.Run(run.Options{
		Day:        flagDay,
		Users:      flagUsers,
		Seats:      flagSeats,
		Breakdown:  flagBreakdown,
		Enterprise: flagEnterprise,
	})
	if err != nil {
		printStatusGuidance(os.Stderr, err)
		return err
	}

	fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(out, "DONE")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "Reports generated: %d\n", len(artifacts))
	for _, path := range artifacts {
		fmt.Fprintf(out, "   %s\n", path)
	}
	fmt.Fprintln(out, strings.Repeat("=", 60))
	return nil
}

func printBanner(w io.Writer, conf config.Config) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "GitHub Copilot Usage Metrics Report Generator")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Organization: %s\n", conf.Org)
	fmt.Fprintf(w, "Output directory: %s\n", conf.OutputDir)
	fmt.Fprintf(w, "Format: %s\n", conf.OutputFormat)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// printStatusGuidance expands HTTP failures into the remediation text
// a user can act on.
func printStatusGuidance(w io.Writer, err error) {
	var se *github.StatusError
	if !errors.As(err, &se) {
		return
	}
	fmt.Fprintf(w, "HTTP %d from %s\n", se.StatusCode, se.URL)
	if se.Hint != "" {
		fmt.Fprintf(w, "  Hint: %s\n", se.Hint)
	} else if se.Body != "" {
		fmt.Fprintf(w, "  %s\n", se.Body)
	}
}
