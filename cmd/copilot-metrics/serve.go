package main

import (
	"fmt"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/armandoblanco/github-coplit-metricas-uso/internal"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/config"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/github"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/logging"
	"github.com/armandoblanco/github-coplit-metricas-uso/internal/report"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a Prometheus exporter",
	Long: `Runs a long-lived exporter that periodically collects per-user
Copilot usage from the latest 28-day report and publishes it as
Prometheus gauges on /metrics.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	conf, err := config.Load()
	if err != nil {
		return err
	}
	if conf.Token == "" || conf.Org == "" {
		return fmt.Errorf("serve mode requires GITHUB_TOKEN and GITHUB_ORG")
	}

	logger := logging.New(conf.LogDebug, conf.LogLevel)
	defer logger.Sync()

	logger.Info("starting copilot metrics exporter", zap.String("org", conf.Org))

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(pprof.New())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	go worker(conf, logger)

	return app.Listen(conf.ListenAddr)
}

func worker(conf config.Config, logger *zap.Logger) {
	sleepInterval := time.Duration(conf.WorkerInterval) * time.Second
	client := github.NewClient(conf.Token, conf.Org, conf.Enterprise, logger)
	downloader := report.NewDownloader(logger)

	for {
		logger.Info("collecting copilot usage metrics")

		if err := collect(client, downloader, conf.Org); err != nil {
			logger.Error("failed to collect metrics", zap.Error(err))
		} else {
			logger.Info("metrics published")
		}

		time.Sleep(sleepInterval)
	}
}

func collect(client *github.Client, downloader *report.Downloader, org string) error {
	seats, err := client.ListSeats()
	if err != nil {
		return fmt.Errorf("listing copilot seats: %w", err)
	}
	internal.SeatsTotal.With(prometheus.Labels{"org": org}).Set(float64(seats.TotalSeats))

	users, err := client.OrgUserMetrics("")
	if err != nil {
		return fmt.Errorf("getting per-user metrics: %w", err)
	}
	downloader.Populate(users)

	internal.UserInteractions.Reset()
	internal.UserCodeGenerations.Reset()
	internal.UserCodeAcceptances.Reset()

	for login, stats := range report.Aggregate(users.Data) {
		lbls := prometheus.Labels{"user": login, "org": org}
		internal.UserInteractions.With(lbls).Set(float64(stats.Interactions))
		internal.UserCodeGenerations.With(lbls).Set(float64(stats.CodeGen))
		internal.UserCodeAcceptances.With(lbls).Set(float64(stats.CodeAccept))
	}

	return nil
}
