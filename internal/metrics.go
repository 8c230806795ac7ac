package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var userLabels = []string{"user", "org"}

var UserInteractions *prometheus.GaugeVec = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "github_copilot_user_interactions",
	Help: "User-initiated Copilot interactions per user over the latest 28-day report window",
}, userLabels)

var UserCodeGenerations *prometheus.GaugeVec = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "github_copilot_user_code_generations",
	Help: "Copilot code generation activity per user over the latest 28-day report window",
}, userLabels)

var UserCodeAcceptances *prometheus.GaugeVec = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "github_copilot_user_code_acceptances",
	Help: "Copilot code acceptance activity per user over the latest 28-day report window",
}, userLabels)

var SeatsTotal *prometheus.GaugeVec = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "github_copilot_seats_total",
	Help: "Total Copilot seats assigned in the organization",
}, []string{"org"})
