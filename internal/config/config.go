package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries everything the tool reads from the environment. CLI
// flags override these values after Load.
type Config struct {
	Token      string `envconfig:"GITHUB_TOKEN"`
	Org        string `envconfig:"GITHUB_ORG"`
	Enterprise string `envconfig:"GITHUB_ENTERPRISE"`

	OutputFormat string `envconfig:"OUTPUT_FORMAT" default:"json"`
	OutputDir    string `envconfig:"OUTPUT_DIR" default:"./reports"`

	// Serve mode only.
	WorkerInterval int    `envconfig:"WORKER_INTERVAL" default:"3600"`
	ListenAddr     string `envconfig:"LISTEN_ADDR" default:":8080"`

	LogDebug bool   `envconfig:"LOG_DEBUG"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (Config, error) {
	// A .env file is optional; variables already in the environment win.
	_ = godotenv.Load()

	var conf Config
	err := envconfig.Process("", &conf)
	return conf, err
}
