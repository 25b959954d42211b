package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is read from FLOWRUN_* environment variables, optionally preloaded
// from a .env file in the working directory.
type Config struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
	APIPort   string `envconfig:"API_PORT" default:"8080"`
	DataDir   string `envconfig:"DATA_DIR" default:"data"`

	HTTPTimeout        time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	HTTPRetries        int           `envconfig:"HTTP_RETRIES" default:"0"`
	HTTPRetryBaseDelay time.Duration `envconfig:"HTTP_RETRY_BASE_DELAY" default:"200ms"`
	HTTPRetryMaxDelay  time.Duration `envconfig:"HTTP_RETRY_MAX_DELAY" default:"5s"`
}

const envPrefix = "FLOWRUN"

// LoadConfig loads .env when present and then processes the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	return &cfg, nil
}

// FlowsDir is the directory storing saved flows.
func (c *Config) FlowsDir() string { return filepath.Join(c.DataDir, "flows") }

func ensureDir(path string) error { return os.MkdirAll(path, 0o755) }
