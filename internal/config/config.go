package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Worker   *workerConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"docflow"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string   `envconfig:"DOCFLOW_ADDRESS" default:":8080"`
	MetricsAddress string   `envconfig:"DOCFLOW_METRICS_ADDRESS" default:":8081"`
	BaseUrl        string   `envconfig:"DOCFLOW_BASE_URL" default:"http://localhost:8080"`
	LogLevel       string   `envconfig:"DOCFLOW_LOG_LEVEL" default:"info"`
	APIKey         string   `envconfig:"DOCFLOW_API_KEY" default:"api-key-secret"`
	CORSOrigins    []string `envconfig:"DOCFLOW_CORS_ORIGINS" default:"http://localhost:3000"`
}

type workerConfig struct {
	ScanInterval string  `envconfig:"DOCFLOW_WORKER_SCAN_INTERVAL" default:"1s"`
	Concurrency  int     `envconfig:"DOCFLOW_WORKER_CONCURRENCY" default:"4"`
	ApproveRatio float64 `envconfig:"DOCFLOW_WORKER_APPROVE_RATIO" default:"0.8"`
}

// NewDefault returns a configuration with every value at its default,
// ignoring the environment, backed by an in-memory database.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: "file::memory:?cache=shared",
		},
		Service: &svcConfig{
			Address:        ":8080",
			MetricsAddress: ":8081",
			BaseUrl:        "http://localhost:8080",
			LogLevel:       "info",
			APIKey:         "api-key-secret",
		},
		Worker: &workerConfig{
			ScanInterval: "1s",
			Concurrency:  4,
			ApproveRatio: 0.8,
		},
	}
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}
