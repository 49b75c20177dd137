package client

import (
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Config holds the information needed to connect to a docflow API server.
type Config struct {
	Service Service `json:"service"`
}

// Service contains information how to connect to and authenticate
// against the docflow API server.
type Service struct {
	// Server is the URL of the API server (the part before /documents/...).
	Server string `json:"server"`
	// APIKey is sent on every request in the X-API-Key header.
	APIKey string `json:"apiKey"`
}

func NewDefault() *Config {
	return &Config{
		Service: Service{
			Server: "http://localhost:8080",
		},
	}
}

// DefaultConfigPath returns the default path to the client config file.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".docflow", "client.yaml")
}

func ParseConfigFile(filename string) (*Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	config := NewDefault()
	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	return config, nil
}

// NewFromConfigFile returns a new docflow API client using the config
// read from the given file. A missing file yields the default config.
func NewFromConfigFile(filename string) (*Client, error) {
	config, err := ParseConfigFile(filename)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return nil, err
		}
		config = NewDefault()
	}
	return NewFromConfig(config)
}

// NewHTTPClientFromConfig returns a new HTTP Client from the given config.
func NewHTTPClientFromConfig(config *Config) (*http.Client, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     false,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
	return httpClient, nil
}
