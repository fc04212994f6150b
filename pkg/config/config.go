// Package config loads and validates application configuration from
// YAML files, with sane defaults for the zero-config case.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/appsim/appsim/pkg/mockapi"
)

// Backend selects where API traffic goes.
type Backend string

const (
	// BackendMock intercepts API requests in-process.
	BackendMock Backend = "mock"
	// BackendReal sends API requests over the network.
	BackendReal Backend = "real"
)

// Defaults.
const (
	DefaultBaseURL  = "http://mock.local"
	DefaultHTTPPort = 8080
	DefaultDataDir  = ".appsim"
)

// Sentinel errors returned by LoadFromFile.
var (
	ErrFileNotFound = errors.New("config file not found")
	ErrInvalidYAML  = errors.New("invalid YAML in config file")
	ErrInvalid      = errors.New("invalid configuration")
)

// Config is the application configuration.
type Config struct {
	// Backend is "mock" or "real".
	Backend Backend `yaml:"backend"`

	// BaseURL is the API root. With the mock backend any syntactically
	// valid URL works; with the real backend it must point at a server.
	BaseURL string `yaml:"baseUrl"`

	// Latency is the simulated auth action delay.
	Latency time.Duration `yaml:"latency"`

	// SlowDelay is the latency of the mock slow endpoint.
	SlowDelay time.Duration `yaml:"slowDelay"`

	// DataDir holds the persisted store files.
	DataDir string `yaml:"dataDir"`

	// HTTPPort is the port the serve command listens on.
	HTTPPort int `yaml:"httpPort"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Backend:   BackendMock,
		BaseURL:   DefaultBaseURL,
		Latency:   time.Second,
		SlowDelay: mockapi.DefaultSlowDelay,
		DataDir:   DefaultDataDir,
		HTTPPort:  DefaultHTTPPort,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadFromFile reads and validates a YAML config file. Fields absent
// from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMock, BackendReal:
	default:
		return fmt.Errorf("%w: backend must be %q or %q, got %q", ErrInvalid, BackendMock, BackendReal, c.Backend)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: baseUrl must not be empty", ErrInvalid)
	}
	if c.Latency < 0 {
		return fmt.Errorf("%w: latency must not be negative", ErrInvalid)
	}
	if c.SlowDelay < 0 {
		return fmt.Errorf("%w: slowDelay must not be negative", ErrInvalid)
	}
	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("%w: httpPort must be between 0 and 65535, got %d", ErrInvalid, c.HTTPPort)
	}
	return nil
}

// NewHTTPClient builds the http.Client matching the configured
// backend. With the mock backend the returned client routes every
// request through the given router; with the real backend it is a
// plain network client and the router is unused.
func (c *Config) NewHTTPClient(router *mockapi.Router) *http.Client {
	client := &http.Client{Timeout: 30 * time.Second}
	if c.Backend == BackendMock && router != nil {
		client.Transport = router
	}
	return client
}
