package client

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/client-go/util/homedir"
	"sigs.k8s.io/yaml"
)

const (
	// TestRootDirEnvKey is the environment variable key used to set the file system root when testing.
	TestRootDirEnvKey = "GIGDESK_TEST_ROOT_DIR"
)

// Config holds the information needed to connect to the marketplace API server
type Config struct {
	Service Service `json:"service"`
	// Session is filled in by "gigdesk login".
	Session Session `json:"session,omitempty"`

	// testRootDir is the root directory for test files.
	testRootDir string `json:"-"`
}

// Service contains information how to connect to the marketplace API server.
type Service struct {
	// Server is the base URL of the API, e.g. https://api.example.com/api
	Server  string   `json:"server"`
	Timeout Duration `json:"timeout,omitempty"`
}

type Session struct {
	Token  string `json:"token,omitempty"`
	UserID string `json:"userId,omitempty"`
}

// Duration marshals as a Go duration string ("10s").
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (c *Config) DeepCopy() *Config {
	if c == nil {
		return nil
	}
	c2 := *c
	return &c2
}

func NewDefault() *Config {
	c := &Config{
		Service: Service{Timeout: Duration{DefaultTimeout}},
	}

	if value := os.Getenv(TestRootDirEnvKey); value != "" {
		c.testRootDir = filepath.Clean(value)
	}

	return c
}

// NewFromConfig returns a new API client from the given config.
func NewFromConfig(config *Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	options := []Option{WithTimeout(config.Service.Timeout.Duration)}
	if config.Session.Token != "" {
		options = append(options, WithToken(config.Session.Token))
	}
	return New(config.Service.Server, append(options, opts...)...)
}

// DefaultClientConfigPath returns the default path to the client config file.
func DefaultClientConfigPath() string {
	return filepath.Join(homedir.HomeDir(), ".gigdesk", "client.yaml")
}

func ParseConfigFile(filename string) (*Config, error) {
	config := NewDefault()
	contents, err := os.ReadFile(config.path(filename))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if config.Service.Timeout.Duration == 0 {
		config.Service.Timeout = Duration{DefaultTimeout}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// NewFromConfigFile returns a new API client using the config read from the given file.
func NewFromConfigFile(filename string, opts ...Option) (*Client, error) {
	config, err := ParseConfigFile(filename)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(config, opts...)
}

// WriteConfig writes a client config file using the given parameters.
func WriteConfig(filename string, server string) error {
	config := NewDefault()
	config.Service.Server = server

	return config.Persist(filename)
}

func (c *Config) Persist(filename string) error {
	contents, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	filename = c.path(filename)
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.WriteFile(filename, contents, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) path(filename string) string {
	if c.testRootDir == "" {
		return filename
	}
	return filepath.Join(c.testRootDir, filename)
}

func (c *Config) Validate() error {
	validationErrors := make([]error, 0)
	validationErrors = append(validationErrors, validateService(c.Service)...)
	if len(validationErrors) > 0 {
		return fmt.Errorf("invalid configuration: %v", utilerrors.NewAggregate(validationErrors).Error())
	}
	return nil
}

func validateService(service Service) []error {
	validationErrors := make([]error, 0)
	// Make sure the server is specified and well-formed
	if len(service.Server) == 0 {
		validationErrors = append(validationErrors, fmt.Errorf("no server found"))
	} else {
		u, err := url.Parse(service.Server)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Errorf("invalid server format %q: %w", service.Server, err))
		}
		if err == nil && len(u.Hostname()) == 0 {
			validationErrors = append(validationErrors, fmt.Errorf("invalid server format %q: no hostname", service.Server))
		}
	}
	if service.Timeout.Duration < 0 {
		validationErrors = append(validationErrors, fmt.Errorf("timeout must not be negative"))
	}
	return validationErrors
}
