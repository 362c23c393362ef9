package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/challenai/hbdemo/client"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration written as "10s" in config files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	// Endpoints of the HBase thrift gateways, tried in order.
	Endpoints []string          `yaml:"endpoints" toml:"endpoints"`
	Transport string            `yaml:"transport" toml:"transport"`
	Protocol  string            `yaml:"protocol" toml:"protocol"`
	Timeout   Duration          `yaml:"timeout" toml:"timeout"`
	Headers   map[string]string `yaml:"headers" toml:"headers"`

	LogLevel    string `yaml:"log_level" toml:"log_level"`
	LogFile     string `yaml:"log_file" toml:"log_file"`
	MetricsFile string `yaml:"metrics_file" toml:"metrics_file"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Transport: client.TransportHTTP,
		Protocol:  client.ProtocolBinary,
		Timeout:   Duration{client.DefaultTimeout},
		LogLevel:  "info",
	}
}

// LoadConfig loads configuration from a YAML or TOML file if path is
// provided, then applies environment variable overrides. The result is
// not validated; callers apply flag overrides first and then Validate.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			err = toml.Unmarshal(data, cfg)
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, cfg)
		default:
			return nil, fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides allows environment variables to override file values
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("HBDEMO_ENDPOINTS"); v != "" {
		cfg.Endpoints = SplitList(v)
	}
	if v := os.Getenv("HBDEMO_TRANSPORT"); v != "" {
		cfg.Transport = v
	}
	if v := os.Getenv("HBDEMO_PROTOCOL"); v != "" {
		cfg.Protocol = v
	}
	if v := os.Getenv("HBDEMO_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid HBDEMO_TIMEOUT value: %w", err)
		}
		cfg.Timeout.Duration = d
	}
	if v := os.Getenv("HBDEMO_HEADERS"); v != "" {
		headers, err := ParseHeaders(v)
		if err != nil {
			return fmt.Errorf("invalid HBDEMO_HEADERS value: %w", err)
		}
		cfg.Headers = headers
	}
	if v := os.Getenv("HBDEMO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HBDEMO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("HBDEMO_METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}
	return nil
}

// Validate checks the fields needed to dial the cluster.
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("at least one endpoint is required (set via HBDEMO_ENDPOINTS, config file or --endpoints)")
	}
	for _, ep := range c.Endpoints {
		if strings.TrimSpace(ep) == "" {
			return fmt.Errorf("empty endpoint in %v", c.Endpoints)
		}
	}
	switch c.Transport {
	case client.TransportHTTP, client.TransportFramed, client.TransportBuffered:
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	switch c.Protocol {
	case client.ProtocolBinary, client.ProtocolCompact:
	default:
		return fmt.Errorf("unknown protocol %q", c.Protocol)
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout.Duration)
	}
	return nil
}

// ClientOptions converts the config into dial options.
func (c *Config) ClientOptions() client.Options {
	opts := client.Options{
		Endpoints: c.Endpoints,
		Transport: c.Transport,
		Protocol:  c.Protocol,
		Timeout:   c.Timeout.Duration,
	}
	for k, v := range c.Headers {
		opts.Headers = append(opts.Headers, client.Header{Key: k, Value: v})
	}
	return opts
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseHeaders parses "k=v;k2=v2".
func ParseHeaders(s string) (map[string]string, error) {
	headers := map[string]string{}
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || strings.TrimSpace(kv[0]) == "" {
			return nil, fmt.Errorf("malformed header %q", pair)
		}
		headers[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return headers, nil
}
