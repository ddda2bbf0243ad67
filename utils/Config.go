package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/reaandrew/s3hunter/candidates"
	"github.com/reaandrew/s3hunter/probes"
	"gopkg.in/yaml.v3"
)

const (
	DefaultThreads = 10
	DefaultTimeout = 5
	DefaultRetries = 2
	DefaultReport  = "text"
	DefaultLogFile = "s3hunter.log"
)

// ScanConfig holds every setting of a run. It can be loaded from a YAML or
// TOML file and overridden by command line flags.
type ScanConfig struct {
	Company         string        `yaml:"company" toml:"company" json:"company"`
	Wordlist        string        `yaml:"wordlist" toml:"wordlist" json:"wordlist"`
	Output          string        `yaml:"output" toml:"output" json:"output"`
	Threads         int           `yaml:"threads" toml:"threads" json:"threads"`
	Timeout         int           `yaml:"timeout" toml:"timeout" json:"timeout"`
	Retries         int           `yaml:"retries" toml:"retries" json:"retries"`
	Backoff         time.Duration `yaml:"backoff" toml:"backoff" json:"backoff"`
	Proxy           string        `yaml:"proxy" toml:"proxy" json:"proxy"`
	Mode            string        `yaml:"mode" toml:"mode" json:"mode"`
	Domain          string        `yaml:"domain" toml:"domain" json:"domain"`
	SignatureHeader string        `yaml:"signature_header" toml:"signature_header" json:"signature_header"`
	Exclude         []string      `yaml:"exclude" toml:"exclude" json:"exclude"`
	Rate            float64       `yaml:"rate" toml:"rate" json:"rate"`
	UserAgent       string        `yaml:"user_agent" toml:"user_agent" json:"user_agent"`
	Report          string        `yaml:"report" toml:"report" json:"report"`
	BaseURL         string        `yaml:"baseurl" toml:"baseurl" json:"baseurl"`
	NoProgress      bool          `yaml:"no_progress" toml:"no_progress" json:"no_progress"`
	Verbose         bool          `yaml:"verbose" toml:"verbose" json:"verbose"`
}

func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Threads:         DefaultThreads,
		Timeout:         DefaultTimeout,
		Retries:         DefaultRetries,
		Backoff:         probes.DefaultBackoff,
		Mode:            probes.ProbeAllProtocolsName,
		Domain:          probes.DefaultStorageDomain,
		SignatureHeader: probes.DefaultSignatureHeader,
		UserAgent:       probes.DefaultUserAgent,
		Report:          DefaultReport,
	}
}

// LoadConfigFile reads path on top of the defaults. The format follows the
// file extension: .yaml, .yml or .toml.
func LoadConfigFile(path string) (ScanConfig, error) {
	config := DefaultScanConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, NewConfigurationError("config", fmt.Errorf("failed to read config file '%s': %w", path, err))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, NewConfigurationError("config", fmt.Errorf("failed to unmarshal YAML data: %w", err))
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &config); err != nil {
			return config, NewConfigurationError("config", fmt.Errorf("failed to decode TOML data: %w", err))
		}
	default:
		return config, NewConfigurationError("config", fmt.Errorf("unsupported config file format '%s'", filepath.Ext(path)))
	}

	return config, nil
}

// Normalize trims surrounding whitespace from the company name.
func (c *ScanConfig) Normalize() {
	c.Company = strings.TrimSpace(c.Company)
}

// Validate reports the first invalid setting as a ConfigurationError.
func (c ScanConfig) Validate() error {
	if strings.TrimSpace(c.Company) == "" {
		return NewConfigurationError("company", errors.New("company name is required"))
	}
	if !candidates.IsValidName(c.Company) {
		return NewConfigurationError("company", fmt.Errorf("company name %q cannot form a bucket hostname", c.Company))
	}
	if c.Threads < 1 {
		return NewConfigurationError("threads", fmt.Errorf("threads must be at least 1, got %d", c.Threads))
	}
	if c.Timeout <= 0 {
		return NewConfigurationError("timeout", fmt.Errorf("timeout must be positive, got %d", c.Timeout))
	}
	if c.Retries < 0 {
		return NewConfigurationError("retries", fmt.Errorf("retries must not be negative, got %d", c.Retries))
	}
	if c.Backoff < 0 {
		return NewConfigurationError("backoff", fmt.Errorf("backoff must not be negative, got %s", c.Backoff))
	}
	if c.Rate < 0 {
		return NewConfigurationError("rate", fmt.Errorf("rate must not be negative, got %v", c.Rate))
	}
	if _, err := probes.ParseMode(c.Mode); err != nil {
		return NewConfigurationError("mode", err)
	}
	if c.Proxy != "" {
		if _, err := probes.ParseProxyURL(c.Proxy); err != nil {
			return NewConfigurationError("proxy", err)
		}
	}
	switch c.Report {
	case "", "text", "json", "xlsx", "sqlite":
	case "http":
		if c.BaseURL == "" {
			return NewConfigurationError("baseurl", errors.New("the http report format requires a base url"))
		}
	default:
		return NewConfigurationError("report", fmt.Errorf("unknown report format: %s", c.Report))
	}
	return nil
}

// ProberConfig converts the scan settings into probe settings.
func (c ScanConfig) ProberConfig() (probes.Config, error) {
	mode, err := probes.ParseMode(c.Mode)
	if err != nil {
		return probes.Config{}, NewConfigurationError("mode", err)
	}
	return probes.Config{
		StorageDomain:     c.Domain,
		SignatureHeader:   c.SignatureHeader,
		Timeout:           time.Duration(c.Timeout) * time.Second,
		Retries:           c.Retries,
		Backoff:           c.Backoff,
		Proxy:             c.Proxy,
		Mode:              mode,
		UserAgent:         c.UserAgent,
		RequestsPerSecond: c.Rate,
	}, nil
}
