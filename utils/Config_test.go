package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reaandrew/s3hunter/probes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() ScanConfig {
	config := DefaultScanConfig()
	config.Company = "acme"
	return config
}

func TestDefaultScanConfig(t *testing.T) {
	config := DefaultScanConfig()
	assert.Equal(t, 10, config.Threads)
	assert.Equal(t, 5, config.Timeout)
	assert.Equal(t, 2, config.Retries)
	assert.Equal(t, time.Second, config.Backoff)
	assert.Equal(t, "s3.amazonaws.com", config.Domain)
	assert.Equal(t, "text", config.Report)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *ScanConfig)
		field  string
	}{
		{"valid", func(c *ScanConfig) {}, ""},
		{"missing company", func(c *ScanConfig) { c.Company = " " }, "company"},
		{"untrimmed company", func(c *ScanConfig) { c.Company = " acme" }, "company"},
		{"company with space", func(c *ScanConfig) { c.Company = "ac me" }, "company"},
		{"company with slash", func(c *ScanConfig) { c.Company = "acme/dev" }, "company"},
		{"dotted company", func(c *ScanConfig) { c.Company = "acme.corp" }, ""},
		{"zero threads", func(c *ScanConfig) { c.Threads = 0 }, "threads"},
		{"zero timeout", func(c *ScanConfig) { c.Timeout = 0 }, "timeout"},
		{"negative retries", func(c *ScanConfig) { c.Retries = -1 }, "retries"},
		{"negative backoff", func(c *ScanConfig) { c.Backoff = -time.Second }, "backoff"},
		{"negative rate", func(c *ScanConfig) { c.Rate = -1 }, "rate"},
		{"unknown mode", func(c *ScanConfig) { c.Mode = "whenever" }, "mode"},
		{"bad proxy", func(c *ScanConfig) { c.Proxy = "127.0.0.1:8080" }, "proxy"},
		{"good proxy", func(c *ScanConfig) { c.Proxy = "http://127.0.0.1:8080" }, ""},
		{"unknown report", func(c *ScanConfig) { c.Report = "pdf" }, "report"},
		{"http report without base url", func(c *ScanConfig) { c.Report = "http" }, "baseurl"},
		{"http report", func(c *ScanConfig) { c.Report = "http"; c.BaseURL = "https://collector" }, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := validConfig()
			tc.mutate(&config)
			err := config.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			var configErr *ConfigurationError
			require.True(t, errors.As(err, &configErr))
			assert.Equal(t, tc.field, configErr.Field)
		})
	}
}

func TestNormalizeTrimsCompany(t *testing.T) {
	config := DefaultScanConfig()
	config.Company = "  acme\t"
	config.Normalize()
	assert.Equal(t, "acme", config.Company)
	assert.NoError(t, config.Validate())
}

func TestLoadYamlConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s3hunter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
company: acme
wordlist: words.txt
threads: 25
retries: 4
backoff: 250ms
mode: stop-on-first-found
exclude:
  - "*-test"
rate: 7.5
`), 0644))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", config.Company)
	assert.Equal(t, "words.txt", config.Wordlist)
	assert.Equal(t, 25, config.Threads)
	assert.Equal(t, 4, config.Retries)
	assert.Equal(t, 250*time.Millisecond, config.Backoff)
	assert.Equal(t, probes.StopOnFirstFoundName, config.Mode)
	assert.Equal(t, []string{"*-test"}, config.Exclude)
	assert.Equal(t, 7.5, config.Rate)
	// untouched keys keep their defaults
	assert.Equal(t, 5, config.Timeout)
	assert.Equal(t, "s3.amazonaws.com", config.Domain)
}

func TestLoadTomlConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s3hunter.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
company = "acme"
threads = 3
timeout = 9
backoff = "2s"
proxy = "http://127.0.0.1:8080"
`), 0644))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", config.Company)
	assert.Equal(t, 3, config.Threads)
	assert.Equal(t, 9, config.Timeout)
	assert.Equal(t, 2*time.Second, config.Backoff)
	assert.Equal(t, "http://127.0.0.1:8080", config.Proxy)
	assert.Equal(t, 2, config.Retries)
}

func TestLoadConfigFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfigFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	unsupported := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(unsupported, []byte("company=acme"), 0644))
	_, err = LoadConfigFile(unsupported)
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("threads: [1, 2"), 0644))
	_, err = LoadConfigFile(broken)
	var configErr *ConfigurationError
	assert.True(t, errors.As(err, &configErr))
}

func TestProberConfig(t *testing.T) {
	config := validConfig()
	config.Timeout = 7
	config.Mode = probes.StopOnFirstFoundName
	config.Rate = 3

	proberConfig, err := config.ProberConfig()
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, proberConfig.Timeout)
	assert.Equal(t, probes.StopOnFirstFound, proberConfig.Mode)
	assert.Equal(t, 3.0, proberConfig.RequestsPerSecond)
	assert.Equal(t, "x-amz-request-id", proberConfig.SignatureHeader)
}
