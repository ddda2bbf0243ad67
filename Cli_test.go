package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWordlist(t *testing.T, words string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(words), 0644))
	return path
}

func runCli(t *testing.T, cli *Cli, args ...string) (string, error) {
	t.Helper()
	cmd := cli.newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScanCommandWritesTextReport(t *testing.T) {
	wordlist := writeWordlist(t, "dev\nprod\n")
	output := filepath.Join(t.TempDir(), "found.txt")

	cli := &Cli{httpClient: signedAcmeDev()}
	out, err := runCli(t, cli, "scan", "-C", "acme", "-w", wordlist, "-o", output, "--no-progress")
	require.NoError(t, err)

	assert.Contains(t, out, "Buckets to check: 5")
	assert.Contains(t, out, "https://acme-dev.s3.amazonaws.com (200)")
	assert.Contains(t, out, "Results saved to "+output)
	assert.Contains(t, out, "Scan finished. 1 buckets found.")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "https://acme-dev.s3.amazonaws.com (200)\n", string(data))
}

func TestScanCommandRequiresCompanyAndWordlist(t *testing.T) {
	client := signedAcmeDev()

	_, err := runCli(t, &Cli{httpClient: client}, "scan", "-w", writeWordlist(t, "dev\n"), "--no-progress")
	assert.ErrorContains(t, err, "company")

	_, err = runCli(t, &Cli{httpClient: client}, "scan", "-C", "acme", "--no-progress")
	assert.ErrorContains(t, err, "wordlist")

	_, err = runCli(t, &Cli{httpClient: client}, "scan", "-C", "acme", "-w", filepath.Join(t.TempDir(), "missing.txt"), "--no-progress")
	assert.ErrorContains(t, err, "wordlist")

	assert.Empty(t, client.Requests())
}

func TestScanCommandRejectsUnknownReport(t *testing.T) {
	client := signedAcmeDev()
	_, err := runCli(t, &Cli{httpClient: client}, "scan", "-C", "acme", "-w", writeWordlist(t, "dev\n"), "--report", "pdf", "--no-progress")
	assert.ErrorContains(t, err, "report")
	assert.Empty(t, client.Requests())
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "s3hunter.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
company: fromfile
threads: 3
retries: 5
backoff: 2s
`), 0644))

	cli := &Cli{}
	scanCmd := cli.createScanCommand()
	require.NoError(t, scanCmd.ParseFlags([]string{"--config", configPath, "-C", "acme", "--retries", "0"}))

	config, err := cli.resolveConfig(scanCmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, "acme", config.Company)
	assert.Equal(t, 0, config.Retries)
	assert.Equal(t, 3, config.Threads)
	assert.Equal(t, 2*time.Second, config.Backoff)
	// no flag and no config entry keeps the default
	assert.Equal(t, 5, config.Timeout)
}

func TestUnsetFlagsKeepDefaults(t *testing.T) {
	cli := &Cli{}
	scanCmd := cli.createScanCommand()
	require.NoError(t, scanCmd.ParseFlags([]string{"-C", "acme", "--exclude", "*-test,*-qa"}))

	config, err := cli.resolveConfig(scanCmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, 10, config.Threads)
	assert.Equal(t, "probe-all-protocols", config.Mode)
	assert.Equal(t, []string{"*-test", "*-qa"}, config.Exclude)
}
