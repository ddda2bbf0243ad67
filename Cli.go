package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/reaandrew/s3hunter/core"
	"github.com/reaandrew/s3hunter/probes"
	"github.com/reaandrew/s3hunter/reporters"
	"github.com/reaandrew/s3hunter/utils"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cli represents the command-line interface
type Cli struct {
	flags      utils.ScanConfig
	configPath string

	// httpClient is only set by tests.
	httpClient probes.HttpClient
}

// Execute sets up and runs the root command
func (cli *Cli) Execute(ctx context.Context) error {
	return cli.newRootCommand().ExecuteContext(ctx)
}

func (cli *Cli) newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "s3hunter",
		Short: "s3hunter finds publicly reachable storage buckets named after an organization.",
	}

	rootCmd.AddCommand(cli.createScanCommand())
	return rootCmd
}

// createScanCommand creates the 'scan' subcommand with its flags
func (cli *Cli) createScanCommand() *cobra.Command {
	cli.flags = utils.DefaultScanConfig()

	scanCmd := &cobra.Command{
		Use:          "scan",
		Short:        "Probe bucket names built from a company name and a wordlist.",
		Version:      Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runScan(cmd)
		},
	}

	flags := scanCmd.Flags()
	flags.StringVarP(&cli.flags.Company, "company", "C", "", "Company name used to build bucket candidates")
	flags.StringVarP(&cli.flags.Wordlist, "wordlist", "w", "", "Path to the wordlist, one word per line")
	flags.StringVarP(&cli.flags.Output, "output", "o", "", "Output file for found buckets")
	flags.IntVarP(&cli.flags.Threads, "threads", "t", cli.flags.Threads, "Maximum number of concurrent probes")
	flags.IntVar(&cli.flags.Timeout, "timeout", cli.flags.Timeout, "Request timeout in seconds")
	flags.IntVar(&cli.flags.Retries, "retries", cli.flags.Retries, "Retries after a transport failure")
	flags.DurationVar(&cli.flags.Backoff, "backoff", cli.flags.Backoff, "Delay between retries")
	flags.StringVar(&cli.flags.Proxy, "proxy", "", "Forward proxy URL, e.g. http://127.0.0.1:8080")
	flags.StringVar(&cli.flags.Mode, "mode", cli.flags.Mode,
		fmt.Sprintf("Protocol mode (%s or %s)", probes.ProbeAllProtocolsName, probes.StopOnFirstFoundName))
	flags.StringVar(&cli.flags.Domain, "domain", cli.flags.Domain, "Storage domain appended to each candidate")
	flags.StringVar(&cli.flags.SignatureHeader, "signature-header", cli.flags.SignatureHeader, "Response header marking a signed bucket")
	flags.StringSliceVar(&cli.flags.Exclude, "exclude", nil, "Glob patterns of candidates to skip")
	flags.Float64Var(&cli.flags.Rate, "rate", 0, "Maximum requests per second, 0 for no limit")
	flags.StringVar(&cli.flags.Report, "report", cli.flags.Report, "Report format (supported: text, json, xlsx, sqlite, http)")
	flags.StringVar(&cli.flags.BaseURL, "baseurl", "", "Http report base url")
	flags.StringVar(&cli.configPath, "config", "", "YAML or TOML config file")
	flags.BoolVar(&cli.flags.NoProgress, "no-progress", false, "Disable the progress bar")
	flags.BoolVarP(&cli.flags.Verbose, "verbose", "v", false, "Log debug output")

	return scanCmd
}

func (cli *Cli) runScan(cmd *cobra.Command) error {
	config, err := cli.resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if config.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	config.Normalize()

	if err := config.Validate(); err != nil {
		return err
	}
	if config.Wordlist == "" {
		return utils.NewConfigurationError("wordlist", errors.New("wordlist path is required"))
	}
	words, err := utils.LoadWordlist(config.Wordlist)
	if err != nil {
		return err
	}

	reporter, err := reporters.CreateReporter(reporters.Options{
		Format:     config.Report,
		OutputPath: config.Output,
		BaseURL:    config.BaseURL,
	})
	if err != nil {
		return utils.NewConfigurationError("report", err)
	}

	var progress utils.ProgressReporter = utils.NoopProgressReporter{}
	if !config.NoProgress {
		progress = utils.NewBarProgressReporter(0, "Probing buckets")
	}

	out := cmd.OutOrStdout()
	hunt := Hunt{
		Config:     config,
		Words:      words,
		Events:     utils.NewConsoleEventSinkWithWriter(out),
		Progress:   progress,
		HttpClient: cli.httpClient,
		Out:        out,
	}
	repository, summary, err := hunt.Run(cmd.Context())
	if err != nil {
		return err
	}
	defer repository.Close()

	if err := report(reporter, repository); err != nil {
		return err
	}
	if reporter != nil && config.Output != "" {
		fmt.Fprintf(out, "Results saved to %s\n", config.Output)
	}

	fmt.Fprintf(out, "Scan finished. %d buckets found.\n", summary.Findings)
	return nil
}

// resolveConfig layers the flags the user actually set over the config file,
// which itself sits over the defaults.
func (cli *Cli) resolveConfig(flags *pflag.FlagSet) (utils.ScanConfig, error) {
	config := utils.DefaultScanConfig()
	if cli.configPath != "" {
		loaded, err := utils.LoadConfigFile(cli.configPath)
		if err != nil {
			return config, err
		}
		config = loaded
	}

	overrides := map[string]func(){
		"company":          func() { config.Company = cli.flags.Company },
		"wordlist":         func() { config.Wordlist = cli.flags.Wordlist },
		"output":           func() { config.Output = cli.flags.Output },
		"threads":          func() { config.Threads = cli.flags.Threads },
		"timeout":          func() { config.Timeout = cli.flags.Timeout },
		"retries":          func() { config.Retries = cli.flags.Retries },
		"backoff":          func() { config.Backoff = cli.flags.Backoff },
		"proxy":            func() { config.Proxy = cli.flags.Proxy },
		"mode":             func() { config.Mode = cli.flags.Mode },
		"domain":           func() { config.Domain = cli.flags.Domain },
		"signature-header": func() { config.SignatureHeader = cli.flags.SignatureHeader },
		"exclude":          func() { config.Exclude = cli.flags.Exclude },
		"rate":             func() { config.Rate = cli.flags.Rate },
		"report":           func() { config.Report = cli.flags.Report },
		"baseurl":          func() { config.BaseURL = cli.flags.BaseURL },
		"no-progress":      func() { config.NoProgress = cli.flags.NoProgress },
		"verbose":          func() { config.Verbose = cli.flags.Verbose },
	}
	flags.Visit(func(flag *pflag.Flag) {
		if apply, ok := overrides[flag.Name]; ok {
			apply()
		}
	})
	return config, nil
}

func report(reporter core.Reporter, repository core.FindingRepository) error {
	if reporter == nil {
		return nil
	}
	if err := reporter.Report(repository); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
