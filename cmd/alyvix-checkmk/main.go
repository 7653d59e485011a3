package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ghalamif/AlyvixCheck"
)

const urlFlag = "alyvix-server-https-url"

type cliOptions struct {
	configPath  string
	verbose     bool
	url         string
	testCases   []string
	development bool
	fixture     string
	style       string
	strict      bool
	timeout     time.Duration
	insecure    bool
	textfile    string
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and maps the outcome to an exit code. Failures while
// checking test cases are reported on stderr but do not fail the agent.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}

	var checkErr *checkFailure
	if errors.As(err, &checkErr) {
		printDiagnostics(stderr, checkErr.err)
		return 0
	}
	fmt.Fprintf(stderr, "alyvix-checkmk: %v\n", err)
	return 1
}

func newRootCmd() *cobra.Command {
	var opts cliOptions

	root := &cobra.Command{
		Use:   "alyvix-checkmk",
		Short: "Checkmk special agent for Alyvix Server",
		Long: `alyvix-checkmk queries the Alyvix Server REST API for the latest execution
of one or more test cases and prints it as a Checkmk local check line or a
datasource program block.

Without --test-case-alias every test case known to the server is checked.`,
		Example: `  alyvix-checkmk -a https://alyvixserver.co.lan -t visittrentino
  alyvix-checkmk -a https://alyvixserver.co.lan --style datasource
  alyvix-checkmk -d --fixture ./alyvix_server_response.json`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, &opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML configuration file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	pf.StringVarP(&opts.url, urlFlag, "a", "", "Alyvix Server URL (default https://<local IP>)")
	pf.BoolVarP(&opts.development, "development-environment", "d", false, "Read sample data from a fixture file instead of the server")
	pf.StringVar(&opts.fixture, "fixture", "", "Fixture file used with --development-environment")
	pf.DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (default 10s)")
	pf.BoolVar(&opts.insecure, "insecure", true, "Skip TLS certificate verification")

	f := root.Flags()
	f.StringSliceVarP(&opts.testCases, "test-case-alias", "t", nil, "Test case alias to check (repeatable)")
	f.StringVarP(&opts.style, "style", "s", "", "Output style: local_check or datasource_program")
	f.BoolVar(&opts.strict, "strict", false, "Refuse test cases with unknown status codes instead of reporting UNKNOWN")
	f.StringVar(&opts.textfile, "metrics-textfile", "", "Write run metrics for the node_exporter textfile collector")

	root.AddCommand(newTestCasesCmd(&opts))
	root.AddCommand(newValidateCmd(&opts))
	root.SetGlobalNormalizationFunc(underscoreToDash)
	return root
}

func newTestCasesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "testcases",
		Short: "List the test case aliases known to the Alyvix Server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger, err := newLogger(opts.verbose, cfg.Log.Level)
			if err != nil {
				return err
			}
			defer logger.Sync()

			agent, err := alyvixcheck.NewAgent(cfg, alyvixcheck.WithLogger(logger))
			if err != nil {
				return err
			}
			defer agent.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			aliases, err := agent.TestCases(ctx)
			if err != nil {
				return &checkFailure{err: err}
			}
			for _, alias := range aliases {
				fmt.Fprintln(cmd.OutOrStdout(), alias)
			}
			return nil
		},
	}
}

func newValidateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration without contacting the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config ok: url=%s style=%s strict=%t\n",
				cfg.Alyvix.URL, cfg.Policy.Style, cfg.Policy.Strict)
			return nil
		},
	}
}

func runCheck(cmd *cobra.Command, opts *cliOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger, err := newLogger(opts.verbose, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	agent, err := alyvixcheck.NewAgent(cfg,
		alyvixcheck.WithWriter(cmd.OutOrStdout()),
		alyvixcheck.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer agent.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Debug("check started",
		zap.String("run_id", agent.RunID()),
		zap.String("url", cfg.Alyvix.URL),
		zap.Strings("test_cases", opts.testCases),
		zap.Bool("development", cfg.Development.Enabled))

	if err := agent.Run(ctx, opts.testCases...); err != nil {
		return &checkFailure{err: err}
	}
	return nil
}

// loadConfig reads the optional config file and layers explicitly set flags
// on top of it.
func loadConfig(cmd *cobra.Command, opts *cliOptions) (*alyvixcheck.Config, error) {
	cfg, err := alyvixcheck.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed(urlFlag) {
		cfg.Alyvix.URL = opts.url
	}
	if changed("timeout") {
		cfg.Alyvix.Timeout = opts.timeout
	}
	if changed("insecure") {
		insecure := opts.insecure
		cfg.Alyvix.InsecureSkipVerify = &insecure
	}
	if changed("development-environment") {
		cfg.Development.Enabled = opts.development
	}
	if changed("fixture") {
		cfg.Development.Fixture = opts.fixture
	}
	if changed("style") {
		cfg.Policy.Style = opts.style
	}
	if changed("strict") {
		cfg.Policy.Strict = opts.strict
	}
	if changed("metrics-textfile") {
		cfg.Metrics.Textfile = opts.textfile
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes JSON logs to stderr; stdout carries the Checkmk payload.
func newLogger(verbose bool, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// checkFailure marks errors raised while checking test cases, as opposed to
// usage or configuration errors.
type checkFailure struct {
	err error
}

func (c *checkFailure) Error() string { return c.err.Error() }
func (c *checkFailure) Unwrap() error { return c.err }

func printDiagnostics(w io.Writer, err error) {
	errs := []error{err}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		errs = merr.Errors
	}

	for _, e := range errs {
		var terr *alyvixcheck.TransportError
		if errors.As(e, &terr) {
			fmt.Fprintf(w, "Please, check --%s (%s): %v\n", urlFlag, terr.URL, terr.Err)
			continue
		}
		fmt.Fprintf(w, "alyvix-checkmk: %v\n", e)
	}
}

func underscoreToDash(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
