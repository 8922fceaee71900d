// Command kernelsim runs scheduler simulation scenarios.
//
//	kernelsim run <scenario> <log> [--no-kernel-logs] [--config URL] [--set k=v] [--trace file] [--stats]
//	kernelsim verify <scenario> <expected-log> [--config URL] [--set k=v]
//	kernelsim batch [--workers N] [--reports URL] [--config URL] <scenario>...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/viant/kernelsim"
	"github.com/viant/kernelsim/service/runner"
)

var errUsage = errors.New("usage: kernelsim run|verify|batch [options] args")

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if err := execute(context.Background(), os.Args[1:], os.Stdout, logger); err != nil {
		logger.WithError(err).Error("kernelsim failed")
		os.Exit(1)
	}
}

func execute(ctx context.Context, args []string, w io.Writer, logger *logrus.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "run":
		return runCommand(ctx, args[1:], w, logger)
	case "verify":
		return verifyCommand(ctx, args[1:], w, logger)
	case "batch":
		return batchCommand(ctx, args[1:], w, logger)
	}
	return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
}

// overrides collects repeated --set key=value flags
type overrides map[string]string

func (o overrides) String() string {
	var pairs []string
	for k, v := range o {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (o overrides) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return fmt.Errorf("invalid override %q, expected key=value", value)
	}
	o[key] = val
	return nil
}

type commonFlags struct {
	configURL string
	set       overrides
	verbose   bool
}

func (c *commonFlags) register(flags *flag.FlagSet) {
	c.set = overrides{}
	flags.StringVar(&c.configURL, "config", "", "config URL (yaml)")
	flags.Var(c.set, "set", "config override key=value, repeatable")
	flags.BoolVar(&c.verbose, "v", false, "debug logging")
}

func (c *commonFlags) config(ctx context.Context) (*kernelsim.Config, error) {
	config := kernelsim.DefaultConfig()
	if c.configURL != "" {
		var err error
		if config, err = kernelsim.LoadConfig(ctx, c.configURL); err != nil {
			return nil, err
		}
	}
	if len(c.set) > 0 {
		if err := config.ApplyOverrides(c.set); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// parse accepts flags before, between and after positional arguments.
func parse(flags *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := flags.Parse(args); err != nil {
			return nil, err
		}
		args = flags.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func runCommand(ctx context.Context, args []string, w io.Writer, logger *logrus.Logger) error {
	var common commonFlags
	var noKernelLogs, stats bool
	var traceFile string
	flags := flag.NewFlagSet("run", flag.ContinueOnError)
	common.register(flags)
	flags.BoolVar(&noKernelLogs, "no-kernel-logs", false, "omit kernel log lines")
	flags.StringVar(&traceFile, "trace", "", "write OpenTelemetry spans to file")
	flags.BoolVar(&stats, "stats", false, "print per-process statistics")
	positional, err := parse(flags, args)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return fmt.Errorf("run expects <scenario> <log>: %w", errUsage)
	}
	config, err := common.config(ctx)
	if err != nil {
		return err
	}
	if noKernelLogs {
		config.Simulator.KernelLogs = false
	}
	options := []kernelsim.Option{kernelsim.WithConfig(config), kernelsim.WithLogger(configureLogger(logger, common.verbose))}
	if traceFile != "" {
		options = append(options, kernelsim.WithTracing("kernelsim", "1.0.0", traceFile))
	}
	srv, err := kernelsim.New(options...)
	if err != nil {
		return err
	}
	defer srv.Close()
	report, err := srv.Runtime().Run(ctx, positional[0], positional[1])
	if report != nil && stats {
		writeStats(w, report)
	}
	return err
}

func verifyCommand(ctx context.Context, args []string, w io.Writer, logger *logrus.Logger) error {
	var common commonFlags
	flags := flag.NewFlagSet("verify", flag.ContinueOnError)
	common.register(flags)
	positional, err := parse(flags, args)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return fmt.Errorf("verify expects <scenario> <expected-log>: %w", errUsage)
	}
	config, err := common.config(ctx)
	if err != nil {
		return err
	}
	srv, err := kernelsim.New(kernelsim.WithConfig(config), kernelsim.WithLogger(configureLogger(logger, common.verbose)))
	if err != nil {
		return err
	}
	defer srv.Close()
	result, _, err := srv.Runtime().Verify(ctx, positional[0], positional[1])
	if result == nil {
		return err
	}
	if result.Equal {
		fmt.Fprintln(w, "PASS")
		return err
	}
	fmt.Fprint(w, result.Diff)
	if result.First != nil {
		fmt.Fprintf(w, "first mismatch at line %d\n", result.First.Line)
	}
	return errors.Join(err, fmt.Errorf("log mismatch: +%d -%d lines", result.Added, result.Removed))
}

func batchCommand(ctx context.Context, args []string, w io.Writer, logger *logrus.Logger) error {
	var common commonFlags
	var workers int
	var reportsURL string
	flags := flag.NewFlagSet("batch", flag.ContinueOnError)
	common.register(flags)
	flags.IntVar(&workers, "workers", 0, "number of concurrent simulations")
	flags.StringVar(&reportsURL, "reports", "", "directory for JSON reports")
	positional, err := parse(flags, args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("batch expects at least one scenario: %w", errUsage)
	}
	config, err := common.config(ctx)
	if err != nil {
		return err
	}
	if workers > 0 {
		config.Runner.WorkerCount = workers
	}
	if reportsURL != "" {
		config.Report.URL = reportsURL
	}
	srv, err := kernelsim.New(kernelsim.WithConfig(config), kernelsim.WithLogger(configureLogger(logger, common.verbose)))
	if err != nil {
		return err
	}
	defer srv.Close()
	var jobs []runner.Job
	for _, scenarioURL := range positional {
		job := runner.Job{ScenarioURL: scenarioURL}
		if reportsURL != "" {
			name := strings.TrimSuffix(path.Base(scenarioURL), path.Ext(scenarioURL))
			job.LogURL = strings.TrimRight(reportsURL, "/") + "/" + name + ".log"
		}
		jobs = append(jobs, job)
	}
	reports, err := srv.Runtime().Batch(ctx, jobs...)
	writeSummary(w, reports)
	if err != nil {
		return err
	}
	var failed []error
	for _, report := range reports {
		if report.Error != "" {
			failed = append(failed, fmt.Errorf("%v: %s", report.ScenarioURL, report.Error))
		}
	}
	return errors.Join(failed...)
}

func configureLogger(logger *logrus.Logger, verbose bool) *logrus.Logger {
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
