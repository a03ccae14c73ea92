// README: Toll report CLI; loads rules and vehicle passes, prints per-vehicle fees and revenue statistics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	_ "time/tzdata"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"toll/internal/config"
	"toll/internal/infra"
	"toll/internal/modules/report"
	"toll/internal/modules/toll"
	"toll/internal/modules/vehicle"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	Env        string
	RulesFile  string
	Timezone   string
	LogLevel   string
	Daily      bool
	PrintRules bool
	Input      string
}

func parseFlags(args []string, cfg config.Config, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("toll-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: toll-report [flags] [input]")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.RulesFile, "rules", cfg.Rules.File, "toll rules JSON file (empty for built-in rules)")
	fs.StringVar(&opts.Timezone, "tz", cfg.Rules.Timezone, "timezone used to read pass times")
	fs.StringVar(&opts.LogLevel, "log-level", cfg.Log.Level, "log level: debug, info, warn, error")
	fs.BoolVar(&opts.Daily, "daily", cfg.Input.Daily, "print each vehicle's per-day fees")
	fs.BoolVar(&opts.PrintRules, "print-rules", false, "print the effective rules as JSON and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return opts, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}

	opts.Env = cfg.Env
	opts.Input = cfg.Input.File
	if fs.NArg() == 1 {
		opts.Input = fs.Arg(0)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}
	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	logger, err := infra.NewLogger(opts.Env, opts.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "logger error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	if err := generate(ctx, opts, stdout, logger); err != nil {
		logger.Error("toll report failed", zap.Error(err))
		return 1
	}
	return 0
}

func generate(ctx context.Context, opts options, stdout io.Writer, logger *zap.Logger) error {
	loc, err := config.LoadLocation(opts.Timezone)
	if err != nil {
		return err
	}

	rules, err := toll.NewFileStore(opts.RulesFile).Load(ctx, loc)
	if err != nil {
		return err
	}
	if opts.PrintRules {
		data, err := toll.EncodeRules(rules)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "%s\n", data)
		return err
	}

	loaded, err := vehicle.NewLoader(loc, logger).LoadFile(ctx, opts.Input)
	if err != nil {
		return err
	}
	logger.Info("vehicles loaded",
		zap.String("input", opts.Input),
		zap.Int("vehicles", len(loaded.Vehicles)),
		zap.Int("skipped", len(loaded.Skipped)),
	)

	var reportOpts []report.Option
	if opts.Daily {
		reportOpts = append(reportOpts, report.WithDailyBreakdown())
	}
	engine := toll.NewService(rules, logger)
	rep := report.NewService(engine, rules.Currency(), logger, reportOpts...).Build(loaded.Vehicles)
	return report.Print(stdout, rep)
}
