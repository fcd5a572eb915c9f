// Command fintrack records and reports personal transactions from the
// terminal, sharing storage with fintrack-server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
)

const usage = `usage: fintrack <command> [flags]

commands:
  add        record a transaction (-type, -desc, -amount, -category)
  goal       set or clear a category goal (-category, -value)
  category   add a category (-name)
  list       list transactions (-month YYYY-MM)
  summary    income, expense and balance (-month)
  report     spending per category against goals (-month)
  export     write the CSV export (-month, -o file, -sheets)
`

var errUsage = errors.New("usage")

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	ctx, stop := cli.SignalContext(context.Background(), applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentCLI,
		Output:    os.Stderr,
	}))
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "fintrack:", err)
		}
		os.Exit(1)
	}
}

// app carries what every subcommand needs.
type app struct {
	cfg       *config.Config
	store     *ledger.Store
	formatter report.Formatter
	logger    *applog.Logger
	out       io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return errUsage
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg.LogLevel, stderr).WithComponent(applog.ComponentCLI)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).Create(ctx, bcfg)
	if err != nil {
		return err
	}
	defer res.Close()

	store := ledger.New(res.Backend, ledger.WithLogger(logger.WithComponent(applog.ComponentLedger)))
	if err := store.Load(ctx); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	formatter, err := report.NewFormatter(cfg.Locale, loc)
	if err != nil {
		return err
	}

	a := &app{cfg: cfg, store: store, formatter: formatter, logger: logger, out: stdout}

	fs := flag.NewFlagSet("fintrack "+args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	return cmd(ctx, a, fs, args[1:])
}
