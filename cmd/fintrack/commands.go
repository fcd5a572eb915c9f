package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/ledger"
	"fintrack/internal/report"
	gsheet "fintrack/internal/sheets/google"
)

type command func(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error

var commands = map[string]command{
	"add":      cmdAdd,
	"goal":     cmdGoal,
	"category": cmdCategory,
	"list":     cmdList,
	"summary":  cmdSummary,
	"report":   cmdReport,
	"export":   cmdExport,
}

// monthFlag registers -month and returns a parser for it.
func monthFlag(fs *flag.FlagSet) func() (report.Month, error) {
	v := fs.String("month", "", "restrict to a month, YYYY-MM")
	return func() (report.Month, error) { return report.ParseMonth(*v) }
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errUsage
		}
		return err
	}
	return nil
}

func cmdAdd(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	kind := fs.String("type", "income", "income or expense (receita/despesa)")
	desc := fs.String("desc", "", "description")
	amount := fs.String("amount", "", "amount, e.g. 12,50")
	category := fs.String("category", "", "category name")
	if err := parse(fs, args); err != nil {
		return err
	}

	k, err := core.ParseKind(*kind)
	if err != nil {
		return err
	}
	t, added, err := a.store.AddTransaction(ctx, &ledger.Draft{
		Kind:        k,
		Description: *desc,
		Amount:      *amount,
		Category:    *category,
	})
	if err != nil {
		return err
	}
	if !added {
		fmt.Fprintln(a.out, "nothing added: description, amount and category are required")
		return nil
	}
	fmt.Fprintf(a.out, "added #%d %s %s %s (%s)\n",
		t.ID, t.Kind, t.Description, a.formatter.Money(t.Amount), t.Category)
	return nil
}

func cmdGoal(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	category := fs.String("category", "", "category name")
	value := fs.String("value", "", "goal amount; empty clears the goal")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.store.SetGoal(ctx, *category, *value); err != nil {
		return err
	}
	if *value == "" {
		fmt.Fprintf(a.out, "goal for %s cleared\n", *category)
		return nil
	}
	fmt.Fprintf(a.out, "goal for %s set to %s\n", *category, a.formatter.Money(a.store.Goals().Lookup(*category)))
	return nil
}

func cmdCategory(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	name := fs.String("name", "", "category name")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.store.AddCategory(ctx, *name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "category %s added\n", *name)
	return nil
}

func cmdList(_ context.Context, a *app, fs *flag.FlagSet, args []string) error {
	month := monthFlag(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	m, err := month()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATA\tTIPO\tDESCRIÇÃO\tCATEGORIA\tVALOR")
	for _, t := range report.FilterByMonth(a.store.Transactions(), m) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, a.formatter.Date(t.Timestamp), t.Kind, t.Description, t.Category, a.formatter.Money(t.Amount))
	}
	return tw.Flush()
}

func cmdSummary(_ context.Context, a *app, fs *flag.FlagSet, args []string) error {
	month := monthFlag(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	m, err := month()
	if err != nil {
		return err
	}

	d := a.store.View(m)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Receitas\t%s\t\n", a.formatter.Money(d.Totals.Income))
	fmt.Fprintf(tw, "Despesas\t%s\t\n", a.formatter.Money(d.Totals.Expense))
	fmt.Fprintf(tw, "Saldo\t%s\t\n", a.formatter.Money(d.Totals.Balance))
	return tw.Flush()
}

func cmdReport(_ context.Context, a *app, fs *flag.FlagSet, args []string) error {
	month := monthFlag(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	m, err := month()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORIA\tGASTO\tMETA\tRESTANTE\t")
	for _, row := range a.store.View(m).Categories {
		goal, remaining := "-", "-"
		if row.Goal > 0 {
			goal = a.formatter.Money(row.Goal)
			remaining = a.formatter.Money(row.Remaining())
		}
		note := ""
		if row.OverGoal() {
			note = "acima da meta"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.Category, a.formatter.Money(row.Spent), goal, remaining, note)
	}
	return tw.Flush()
}

func cmdExport(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	month := monthFlag(fs)
	out := fs.String("o", "", "output file; default stdout")
	toSheets := fs.Bool("sheets", false, "write to the configured Google spreadsheet instead")
	if err := parse(fs, args); err != nil {
		return err
	}
	m, err := month()
	if err != nil {
		return err
	}
	txns := report.FilterByMonth(a.store.Transactions(), m)
	rows := report.ExportRows(txns, a.formatter)

	if *toSheets {
		if !a.cfg.SheetsExportEnabled() {
			return errors.New("sheets export needs GOOGLE_SPREADSHEET_ID")
		}
		exporter, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   a.cfg.GoogleSpreadsheetID,
			SheetName:       a.cfg.GoogleExportSheetName,
			CredentialsJSON: a.cfg.GoogleServiceAccountJSON,
			CredentialsFile: a.cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return err
		}
		ref, err := exporter.WriteRows(ctx, export.Header, rows)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "exported %d transactions to %s\n", len(txns), ref)
		return nil
	}

	if *out == "" {
		_, err := export.WriteCSV(a.out, rows)
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	n, err := export.WriteCSV(f, rows)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "exported %d transactions to %s\n", n, *out)
	return nil
}
