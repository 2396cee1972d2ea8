package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/bobmcallan/fundtrack/internal/metrics"
	"github.com/bobmcallan/fundtrack/internal/models"
	"github.com/bobmcallan/fundtrack/internal/services/portfolio"
)

// runAuthenticated handles the shared wiring for portfolio commands.
func runAuthenticated(fn func(ctx context.Context, a *app) error) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.requireAuth(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}

	if err := fn(context.Background(), a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type overviewCmd struct{}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "show all fund holdings" }
func (*overviewCmd) Usage() string    { return "overview\n" }
func (*overviewCmd) SetFlags(*flag.FlagSet) {}

func (c *overviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAuthenticated(func(ctx context.Context, a *app) error {
		if err := a.Portfolio.FetchFunds(ctx); err != nil {
			return err
		}

		funds := a.Portfolio.Funds()
		if len(funds) == 0 {
			fmt.Println("No holdings")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tSHARES\tCOST\tNAV\tVALUE\tPROFIT\tRETURN")
		for _, fund := range funds {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s %s\t%s\n",
				fund.FundCode,
				fund.FundName,
				metrics.FormatCurrency(fund.TotalShares),
				metrics.FormatCurrency(fund.TotalCost),
				metrics.FormatNav(fund.CurrentNav),
				metrics.FormatCurrency(fund.CurrentValue),
				mark(fund.Profit),
				metrics.FormatCurrency(fund.Profit),
				metrics.FormatPercent(fund.ProfitRate),
			)
		}
		return w.Flush()
	})
}

// mark renders the gain/loss classification as a compact symbol.
func mark(profit float64) string {
	if metrics.ProfitClass(profit) == metrics.Gain {
		return "+"
	}
	return "-"
}

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show the portfolio profit summary" }
func (*summaryCmd) Usage() string    { return "summary\n" }
func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAuthenticated(func(ctx context.Context, a *app) error {
		if err := a.Portfolio.FetchProfitSummary(ctx); err != nil {
			return err
		}

		s := a.Portfolio.ProfitSummary()
		fmt.Printf("Funds:        %d\n", s.TotalFunds)
		fmt.Printf("Total shares: %s\n", metrics.FormatCurrency(s.TotalShares))
		fmt.Printf("Total cost:   %s\n", metrics.FormatCurrency(s.TotalCost))
		fmt.Printf("Total value:  %s\n", metrics.FormatCurrency(s.TotalValue))
		fmt.Printf("Profit:       %s (%s)\n", metrics.FormatCurrency(s.TotalProfit), metrics.FormatPercent(s.TotalReturnRate))
		return nil
	})
}

type transactionsCmd struct {
	fundCode string
	page     int
	desc     bool
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list transactions, paged" }
func (*transactionsCmd) Usage() string {
	return `transactions [-fund <code>] [-page <n>] [-desc]

  Lists transaction records 15 per page, sorted by transaction date.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fundCode, "fund", "", "Filter by fund code")
	f.IntVar(&c.page, "page", 1, "Page number (1-based)")
	f.BoolVar(&c.desc, "desc", false, "Newest first")
}

func (c *transactionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAuthenticated(func(ctx context.Context, a *app) error {
		if err := a.Portfolio.FetchTransactions(ctx, c.fundCode); err != nil {
			return err
		}

		order := portfolio.OrderAscending
		if c.desc {
			order = portfolio.OrderDescending
		}

		page := a.Portfolio.TransactionPage(c.page, order)
		if len(page) == 0 {
			fmt.Println("No transactions on this page")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tFUND\tTYPE\tAMOUNT\tSHARES\tNAV")
		for _, t := range page {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				t.TransactionID,
				t.TransactionDate,
				t.FundCode,
				t.TransactionType,
				metrics.FormatCurrency(t.Amount),
				metrics.FormatCurrency(metrics.Float(t.Shares)),
				metrics.FormatNav(metrics.Float(t.UnitNav)),
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("Page %d of %d\n", c.page, a.Portfolio.TransactionPageCount())
		return nil
	})
}

type addTransactionCmd struct {
	fundCode string
	fundName string
	date     string
	txnType  string
	amount   float64
	note     string
}

func (*addTransactionCmd) Name() string     { return "add" }
func (*addTransactionCmd) Synopsis() string { return "record a buy or sell transaction" }
func (*addTransactionCmd) Usage() string {
	return `add -fund <code> -name <name> -date <YYYY-MM-DD> -type buy|sell -amount <n> [-note <text>]

  Records a transaction. Shares and NAV are confirmed server-side once the
  trade date's NAV is published.
`
}

func (c *addTransactionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fundCode, "fund", "", "Fund code (required)")
	f.StringVar(&c.fundName, "name", "", "Fund name (required)")
	f.StringVar(&c.date, "date", "", "Transaction date YYYY-MM-DD (required)")
	f.StringVar(&c.txnType, "type", models.TransactionTypeBuy, "Transaction type: buy or sell")
	f.Float64Var(&c.amount, "amount", 0, "Amount (required)")
	f.StringVar(&c.note, "note", "", "Optional note")
}

func (c *addTransactionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAuthenticated(func(ctx context.Context, a *app) error {
		create := &models.TransactionCreate{
			FundCode:        c.fundCode,
			FundName:        c.fundName,
			TransactionDate: c.date,
			TransactionType: c.txnType,
			Amount:          c.amount,
		}
		if c.note != "" {
			create.Note = &c.note
		}

		txn, err := a.Portfolio.AddTransaction(ctx, create)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded transaction %d (%s %s %s)\n",
			txn.TransactionID, txn.TransactionType, metrics.FormatCurrency(txn.Amount), txn.FundCode)
		return nil
	})
}

type deleteTransactionCmd struct {
	id int64
}

func (*deleteTransactionCmd) Name() string     { return "delete" }
func (*deleteTransactionCmd) Synopsis() string { return "delete a transaction" }
func (*deleteTransactionCmd) Usage() string    { return "delete -id <transaction-id>\n" }

func (c *deleteTransactionCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Transaction ID (required)")
}

func (c *deleteTransactionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAuthenticated(func(ctx context.Context, a *app) error {
		if c.id == 0 {
			return fmt.Errorf("transaction id is required")
		}
		if err := a.Portfolio.DeleteTransaction(ctx, c.id); err != nil {
			return err
		}
		fmt.Printf("Deleted transaction %d\n", c.id)
		return nil
	})
}

type navHistoryCmd struct {
	fundCode string
	start    string
	end      string
}

func (*navHistoryCmd) Name() string     { return "nav" }
func (*navHistoryCmd) Synopsis() string { return "show a fund's NAV history" }
func (*navHistoryCmd) Usage() string {
	return "nav -fund <code> [-start <YYYY-MM-DD>] [-end <YYYY-MM-DD>]\n"
}

func (c *navHistoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fundCode, "fund", "", "Fund code (required)")
	f.StringVar(&c.start, "start", "", "Start date")
	f.StringVar(&c.end, "end", "", "End date")
}

func (c *navHistoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAuthenticated(func(ctx context.Context, a *app) error {
		if c.fundCode == "" {
			return fmt.Errorf("fund code is required")
		}

		history, err := a.Portfolio.NavHistory(ctx, c.fundCode, c.start, c.end)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tNAV\tGROWTH")
		for _, h := range history {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				h.PriceDate,
				metrics.FormatNav(h.UnitNav),
				metrics.FormatPercent(metrics.Float(h.DailyGrowthRate)),
			)
		}
		return w.Flush()
	})
}
