package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type toolsCmd struct {
	fetchNav      bool
	fundCodes     string
	updatePending bool
	initDB        bool
}

func (*toolsCmd) Name() string     { return "tools" }
func (*toolsCmd) Synopsis() string { return "server-side maintenance operations" }
func (*toolsCmd) Usage() string {
	return `tools [-fetch-nav [-funds <code,code>]] [-update-pending] [-init-db]

  Triggers server-side maintenance: pulling historical NAV data, confirming
  pending transactions, or initializing account storage.
`
}

func (c *toolsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.fetchNav, "fetch-nav", false, "Fetch historical NAV data")
	f.StringVar(&c.fundCodes, "funds", "", "Comma-separated fund codes for -fetch-nav (default: all held funds)")
	f.BoolVar(&c.updatePending, "update-pending", false, "Confirm pending transactions")
	f.BoolVar(&c.initDB, "init-db", false, "Initialize server-side storage")
}

func (c *toolsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.fetchNav && !c.updatePending && !c.initDB {
		fmt.Println(c.Usage())
		return subcommands.ExitUsageError
	}

	return runAuthenticated(func(ctx context.Context, a *app) error {
		if c.initDB {
			if err := a.Portfolio.InitializeDatabase(ctx); err != nil {
				return err
			}
			fmt.Println("Database initialized")
		}

		if c.fetchNav {
			var codes []string
			if c.fundCodes != "" {
				codes = strings.Split(c.fundCodes, ",")
			}
			if err := a.Portfolio.FetchNav(ctx, codes); err != nil {
				return err
			}
			fmt.Println("NAV fetch triggered")
		}

		if c.updatePending {
			if err := a.Portfolio.UpdatePending(ctx); err != nil {
				return err
			}
			fmt.Println("Pending transactions updated")
		}
		return nil
	})
}
