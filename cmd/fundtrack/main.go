package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; environment variables win over config files either way
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&loginCmd{}, "auth")
	commander.Register(&registerCmd{}, "auth")
	commander.Register(&logoutCmd{}, "auth")
	commander.Register(&whoamiCmd{}, "auth")

	commander.Register(&overviewCmd{}, "portfolio")
	commander.Register(&summaryCmd{}, "portfolio")
	commander.Register(&transactionsCmd{}, "portfolio")
	commander.Register(&addTransactionCmd{}, "portfolio")
	commander.Register(&deleteTransactionCmd{}, "portfolio")
	commander.Register(&navHistoryCmd{}, "portfolio")

	commander.Register(&plansCmd{}, "auto-invest")
	commander.Register(&planAddCmd{}, "auto-invest")
	commander.Register(&planToggleCmd{}, "auto-invest")
	commander.Register(&planDeleteCmd{}, "auto-invest")

	commander.Register(&toolsCmd{}, "tools")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
