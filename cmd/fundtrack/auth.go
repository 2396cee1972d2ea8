package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type loginCmd struct {
	email    string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "authenticate against the fund API" }
func (*loginCmd) Usage() string {
	return `login -email <email> -password <password>

  Exchanges credentials for a token pair and stores it locally. Subsequent
  commands run authenticated until logout or token expiry.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Account email (required)")
	f.StringVar(&c.password, "password", "", "Account password (required)")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.Session.Login(ctx, c.email, c.password); err != nil {
		fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
		return subcommands.ExitFailure
	}

	user := a.Session.User()
	fmt.Printf("Logged in as %s <%s>\n", user.Username, user.Email)
	if exp := a.Session.TokenExpiry(); !exp.IsZero() {
		fmt.Printf("Token expires %s\n", exp.Format("2006-01-02 15:04"))
	}
	return subcommands.ExitSuccess
}

type registerCmd struct {
	email    string
	username string
	password string
	confirm  string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create an account and log in" }
func (*registerCmd) Usage() string {
	return `register -email <email> -username <name> -password <pw> -confirm <pw>

  Creates an account, then logs in with the same credentials.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Account email (required)")
	f.StringVar(&c.username, "username", "", "Display name (required)")
	f.StringVar(&c.password, "password", "", "Password (required)")
	f.StringVar(&c.confirm, "confirm", "", "Password confirmation (required)")
}

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.password != c.confirm {
		fmt.Fprintln(os.Stderr, "Error: passwords do not match")
		return subcommands.ExitUsageError
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.Session.Register(ctx, c.email, c.username, c.password); err != nil {
		fmt.Fprintf(os.Stderr, "Registration failed: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Registered and logged in as %s\n", a.Session.User().Username)
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "clear the stored session" }
func (*logoutCmd) Usage() string    { return "logout\n" }
func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.Session.Logout(); err != nil {
		fmt.Fprintf(os.Stderr, "Logout failed: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Logged out")
	return subcommands.ExitSuccess
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the current account" }
func (*whoamiCmd) Usage() string    { return "whoami\n" }
func (*whoamiCmd) SetFlags(*flag.FlagSet) {}

func (c *whoamiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	// Re-validates the token; a stale token clears the session
	if err := a.Session.FetchCurrentUser(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Session expired; run 'fundtrack login' again")
		return subcommands.ExitFailure
	}

	user := a.Session.User()
	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	fmt.Printf("  active: %v  verified: %v\n", user.IsActive, user.IsVerified)
	if user.LastLogin != nil {
		fmt.Printf("  last login: %s\n", user.LastLogin.Format("2006-01-02 15:04"))
	}
	return subcommands.ExitSuccess
}
