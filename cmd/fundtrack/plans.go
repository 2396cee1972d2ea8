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
)

type plansCmd struct{}

func (*plansCmd) Name() string     { return "plans" }
func (*plansCmd) Synopsis() string { return "list auto-invest plans" }
func (*plansCmd) Usage() string    { return "plans\n" }
func (*plansCmd) SetFlags(*flag.FlagSet) {}

func (c *plansCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAuthenticated(func(ctx context.Context, a *app) error {
		if err := a.Portfolio.FetchPlans(ctx); err != nil {
			return err
		}

		plans := a.Portfolio.Plans()
		if len(plans) == 0 {
			fmt.Println("No auto-invest plans")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tFUND\tAMOUNT\tFREQUENCY\tPERIOD\tENABLED")
		for _, p := range plans {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s..%s\t%v\n",
				p.PlanID,
				p.PlanName,
				p.FundCode,
				metrics.FormatCurrency(p.Amount),
				p.Frequency,
				p.StartDate,
				p.EndDate,
				p.Enabled,
			)
		}
		return w.Flush()
	})
}

type planAddCmd struct {
	name      string
	fundCode  string
	fundName  string
	amount    float64
	frequency string
	start     string
	end       string
}

func (*planAddCmd) Name() string     { return "plan-add" }
func (*planAddCmd) Synopsis() string { return "create an auto-invest plan" }
func (*planAddCmd) Usage() string {
	return `plan-add -name <name> -fund <code> -fund-name <name> -amount <n> -frequency daily|weekly|monthly -start <date> -end <date>
`
}

func (c *planAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Plan name (required)")
	f.StringVar(&c.fundCode, "fund", "", "Fund code (required)")
	f.StringVar(&c.fundName, "fund-name", "", "Fund name (required)")
	f.Float64Var(&c.amount, "amount", 0, "Amount per purchase (required)")
	f.StringVar(&c.frequency, "frequency", "monthly", "daily, weekly or monthly")
	f.StringVar(&c.start, "start", "", "Start date YYYY-MM-DD (required)")
	f.StringVar(&c.end, "end", "", "End date YYYY-MM-DD (required)")
}

func (c *planAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAuthenticated(func(ctx context.Context, a *app) error {
		plan, err := a.Portfolio.CreatePlan(ctx, &models.PlanCreate{
			PlanName:  c.name,
			FundCode:  c.fundCode,
			FundName:  c.fundName,
			Amount:    c.amount,
			Frequency: models.PlanFrequency(c.frequency),
			StartDate: c.start,
			EndDate:   c.end,
			Enabled:   true,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created plan %d: %s\n", plan.PlanID, plan.PlanName)
		return nil
	})
}

type planToggleCmd struct {
	id int64
}

func (*planToggleCmd) Name() string     { return "plan-toggle" }
func (*planToggleCmd) Synopsis() string { return "enable or disable a plan" }
func (*planToggleCmd) Usage() string    { return "plan-toggle -id <plan-id>\n" }

func (c *planToggleCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Plan ID (required)")
}

func (c *planToggleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAuthenticated(func(ctx context.Context, a *app) error {
		if c.id == 0 {
			return fmt.Errorf("plan id is required")
		}
		plan, err := a.Portfolio.TogglePlan(ctx, c.id)
		if err != nil {
			return err
		}
		state := "disabled"
		if plan.Enabled {
			state = "enabled"
		}
		fmt.Printf("Plan %d is now %s\n", plan.PlanID, state)
		return nil
	})
}

type planDeleteCmd struct {
	id int64
}

func (*planDeleteCmd) Name() string     { return "plan-delete" }
func (*planDeleteCmd) Synopsis() string { return "delete a plan permanently" }
func (*planDeleteCmd) Usage() string    { return "plan-delete -id <plan-id>\n" }

func (c *planDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Plan ID (required)")
}

func (c *planDeleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAuthenticated(func(ctx context.Context, a *app) error {
		if c.id == 0 {
			return fmt.Errorf("plan id is required")
		}
		if err := a.Portfolio.DeletePlan(ctx, c.id); err != nil {
			return err
		}
		fmt.Printf("Deleted plan %d\n", c.id)
		return nil
	})
}
