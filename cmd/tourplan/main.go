// Command tourplan runs the planning engines offline against a plan file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stagehand/internal/app/planning"
	"stagehand/internal/app/talent"
	"stagehand/internal/app/tours"
	"stagehand/internal/app/venues"
	"stagehand/internal/logging"
	"stagehand/internal/reference"
	"stagehand/internal/report"
	"stagehand/internal/venuematch"
)

// cli carries the state shared by subcommands.
type cli struct {
	locale       string
	logLevel     string
	referenceDir string
	limit        int
	leaderPct    float64
	strict       bool
	timeout      time.Duration

	logger   *logging.Logger
	reporter *report.Reporter

	planning planning.Service
	venues   venues.Service
	tours    tours.Service
	talent   talent.Service
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "tourplan",
		Short: "Plan releases and tours from a YAML or JSON plan file",
		Long: `tourplan runs the stagehand planning engines offline.

Every subcommand reads the same plan file and prints a report:
  stage  - classify the artist from the self-assessment
  venues - rank venues for the artist's stage and draw
  budget - project the tour P&L and the production budget
  talent - infer talent needs and recommend people
  merch  - size a merch order`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&c.locale, "locale", "en-US", "Locale for currency formatting")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&c.referenceDir, "reference-dir", os.Getenv("REFERENCE_DATA_DIR"), "Directory of reference table overrides")
	root.PersistentFlags().IntVar(&c.limit, "limit", 5, "Maximum recommendations per list")
	root.PersistentFlags().Float64Var(&c.leaderPct, "leader-pct", 30, "Bandleader share of operating profit, in percent")
	root.PersistentFlags().BoolVar(&c.strict, "strict-ceiling", false, "Never recommend talent above the budget ceiling")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "Operation timeout")

	root.AddCommand(
		c.stageCmd(),
		c.venuesCmd(),
		c.budgetCmd(),
		c.talentCmd(),
		c.merchCmd(),
	)
	return root
}

// setup builds the logger, reporter, and in-memory services.
func (c *cli) setup(stderr io.Writer) error {
	c.logger = logging.New(logging.Config{Level: c.logLevel, Format: "console", Output: stderr})
	logging.SetGlobalLogger(c.logger)
	c.reporter = report.New(c.locale)

	tables := reference.Default()
	if c.referenceDir != "" {
		loaded, err := reference.LoadDir(c.referenceDir)
		if err != nil {
			return err
		}
		tables = loaded
		c.logger.Zerolog().Info().Str("dir", c.referenceDir).Msg("using reference overrides")
	}

	if c.leaderPct < 0 || c.leaderPct > 100 {
		return fmt.Errorf("--leader-pct must be between 0 and 100")
	}

	c.planning = planning.New()
	c.venues = venues.New(venues.NewMemoryStore(tables.Venues), venuematch.DefaultRules())
	opts := tours.DefaultOptions()
	opts.LeaderPct = c.leaderPct
	c.tours = tours.New(c.venues, nil, tables, opts)
	c.talent = talent.New(talent.NewMemoryStore(tables.Talent), nil, c.strict)
	return nil
}

func (c *cli) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}
