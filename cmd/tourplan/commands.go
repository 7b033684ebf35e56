package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stagehand/internal/app/talent"
	"stagehand/internal/app/tours"
	"stagehand/internal/app/venues"
	"stagehand/internal/stage"
	"stagehand/internal/venuematch"
)

func (c *cli) stageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stage PLAN",
		Short: "Classify the artist's career stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := c.context()
			defer cancel()

			res, err := c.planning.Stage(ctx, plan.Artist.StageScores)
			if err != nil {
				return err
			}
			return c.reporter.Stage(cmd.OutOrStdout(), res.Stage, res.Average, res.Guidance)
		},
	}
}

func (c *cli) venuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "venues PLAN",
		Short: "Rank venues for the artist's stage and estimated draw",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := c.context()
			defer cancel()

			recs, err := c.venues.Recommend(ctx, venues.RecommendRequest{
				Criteria: venuematch.Criteria{
					Stage:           stage.FromScores(plan.Artist.StageScores),
					EstimatedDraw:   plan.EstimatedDraw,
					PreferredGenres: plan.Artist.GenreList(),
					TargetCities:    plan.TargetCities,
				},
				Limit: c.limit,
			})
			if err != nil {
				return err
			}
			return c.reporter.Venues(cmd.OutOrStdout(), recs)
		},
	}
}

func (c *cli) budgetCmd() *cobra.Command {
	var recommendPay bool

	cmd := &cobra.Command{
		Use:   "budget PLAN",
		Short: "Project the tour P&L and summarize the production budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := c.context()
			defer cancel()
			out := cmd.OutOrStdout()

			if len(plan.Items) > 0 {
				summary, err := c.planning.BudgetSummary(ctx, plan.Project, plan.Items)
				if err != nil {
					return err
				}
				if err := c.reporter.Budget(out, summary); err != nil {
					return err
				}
				fmt.Fprintln(out)
			}

			if len(plan.Tour.Shows) == 0 {
				c.logger.Zerolog().Debug().Msg("plan has no shows, skipping tour projection")
				return nil
			}
			budget, err := c.tours.Budget(ctx, "", plan.Tour)
			if err != nil {
				return err
			}
			if err := c.reporter.Tour(out, budget); err != nil {
				return err
			}
			if !recommendPay || len(budget.Members) == 0 {
				return nil
			}

			members, err := c.tours.PayRecommendation(ctx, tours.PayRequest{
				Members:       budget.Members,
				TotalRevenue:  budget.TotalRevenue,
				TotalExpenses: budget.TotalExpenses,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "\nRecommended pay:")
			for _, m := range members {
				fmt.Fprintf(out, "  %-20s %s\n", m.Name, c.reporter.Money(m.TotalPay))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&recommendPay, "recommend-pay", false, "Also print a profit-sharing pay split")
	return cmd
}

func (c *cli) talentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "talent PLAN",
		Short: "Infer talent needs and recommend people from the directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := c.context()
			defer cancel()

			recs, err := c.talent.Recommend(ctx, talent.RecommendRequest{
				NeedsRequest: talent.NeedsRequest{Artist: plan.Artist, Project: plan.Project, Items: plan.Items},
				Limit:        c.limit,
			})
			if err != nil {
				return err
			}
			return c.reporter.Talent(cmd.OutOrStdout(), recs)
		},
	}
}

func (c *cli) merchCmd() *cobra.Command {
	var total int

	cmd := &cobra.Command{
		Use:   "merch PLAN",
		Short: "Size a merch order from past sales",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("total") {
				plan.Merch.Total = total
			}
			ctx, cancel := c.context()
			defer cancel()

			sizes, err := c.planning.Rebalance(ctx, plan.Merch.Counts, plan.Merch.Total)
			if err != nil {
				return err
			}
			return c.reporter.Merch(cmd.OutOrStdout(), sizes)
		},
	}
	cmd.Flags().IntVar(&total, "total", 0, "Units to order, overriding the plan")
	return cmd
}
