// Package report renders planning results as currency-formatted text.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"stagehand/internal/budget"
	"stagehand/internal/merch"
	"stagehand/internal/models"
	"stagehand/internal/venuematch"
)

// Reporter writes locale-aware summaries.
type Reporter struct {
	p *message.Printer
}

// New returns a Reporter for locale, falling back to American English when the
// tag does not parse.
func New(locale string) *Reporter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.AmericanEnglish
	}
	return &Reporter{p: message.NewPrinter(tag)}
}

// Money formats a dollar amount with grouping and two decimals.
func (r *Reporter) Money(v float64) string {
	if v < 0 {
		return "-$" + r.p.Sprintf("%.2f", math.Abs(v))
	}
	return "$" + r.p.Sprintf("%.2f", v)
}

// Percent formats a percentage with one decimal.
func (r *Reporter) Percent(v float64) string {
	return r.p.Sprintf("%.1f%%", v)
}

// Stage writes the classifier result.
func (r *Reporter) Stage(w io.Writer, s models.Stage, average float64, guidance string) error {
	_, err := fmt.Fprintf(w, "Stage: %s (average %.2f)\n%s\n", s, average, guidance)
	return err
}

// Venues writes ranked venue recommendations.
func (r *Reporter) Venues(w io.Writer, recs []venuematch.Recommendation) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No venues fit this draw and stage.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tVENUE\tCITY\tTIER\tCAP\tFILL\tSCORE\tGENRE")
	for i, rec := range recs {
		genre := ""
		if rec.GenreMatch {
			genre = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			i+1, rec.Venue.Name, cityState(rec.Venue), rec.Venue.Tier,
			r.p.Sprintf("%d", rec.Venue.Capacity), r.Percent(rec.FillRate*100), rec.Score, genre)
	}
	return tw.Flush()
}

// Tour writes the tour P&L with a per-show breakdown.
func (r *Reporter) Tour(w io.Writer, b models.TourBudget) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SHOW\tVENUE\tTIER\tDEAL\tATTEND\tREVENUE\tEXPENSES\tNET\t")
	for i, s := range b.Shows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			i+1, s.VenueName, s.VenueTier, s.DealStructure, r.p.Sprintf("%d", s.ExpectedAttendance),
			r.Money(s.ProjectedRevenue), r.Money(s.TotalExpenses), r.Money(s.NetProfit))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(b.Members) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MEMBER\tROLE\tCORE\tSHOWS\tPAY")
		for _, m := range b.Members {
			core := "no"
			if m.IsCoreMember {
				core = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", m.Name, m.Role, core, m.TotalShows, r.Money(m.TotalPay))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	categories := make([]string, 0, len(b.ExpensesByCategory))
	for c := range b.ExpensesByCategory {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString("\n")
	for _, c := range categories {
		fmt.Fprintf(&sb, "  %-12s %s\n", c, r.Money(b.ExpensesByCategory[models.ExpenseCategory(c)]))
	}
	fmt.Fprintf(&sb, "Revenue:       %s\n", r.Money(b.TotalRevenue))
	fmt.Fprintf(&sb, "Expenses:      %s\n", r.Money(b.TotalExpenses))
	fmt.Fprintf(&sb, "Musician pay:  %s\n", r.Money(b.TotalMusicianPay))
	fmt.Fprintf(&sb, "Net profit:    %s (%s margin)\n", r.Money(b.NetProfit), r.Percent(b.ProfitMargin))

	_, err := io.WriteString(w, sb.String())
	return err
}

// Budget writes a production budget summary.
func (r *Reporter) Budget(w io.Writer, s budget.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PHASE\tITEMS\tREQUIRED\tOPTIONAL\tTOTAL")
	for _, p := range s.Phases {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", p.Phase, p.Items, r.Money(p.Required), r.Money(p.Optional), r.Money(p.Total))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nTotal:          %s\nGrant offset:   %s\nOut of pocket:  %s\nCost per song:  %s\n",
		r.Money(s.Total), r.Money(s.GrantOffset), r.Money(s.OutOfPocket), r.Money(s.CostPerUnit))
	return err
}

// Talent writes needs with their ranked candidates.
func (r *Reporter) Talent(w io.Writer, recs []models.TalentRecommendation) error {
	for _, rec := range recs {
		header := fmt.Sprintf("%s x%d (%s)", rec.Need.Role, rec.Need.Count, rec.Need.When)
		if rec.Ceiling != nil {
			header += " ceiling " + r.Money(*rec.Ceiling)
		}
		if rec.Fallback {
			header += ", nobody under ceiling"
		}
		if _, err := fmt.Fprintf(w, "%s\n  %s\n", header, rec.Need.Rationale); err != nil {
			return err
		}
		if len(rec.Candidates) == 0 {
			if _, err := fmt.Fprintln(w, "  no candidates"); err != nil {
				return err
			}
			continue
		}
		for i, c := range rec.Candidates {
			if _, err := fmt.Fprintf(w, "  %d. %-24s %s  score %.2f\n", i+1, c.Profile.Name, r.Money(c.Rate), c.Score); err != nil {
				return err
			}
		}
	}
	return nil
}

// Merch writes a size breakdown in size order.
func (r *Reporter) Merch(w io.Writer, counts map[string]int) error {
	for _, size := range merch.Sizes(counts) {
		if _, err := fmt.Fprintf(w, "%-5s %s\n", size, r.p.Sprintf("%d", counts[size])); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "total %s\n", r.p.Sprintf("%d", merch.Sum(counts)))
	return err
}

func cityState(v models.Venue) string {
	if v.State == "" {
		return v.City
	}
	return v.City + ", " + v.State
}
