package renderer

import (
	"fmt"
	"strings"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/date"
)

// PeriodicMarkdown renders the average cost basis and income of each period,
// followed by the overall line. totalReturn is the current total return of
// the portfolio, expressed relative to the overall average cost.
func PeriodicMarkdown(period date.Period, rows []portfolio.PeriodResult, overall portfolio.OverallResult, totalReturn portfolio.Money, round bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Results\n\n", strings.ToUpper(period.String()[:1])+period.String()[1:])
	if len(rows) == 0 {
		fmt.Fprintln(&b, "No transactions.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Period | Days | Average Cost | End Cost | Income | Income Yield |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
			r.Range.Identifier(),
			r.Days,
			total(r.AverageCost, round),
			total(r.EndCost, round),
			total(r.Income, round),
			r.IncomeYield(),
		)
	}

	fmt.Fprintf(&b, "\n## Overall\n\n")
	fmt.Fprintln(&b, "| From | To | Days | Average Cost | Income | Total Return | Return % |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | %s | %s |\n",
		overall.Range.From,
		overall.Range.To,
		overall.Days,
		total(overall.AverageCost, round),
		total(overall.Income, round),
		signedTotal(totalReturn, round),
		overall.ReturnOnAverageCost(totalReturn).SignedString(),
	)
	return b.String()
}
