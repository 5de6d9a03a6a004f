package renderer

import (
	"fmt"
	"io"
	"strings"

	portfolio "github.com/ostigter/portfolio-manager"
)

// HoldingMarkdown renders the positions of a portfolio and its totals.
// Closed positions get their own table when opts.ShowClosedPositions is set.
func HoldingMarkdown(p *portfolio.Portfolio, opts portfolio.Options) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Holding\n\n")

	fmt.Fprintln(&b, "| Stock | Shares | Cost | Value | Result | Result % | Annual Income | YoC | Total Income | Total Return | Return % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|")
	for _, pos := range p.OpenPositions() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			cell(pos.Stock().String()),
			pos.Shares(),
			pos.CurrentCost(),
			pos.CurrentValue(),
			pos.CurrentResult().SignedString(),
			pos.CurrentResultPercentage().SignedString(),
			pos.AnnualIncome(),
			pos.YieldOnCost(),
			pos.TotalIncome(),
			pos.TotalReturn().SignedString(),
			pos.TotalReturnPercentage().SignedString(),
		)
	}
	round := opts.RoundTotals
	fmt.Fprintf(&b, "| **Total** | | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** |\n",
		total(p.CurrentCost(), round),
		total(p.CurrentValue(), round),
		signedTotal(p.CurrentResult(), round),
		p.CurrentResultPercentage().SignedString(),
		total(p.AnnualIncome(), round),
		p.YieldOnCost(),
		total(p.TotalIncome(), round),
		signedTotal(p.TotalReturn(), round),
		p.TotalReturnPercentage().SignedString(),
	)

	if opts.ShowClosedPositions {
		ConditionalBlock(&b, func(w io.Writer) bool { return renderClosedPositions(w, p) })
	}
	return b.String()
}

func renderClosedPositions(w io.Writer, p *portfolio.Portfolio) bool {
	printed := false
	for _, pos := range p.Positions() {
		if pos.IsOpen() {
			continue
		}
		if !printed {
			fmt.Fprint(w, "\n## Closed Positions\n\n")
			fmt.Fprintln(w, "| Stock | Total Cost | Realized | Total Income | Total Return | Return % |")
			fmt.Fprintln(w, "|:---|---:|---:|---:|---:|---:|")
			printed = true
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
			cell(pos.Stock().String()),
			pos.TotalCost(),
			pos.RealizedResult().SignedString(),
			pos.TotalIncome(),
			pos.TotalReturn().SignedString(),
			pos.TotalReturnPercentage().SignedString(),
		)
	}
	return printed
}

// PositionMarkdown renders the details of a single position.
func PositionMarkdown(pos *portfolio.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", pos.Stock())
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	rows := []struct {
		name  string
		value fmt.Stringer
	}{
		{"Shares", pos.Shares()},
		{"Price", pos.Stock().Price},
		{"Cost per Share", pos.CostPerShare()},
		{"Current Cost", pos.CurrentCost()},
		{"Current Value", pos.CurrentValue()},
		{"Current Result", pos.CurrentResult()},
		{"Current Result %", pos.CurrentResultPercentage()},
		{"Annual Income", pos.AnnualIncome()},
		{"Yield on Cost", pos.YieldOnCost()},
		{"Total Cost", pos.TotalCost()},
		{"Total Income", pos.TotalIncome()},
		{"Realized Result", pos.RealizedResult()},
		{"Total Return", pos.TotalReturn()},
		{"Total Return %", pos.TotalReturnPercentage()},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r.name, r.value)
	}
	return b.String()
}
