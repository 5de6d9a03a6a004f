package renderer

import (
	"fmt"
	"strings"

	portfolio "github.com/ostigter/portfolio-manager"
)

// StocksMarkdown renders the reference and market data of stocks.
func StocksMarkdown(stocks []portfolio.Stock) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Stocks\n\n")
	if len(stocks) == 0 {
		fmt.Fprintln(&b, "No stocks.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Symbol | Name | Price | Change | Div Rate | Yield | Div Growth | Years | Rating | Target | Upside |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|:---:|---:|---:|")
	for _, s := range stocks {
		years := "-"
		if s.YearsDivGrowth >= 0 {
			years = fmt.Sprint(s.YearsDivGrowth)
		}
		target, upside := "-", "-"
		if !s.TargetPrice.IsZero() {
			target, upside = s.TargetPrice.String(), s.TargetUpside().SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			s.Symbol,
			cell(s.Name),
			s.Price,
			s.ChangePerc.SignedString(),
			s.DividendRate,
			s.Yield(),
			s.DividendGrowth,
			years,
			s.CreditRating,
			target,
			upside,
		)
	}
	return b.String()
}
