package renderer

import (
	"fmt"
	"slices"
	"strings"

	portfolio "github.com/ostigter/portfolio-manager"
)

// AnalysisMarkdown renders stock analyses, best score first.
func AnalysisMarkdown(analyses []portfolio.Analysis) string {
	analyses = slices.Clone(analyses)
	portfolio.SortAnalyses(analyses)

	var b strings.Builder
	fmt.Fprint(&b, "# Stock Analysis\n\n")
	fmt.Fprintln(&b, "| Symbol | 10y CAGR | 5y CAGR | 1y Change | Volatility | 52w High | 52w Low | Price | 5y Discount | 1y Discount | Score |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|")
	for _, a := range analyses {
		fmt.Fprintf(&b, "| %s | %.2f%% | %.2f%% | %.2f%% | %.2f%% | %.2f | %.2f | %.2f | %.2f%% | %.2f%% | **%.2f** |\n",
			a.Stock.Symbol, a.CAGR10, a.CAGR5, a.Change1, a.Volatility,
			a.High52, a.Low52, a.CurrentPrice, a.Discount5, a.Discount1, a.Score)
	}
	return b.String()
}
