package portfolio

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"github.com/ostigter/portfolio-manager/date"
)

// Analysis scores a stock on its long-term price history.
type Analysis struct {
	Stock        *Stock
	CAGR10       float64
	CAGR5        float64
	Change1      float64
	Volatility   float64 // over ten years
	High52       float64
	Low52        float64
	CurrentPrice float64
	Discount5    float64
	Discount1    float64
	Score        float64
}

// Analyze computes the ten, five and one year performance of a price history as of ref.
func Analyze(stock *Stock, prices *date.History[float64], ref date.Date) (Analysis, error) {
	perf10, err := NewPerformance(prices, TenYears, ref)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyzing %s: %w", stock.Symbol, err)
	}
	perf5, err := NewPerformance(prices, FiveYears, ref)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyzing %s: %w", stock.Symbol, err)
	}
	perf1, err := NewPerformance(prices, OneYear, ref)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyzing %s: %w", stock.Symbol, err)
	}
	a := Analysis{
		Stock:        stock,
		CAGR10:       perf10.CAGR(),
		CAGR5:        perf5.CAGR(),
		Change1:      perf1.ChangePerc,
		Volatility:   perf10.Volatility,
		High52:       perf1.HighPrice,
		Low52:        perf1.LowPrice,
		CurrentPrice: perf1.EndPrice,
		Discount5:    perf5.Discount(),
		Discount1:    perf1.Discount(),
	}
	a.Score = 20 + a.CAGR10 + a.CAGR5 - 12 + 2*(a.CAGR5-a.CAGR10) - 0.5*(a.Volatility-10) + 0.5*a.Discount1
	return a, nil
}

var analysisHeader = []string{
	"Symbol", "10-yr CAGR", "5-yr CAGR", "1-yr Change", "Volatility", "52-wk High",
	"52-wk Low", "Current Price", "5-yr Discount", "1-yr Discount", "Score",
}

// SortAnalyses orders by score, best first.
func SortAnalyses(analyses []Analysis) {
	slices.SortStableFunc(analyses, func(a, b Analysis) int { return cmp.Compare(b.Score, a.Score) })
}

// WriteAnalysisCSV writes a ';'-separated report, best score first.
func WriteAnalysisCSV(w io.Writer, analyses []Analysis) error {
	analyses = slices.Clone(analyses)
	SortAnalyses(analyses)

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(analysisHeader); err != nil {
		return err
	}
	f := func(v float64) string { return fmt.Sprintf("%.2f", v) }
	for _, a := range analyses {
		row := []string{
			fmt.Sprintf("%-5s", a.Stock.Symbol),
			f(a.CAGR10), f(a.CAGR5), f(a.Change1), f(a.Volatility), f(a.High52),
			f(a.Low52), f(a.CurrentPrice), f(a.Discount5), f(a.Discount1), f(a.Score),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
