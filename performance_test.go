package portfolio

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ostigter/portfolio-manager/date"
)

func closeTo(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %.4f, want %.4f", name, got, want)
	}
}

// linearHistory returns one price a year growing by factor each year, ending on ref.
func yearlyHistory(ref date.Date, prices ...float64) *date.History[float64] {
	var h date.History[float64]
	n := len(prices)
	for i, p := range prices {
		h.Append(ref.AddYears(i-n+1), p)
	}
	return &h
}

func TestPerformance(t *testing.T) {
	ref := date.MustParse("2025-06-30")
	var h date.History[float64]
	for i, p := range []float64{10, 12, 8, 14, 12} {
		h.Append(ref.Add(i-4), p)
	}

	perf, err := NewPerformance(&h, FiveDays, ref)
	if err != nil {
		t.Fatalf("NewPerformance() error = %v", err)
	}
	if perf.Count != 5 {
		t.Errorf("Count = %d, want 5", perf.Count)
	}
	closeTo(t, "StartPrice", perf.StartPrice, 10)
	closeTo(t, "EndPrice", perf.EndPrice, 12)
	closeTo(t, "LowPrice", perf.LowPrice, 8)
	closeTo(t, "HighPrice", perf.HighPrice, 14)
	closeTo(t, "Change", perf.Change, 2)
	closeTo(t, "ChangePerc", perf.ChangePerc, 20)
	closeTo(t, "CAGR", perf.CAGR(), 20) // under a year
	closeTo(t, "Discount", perf.Discount(), 33.33)
	// trend: 10, 10.4, 10.8, 11.2, 11.6
	want := (0/10.0 + 1.6/12 + 2.8/8 + 2.8/14 + 0.4/12) * 100 / 5
	closeTo(t, "Volatility", perf.Volatility, want)
}

func TestPerformance_CAGR(t *testing.T) {
	ref := date.MustParse("2025-06-30")
	// 11 yearly points: the first one falls on the window boundary and is excluded.
	h := yearlyHistory(ref, 1, 100, 110, 121, 133.1, 146.41, 161.051, 177.1561, 194.87171, 214.358881, 235.7947691)
	perf, err := NewPerformance(h, TenYears, ref)
	if err != nil {
		t.Fatalf("NewPerformance() error = %v", err)
	}
	if perf.Count != 10 {
		t.Errorf("Count = %d, want 10", perf.Count)
	}
	// 100 -> 235.79 over a ten year window
	closeTo(t, "CAGR", perf.CAGR(), (math.Pow(2.357947691, 0.1)-1)*100)
}

func TestPerformance_NoPrices(t *testing.T) {
	var h date.History[float64]
	if _, err := NewPerformance(&h, OneYear, date.Today()); !errors.Is(err, ErrNoPrices) {
		t.Errorf("NewPerformance() error = %v, want ErrNoPrices", err)
	}
}

func TestPerformance_FlatDiscount(t *testing.T) {
	ref := date.MustParse("2025-01-10")
	var h date.History[float64]
	h.Append(ref, 5).Append(ref.Add(-1), 5)
	perf, err := NewPerformance(&h, OneMonth, ref)
	if err != nil {
		t.Fatalf("NewPerformance() error = %v", err)
	}
	closeTo(t, "Discount", perf.Discount(), 0)
	closeTo(t, "Volatility", perf.Volatility, 0)
}

func TestParseTimeRange(t *testing.T) {
	for _, r := range []TimeRange{TenYears, FiveYears, ThreeYears, OneYear, OneMonth, FiveDays, OneDay} {
		got, err := ParseTimeRange(r.String())
		if err != nil || got != r {
			t.Errorf("ParseTimeRange(%q) = %v, %v", r, got, err)
		}
	}
	if _, err := ParseTimeRange("2w"); err == nil {
		t.Errorf("ParseTimeRange(2w) expected error")
	}
}

func TestAnalyze(t *testing.T) {
	ref := date.MustParse("2025-06-30")
	steady := yearlyHistory(ref, 10, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20)
	flat := yearlyHistory(ref, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10)

	a, err := Analyze(NewStock("UP", "Up"), steady, ref)
	if err != nil {
		t.Fatalf("Analyze(UP) error = %v", err)
	}
	b, err := Analyze(NewStock("FLAT", "Flat"), flat, ref)
	if err != nil {
		t.Fatalf("Analyze(FLAT) error = %v", err)
	}
	closeTo(t, "CurrentPrice", a.CurrentPrice, 20)
	closeTo(t, "FLAT.CAGR10", b.CAGR10, 0)
	closeTo(t, "FLAT.Score", b.Score, 20-12+5)

	var buf bytes.Buffer
	if err := WriteAnalysisCSV(&buf, []Analysis{b, a}); err != nil {
		t.Fatalf("WriteAnalysisCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("WriteAnalysisCSV() wrote %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Symbol;10-yr CAGR;") {
		t.Errorf("header = %q", lines[0])
	}
	if a.Score > b.Score && !strings.HasPrefix(lines[1], "UP   ;") {
		t.Errorf("first row = %q, want the best score first", lines[1])
	}
}
