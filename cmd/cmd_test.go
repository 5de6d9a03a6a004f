package cmd

import (
	"errors"
	"flag"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/date"
)

func TestCommandNamesAreUnique(t *testing.T) {
	seen := make(map[string]string)
	for group, cmds := range Commands() {
		for _, c := range cmds {
			if other, dup := seen[c.Name()]; dup {
				t.Errorf("command %q registered in %q and %q", c.Name(), other, group)
			}
			seen[c.Name()] = group
			assert.NotEmpty(t, c.Synopsis(), c.Name())
			assert.Contains(t, c.Usage(), "pm "+c.Name(), c.Name())
		}
	}
	for _, name := range []string{"buy", "sell", "dividend", "holding", "monthly", "quarterly", "yearly", "update", "serve", "watch"} {
		assert.Contains(t, seen, name)
	}
}

func TestParseTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"", now},
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)},
		{"2024-01-02 09:30", time.Date(2024, 1, 2, 9, 30, 0, 0, time.Local)},
		{" 2024-01-02 09:30:15 ", time.Date(2024, 1, 2, 9, 30, 15, 0, time.Local)},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.in, now)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
	}
	_, err := parseTimestamp("02/01/2024", now)
	assert.Error(t, err)
}

func TestTxCmdTransaction(t *testing.T) {
	f := flag.NewFlagSet("sell", flag.ContinueOnError)
	c := newTxCmd(portfolio.TypeSell)
	c.SetFlags(f)
	require.NoError(t, f.Parse([]string{"-s", "XOM", "-q", "2", "-p", "110.5", "-fee", "1", "-d", "2024-02-01"}))

	tx, err := c.transaction(time.Now())
	require.NoError(t, err)
	sell, ok := tx.(portfolio.Sell)
	require.True(t, ok, "got %T", tx)
	assert.Equal(t, "XOM", sell.Symbol)
	assert.True(t, sell.Shares.Equal(portfolio.Q(2)))
	assert.True(t, sell.Price.Equal(portfolio.M(110.5)))
	assert.True(t, sell.Fee.Equal(portfolio.M(1)))

	c = newTxCmd(portfolio.TypeBuy)
	c.SetFlags(flag.NewFlagSet("buy", flag.ContinueOnError))
	c.symbol, c.shares, c.price = "KO", "0", "60"
	_, err = c.transaction(time.Now())
	assert.ErrorIs(t, err, portfolio.ErrInvalidTransaction)
}

func TestFindTransaction(t *testing.T) {
	on := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	mk := func(ref string, days int) portfolio.Transaction {
		tx, err := portfolio.Restore(portfolio.TypeBuy, uuid.MustParse(ref), on.AddDate(0, 0, days), "KO", portfolio.Q(1), portfolio.M(60), portfolio.M(0))
		require.NoError(t, err)
		return tx
	}
	txs := []portfolio.Transaction{
		mk("a1111111-0000-0000-0000-000000000000", 0),
		mk("a2222222-0000-0000-0000-000000000000", 1),
		mk("b3333333-0000-0000-0000-000000000000", 2),
	}
	portfolio.Renumber(txs)

	tx, err := findTransaction(txs, "2")
	require.NoError(t, err)
	assert.Equal(t, txs[1].Ref(), tx.Ref())

	tx, err = findTransaction(txs, "B333")
	require.NoError(t, err)
	assert.Equal(t, txs[2].Ref(), tx.Ref())

	_, err = findTransaction(txs, "a")
	assert.ErrorContains(t, err, "ambiguous")
	_, err = findTransaction(txs, "9")
	assert.Error(t, err)
	_, err = findTransaction(txs, "ffff")
	assert.Error(t, err)
}

func TestStockFlagsApplyOnlySetFlags(t *testing.T) {
	var sf stockFlags
	f := flag.NewFlagSet("edit-stock", flag.ContinueOnError)
	sf.register(f)
	require.NoError(t, f.Parse([]string{"-s", " KO ", "-div", "1.94", "-growth", "4.5", "-rating", "A+"}))
	require.NoError(t, sf.parse(f))
	assert.Equal(t, "KO", sf.symbol)

	st := portfolio.NewStock("KO", "Coca-Cola")
	st.Price = portfolio.M(60)
	st.Comment = "keep"
	require.NoError(t, sf.apply(st))

	assert.Equal(t, "Coca-Cola", st.Name)
	assert.True(t, st.Price.Equal(portfolio.M(60)))
	assert.True(t, st.DividendRate.Equal(portfolio.M(1.94)))
	assert.True(t, st.DividendGrowth.Equal(portfolio.P(4.5)))
	assert.Equal(t, portfolio.APlus, st.CreditRating)
	assert.Equal(t, -1, st.YearsDivGrowth)
	assert.Equal(t, "keep", st.Comment)
}

func TestStockFlagsErrors(t *testing.T) {
	var sf stockFlags
	f := flag.NewFlagSet("add-stock", flag.ContinueOnError)
	sf.register(f)
	require.NoError(t, f.Parse([]string{"-n", "no symbol"}))
	assert.Error(t, sf.parse(f))

	sf = stockFlags{}
	f = flag.NewFlagSet("add-stock", flag.ContinueOnError)
	sf.register(f)
	require.NoError(t, f.Parse([]string{"-s", "KO", "-p", "abc"}))
	require.NoError(t, sf.parse(f))
	assert.ErrorContains(t, sf.apply(portfolio.NewStock("KO", "KO")), "-p")
}

func TestSelectStocks(t *testing.T) {
	l := portfolio.NewLedger()
	require.NoError(t, l.AddStock(*portfolio.NewStock("KO", "Coca-Cola")))
	require.NoError(t, l.AddStock(*portfolio.NewStock("XOM", "Exxon Mobil")))

	all, err := selectStocks(l, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := selectStocks(l, []string{"XOM"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "XOM", some[0].Symbol)

	// symbols are case sensitive
	_, err = selectStocks(l, []string{"xom"})
	assert.ErrorIs(t, err, portfolio.ErrUnknownStock)

	_, err = selectStocks(l, []string{"ZZZ"})
	assert.ErrorIs(t, err, portfolio.ErrUnknownStock)
}

func TestAnalyzeFileMissing(t *testing.T) {
	st := portfolio.NewStock("KO", "Coca-Cola")
	_, err := analyzeFile(st, filepath.Join(t.TempDir(), "KO.csv"), date.New(2024, 1, 1))
	assert.True(t, errors.Is(err, portfolio.ErrNoPrices), "got %v", err)
}

func TestTxCmdKeepsSymbolCase(t *testing.T) {
	f := flag.NewFlagSet("buy", flag.ContinueOnError)
	c := newTxCmd(portfolio.TypeBuy)
	c.SetFlags(f)
	require.NoError(t, f.Parse([]string{"-s", "rds.a", "-q", "1", "-p", "30"}))

	tx, err := c.transaction(time.Now())
	require.NoError(t, err)
	assert.Equal(t, "rds.a", tx.Ticker())
}
