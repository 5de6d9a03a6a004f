package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portfolio "github.com/ostigter/portfolio-manager"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestStore_Empty(t *testing.T) {
	s, _ := openTestStore(t)
	l, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, l.Stocks())
	assert.Empty(t, l.Transactions())
	assert.Equal(t, portfolio.Options{}, l.Options())
}

func TestStore_RoundTrip(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()

	l := portfolio.NewLedger()
	ko := portfolio.NewStock("KO", "Coca-Cola")
	ko.Price = portfolio.M(60.12)
	ko.ChangePerc = portfolio.P(-0.45)
	ko.DividendRate = portfolio.M(1.94)
	ko.YearsDivGrowth = 61
	ko.CreditRating = portfolio.APlus
	ko.Comment = "dividend king"
	require.NoError(t, l.AddStock(*ko))
	require.NoError(t, l.AddStock(*portfolio.NewStock("PEP", "PepsiCo")))

	day := time.Date(2024, 3, 1, 10, 30, 15, 250e6, time.UTC)
	buy := portfolio.NewBuy(day, "KO", portfolio.Q(10), portfolio.M(55.5), portfolio.M(4.95))
	sell := portfolio.NewSell(day.AddDate(0, 2, 0), "KO", portfolio.Q(4), portfolio.M(61), portfolio.M(0))
	require.NoError(t, l.AddTransaction(buy))
	require.NoError(t, l.AddTransaction(sell))
	l.SetOptions(portfolio.Options{ShowClosedPositions: true, RoundTotals: true})

	require.NoError(t, s.Save(ctx, l))
	// saving twice replaces rather than appends
	require.NoError(t, s.Save(ctx, l))
	require.NoError(t, s.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, l.Options(), got.Options())
	stock, ok := got.Stock("KO")
	require.True(t, ok)
	assert.Equal(t, "Coca-Cola", stock.Name)
	assert.True(t, stock.Price.Equal(portfolio.M(60.12)))
	assert.True(t, stock.ChangePerc.Equal(portfolio.P(-0.45)))
	assert.Equal(t, 61, stock.YearsDivGrowth)
	assert.Equal(t, portfolio.APlus, stock.CreditRating)
	assert.Equal(t, "dividend king", stock.Comment)
	assert.Len(t, got.Stocks(), 2)

	txs := got.Transactions()
	require.Len(t, txs, 2)
	assert.True(t, txs[0].Equal(buy))
	assert.True(t, txs[1].Equal(sell))
	assert.True(t, txs[0].When().Equal(day))
	shares, price, fee := txs[0].Amounts()
	assert.True(t, shares.Equal(portfolio.Q(10)))
	assert.True(t, price.Equal(portfolio.M(55.5)))
	assert.True(t, fee.Equal(portfolio.M(4.95)))

	p, err := got.Portfolio()
	require.NoError(t, err)
	pos := p.Position("KO")
	require.NotNil(t, pos)
	assert.True(t, pos.Shares().Equal(portfolio.Q(6)))
}

func TestStore_DeletedTransactions(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	l := portfolio.NewLedger()
	require.NoError(t, l.AddStock(*portfolio.NewStock("KO", "Coca-Cola")))
	buy := portfolio.NewBuy(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "KO", portfolio.Q(1), portfolio.M(50), portfolio.M(0))
	require.NoError(t, l.AddTransaction(buy))
	require.NoError(t, s.Save(ctx, l))

	require.NoError(t, l.DeleteTransaction(buy.Ref()))
	require.NoError(t, s.Save(ctx, l))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Transactions())
}
