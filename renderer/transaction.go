package renderer

import (
	"fmt"
	"strings"
	"time"

	portfolio "github.com/ostigter/portfolio-manager"
)

// Transaction renders a transaction to a sentence.
func Transaction(tx portfolio.Transaction) string {
	shares, price, fee := tx.Amounts()
	switch tx.(type) {
	case portfolio.Buy:
		return fmt.Sprintf("Bought %s %s at %s (fee %s)", shares, tx.Ticker(), price, fee)
	case portfolio.Sell:
		return fmt.Sprintf("Sold %s %s at %s (fee %s)", shares, tx.Ticker(), price, fee)
	case portfolio.Dividend:
		return fmt.Sprintf("Dividend of %s per share on %s %s", price, shares, tx.Ticker())
	default:
		return string(tx.What())
	}
}

// TransactionsMarkdown renders transactions as a table, in the given order.
func TransactionsMarkdown(txs []portfolio.Transaction) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprintln(&b, "No transactions.")
		return b.String()
	}
	fmt.Fprintln(&b, "| # | Date | Type | Symbol | Shares | Price | Fee | Amount | Ref |")
	fmt.Fprintln(&b, "|---:|:---|:---|:---|---:|---:|---:|---:|:---|")
	for _, tx := range txs {
		shares, price, fee := tx.Amounts()
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			tx.Number(),
			tx.When().Local().Format(time.DateTime),
			tx.What(),
			tx.Ticker(),
			shares,
			price,
			fee,
			price.Mul(shares),
			tx.Ref().String()[:8],
		)
	}
	return b.String()
}
