package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/renderer"
)

// txCmd records a buy, sell or dividend transaction.
type txCmd struct {
	kind   portfolio.TransactionType
	date   string
	symbol string
	shares string
	price  string
	fee    string
}

func newTxCmd(kind portfolio.TransactionType) *txCmd { return &txCmd{kind: kind} }

func (c *txCmd) Name() string { return string(c.kind) }
func (c *txCmd) Synopsis() string {
	switch c.kind {
	case portfolio.TypeSell:
		return "record a sale of shares"
	case portfolio.TypeDividend:
		return "record a dividend payment"
	default:
		return "record a purchase of shares"
	}
}
func (c *txCmd) Usage() string {
	price := "price per share"
	if c.kind == portfolio.TypeDividend {
		price = "dividend per share"
	}
	return fmt.Sprintf(`pm %s -s <symbol> -q <shares> -p <%s> [-fee <fee>] [-d <date>]

  Records a %s transaction. The date accepts "YYYY-MM-DD" or
  "YYYY-MM-DD HH:MM:SS" in local time and defaults to now.
`, c.kind, price, c.kind)
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date and optional time (defaults to now)")
	f.StringVar(&c.symbol, "s", "", "Stock symbol")
	f.StringVar(&c.shares, "q", "", "Number of shares")
	f.StringVar(&c.price, "p", "", "Price per share")
	f.StringVar(&c.fee, "fee", "0", "Transaction fee")
}

func (c *txCmd) transaction(now time.Time) (portfolio.Transaction, error) {
	on, err := parseTimestamp(c.date, now)
	if err != nil {
		return nil, err
	}
	shares, err := portfolio.ParseQuantity(c.shares)
	if err != nil {
		return nil, fmt.Errorf("-q: %w", err)
	}
	price, err := portfolio.ParseMoney(c.price)
	if err != nil {
		return nil, fmt.Errorf("-p: %w", err)
	}
	fee, err := portfolio.ParseMoney(c.fee)
	if err != nil {
		return nil, fmt.Errorf("-fee: %w", err)
	}
	tx, err := portfolio.NewTransaction(c.kind, on, strings.TrimSpace(c.symbol), shares, price, fee)
	if err != nil {
		return nil, err
	}
	return tx, tx.Validate()
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tx, err := c.transaction(time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, true, func(l *portfolio.Ledger) error {
		if err := l.AddTransaction(tx); err != nil {
			return err
		}
		fmt.Println(renderer.Transaction(tx))
		return nil
	})
}

// parseTimestamp reads a local date with optional time. Empty means now.
func parseTimestamp(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	for _, layout := range []string{time.DateTime, "2006-01-02 15:04", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD [HH:MM[:SS]]", s)
}

type transactionsCmd struct {
	symbol string
	head   int
	tail   int
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list transactions" }
func (*transactionsCmd) Usage() string {
	return `pm transactions [-s <symbol>] [-head <n>] [-tail <n>]

  Lists transactions in chronological order with their number and reference.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Only list transactions of this symbol")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
}

func (c *transactionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, false, func(l *portfolio.Ledger) error {
		symbol := strings.TrimSpace(c.symbol)
		var txs []portfolio.Transaction
		for _, tx := range l.Transactions() {
			if symbol == "" || tx.Ticker() == symbol {
				txs = append(txs, tx)
			}
		}
		if c.head > 0 && len(txs) > c.head {
			txs = txs[:c.head]
		}
		if c.tail > 0 && len(txs) > c.tail {
			txs = txs[len(txs)-c.tail:]
		}
		printMarkdown(renderer.TransactionsMarkdown(txs))
		return nil
	})
}

type deleteTxCmd struct{}

func (*deleteTxCmd) Name() string     { return "delete-tx" }
func (*deleteTxCmd) Synopsis() string { return "delete a transaction" }
func (*deleteTxCmd) Usage() string {
	return `pm delete-tx <number|ref>

  Deletes the transaction with that number, as listed by 'pm transactions',
  or whose reference starts with the given prefix.
`
}
func (*deleteTxCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected one transaction number or reference")
		return subcommands.ExitUsageError
	}
	key := f.Arg(0)
	return withLedger(ctx, true, func(l *portfolio.Ledger) error {
		tx, err := findTransaction(l.Transactions(), key)
		if err != nil {
			return err
		}
		if err := l.DeleteTransaction(tx.Ref()); err != nil {
			return err
		}
		fmt.Printf("Deleted: %s\n", renderer.Transaction(tx))
		return nil
	})
}

// findTransaction resolves a display number or a unique reference prefix.
func findTransaction(txs []portfolio.Transaction, key string) (portfolio.Transaction, error) {
	if n, err := strconv.Atoi(key); err == nil {
		for _, tx := range txs {
			if tx.Number() == n {
				return tx, nil
			}
		}
		return nil, fmt.Errorf("no transaction #%d", n)
	}
	var found portfolio.Transaction
	for _, tx := range txs {
		if strings.HasPrefix(tx.Ref().String(), strings.ToLower(key)) {
			if found != nil {
				return nil, fmt.Errorf("reference %q is ambiguous", key)
			}
			found = tx
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no transaction with reference %q", key)
	}
	return found, nil
}
