package portfolio

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TransactionType is a typed string for identifying transaction kinds.
type TransactionType string

const (
	TypeBuy      TransactionType = "buy"
	TypeSell     TransactionType = "sell"
	TypeDividend TransactionType = "dividend"
)

// ParseTransactionType reads "buy", "sell" or "dividend".
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TypeBuy, TypeSell, TypeDividend:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
	}
}

// Transaction is one of Buy, Sell or Dividend. The set is closed.
type Transaction interface {
	What() TransactionType
	When() time.Time
	Ticker() string
	// Ref is the stable identity of the transaction, assigned on creation.
	Ref() uuid.UUID
	// Number is the 1-based position of the transaction in chronological order, see Renumber.
	Number() int
	Amounts() (shares Quantity, price Money, fee Money)
	Validate() error
	Equal(Transaction) bool

	withNumber(n int) Transaction
}

// txBase holds the fields every transaction kind shares.
type txBase struct {
	UID    uuid.UUID
	ID     int
	Date   time.Time // millisecond precision
	Symbol string
	Shares Quantity
	Price  Money // per share
	Fee    Money
}

func newBase(on time.Time, symbol string, shares Quantity, price, fee Money) txBase {
	return txBase{
		UID:    uuid.New(),
		Date:   on.Truncate(time.Millisecond),
		Symbol: symbol,
		Shares: shares,
		Price:  price,
		Fee:    fee,
	}
}

func (t txBase) When() time.Time { return t.Date }
func (t txBase) Ticker() string  { return t.Symbol }
func (t txBase) Ref() uuid.UUID  { return t.UID }
func (t txBase) Number() int     { return t.ID }

func (t txBase) Amounts() (Quantity, Money, Money) { return t.Shares, t.Price, t.Fee }

// Value is shares times price, fee excluded.
func (t txBase) Value() Money { return t.Price.Mul(t.Shares) }

func (t txBase) validate(kind TransactionType) error {
	if t.Symbol == "" {
		return fmt.Errorf("%w: %s transaction symbol is missing", ErrInvalidTransaction, kind)
	}
	if !t.Shares.IsPositive() {
		return fmt.Errorf("%w: %s transaction shares must be positive, got %s", ErrInvalidTransaction, kind, t.Shares)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("%w: %s transaction price must not be negative, got %s", ErrInvalidTransaction, kind, t.Price)
	}
	if t.Fee.IsNegative() {
		return fmt.Errorf("%w: %s transaction fee must not be negative, got %s", ErrInvalidTransaction, kind, t.Fee)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: %s transaction date is missing", ErrInvalidTransaction, kind)
	}
	return nil
}

// Buy acquires shares at a price per share plus a fee.
type Buy struct{ txBase }

// NewBuy creates a Buy with a fresh identity.
func NewBuy(on time.Time, symbol string, shares Quantity, price, fee Money) Buy {
	return Buy{newBase(on, symbol, shares, price, fee)}
}

func (t Buy) What() TransactionType        { return TypeBuy }
func (t Buy) Validate() error              { return t.validate(TypeBuy) }
func (t Buy) Equal(o Transaction) bool     { return o != nil && o.What() == TypeBuy && t.UID == o.Ref() }
func (t Buy) withNumber(n int) Transaction { t.ID = n; return t }
func (t Buy) String() string               { return describe(t) }

// Sell disposes of shares at a price per share minus a fee.
type Sell struct{ txBase }

// NewSell creates a Sell with a fresh identity.
func NewSell(on time.Time, symbol string, shares Quantity, price, fee Money) Sell {
	return Sell{newBase(on, symbol, shares, price, fee)}
}

func (t Sell) What() TransactionType        { return TypeSell }
func (t Sell) Validate() error              { return t.validate(TypeSell) }
func (t Sell) Equal(o Transaction) bool     { return o != nil && o.What() == TypeSell && t.UID == o.Ref() }
func (t Sell) withNumber(n int) Transaction { t.ID = n; return t }
func (t Sell) String() string               { return describe(t) }

// Dividend is a cash distribution of Price per share over Shares shares.
type Dividend struct{ txBase }

// NewDividend creates a Dividend with a fresh identity.
func NewDividend(on time.Time, symbol string, shares Quantity, perShare, fee Money) Dividend {
	return Dividend{newBase(on, symbol, shares, perShare, fee)}
}

func (t Dividend) What() TransactionType        { return TypeDividend }
func (t Dividend) Validate() error              { return t.validate(TypeDividend) }
func (t Dividend) Equal(o Transaction) bool     { return o != nil && o.What() == TypeDividend && t.UID == o.Ref() }
func (t Dividend) withNumber(n int) Transaction { t.ID = n; return t }
func (t Dividend) String() string               { return describe(t) }

func describe(t Transaction) string {
	shares, price, fee := t.Amounts()
	return fmt.Sprintf("#%d %s %s %s x %s (fee %s) on %s",
		t.Number(), t.What(), t.Ticker(), shares, price, fee, t.When().Format(time.DateTime))
}

// NewTransaction builds a transaction of the given kind.
func NewTransaction(kind TransactionType, on time.Time, symbol string, shares Quantity, price, fee Money) (Transaction, error) {
	switch kind {
	case TypeBuy:
		return NewBuy(on, symbol, shares, price, fee), nil
	case TypeSell:
		return NewSell(on, symbol, shares, price, fee), nil
	case TypeDividend:
		return NewDividend(on, symbol, shares, price, fee), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTransactionType, kind)
	}
}

// Restore rebuilds a stored transaction keeping its identity. A nil ref gets a fresh one.
func Restore(kind TransactionType, ref uuid.UUID, on time.Time, symbol string, shares Quantity, price, fee Money) (Transaction, error) {
	base := txBase{UID: ref, Date: on.Truncate(time.Millisecond), Symbol: symbol, Shares: shares, Price: price, Fee: fee}
	if base.UID == uuid.Nil {
		base.UID = uuid.New()
	}
	switch kind {
	case TypeBuy:
		return Buy{base}, nil
	case TypeSell:
		return Sell{base}, nil
	case TypeDividend:
		return Dividend{base}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTransactionType, kind)
	}
}

// Collides reports whether a and b share symbol and timestamp, the way
// entries were told apart before they had a stable identity.
func Collides(a, b Transaction) bool {
	return a.Ticker() == b.Ticker() && a.When().Equal(b.When())
}

// SortTransactions sorts by timestamp only; equal timestamps keep their relative order.
func SortTransactions(txs []Transaction) {
	slices.SortStableFunc(txs, func(a, b Transaction) int { return a.When().Compare(b.When()) })
}

// Renumber sorts txs and assigns display numbers 1..n in that order.
func Renumber(txs []Transaction) {
	SortTransactions(txs)
	for i, tx := range txs {
		txs[i] = tx.withNumber(i + 1)
	}
}
