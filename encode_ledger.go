package portfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// marshalTransaction writes the fields of a transaction in a fixed order.
func marshalTransaction(t txBase, kind TransactionType) ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", t.ID)
	w.Append("ref", t.UID)
	w.Append("type", kind)
	w.Append("date", t.Date.UTC().Format(timestampFormat))
	w.Append("symbol", t.Symbol)
	w.Append("shares", t.Shares)
	w.Append("price", t.Price)
	if !t.Fee.IsZero() {
		w.Append("fee", t.Fee)
	}
	return w.MarshalJSON()
}

// timestampFormat keeps milliseconds, the precision of transaction timestamps.
const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

func (t Buy) MarshalJSON() ([]byte, error)      { return marshalTransaction(t.txBase, TypeBuy) }
func (t Sell) MarshalJSON() ([]byte, error)     { return marshalTransaction(t.txBase, TypeSell) }
func (t Dividend) MarshalJSON() ([]byte, error) { return marshalTransaction(t.txBase, TypeDividend) }

// transactionLine is the decoding shape of one ledger line.
type transactionLine struct {
	Ref    uuid.UUID       `json:"ref"`
	Type   TransactionType `json:"type"`
	Date   time.Time       `json:"date"`
	Symbol string          `json:"symbol"`
	Shares Quantity        `json:"shares"`
	Price  Money           `json:"price"`
	Fee    Money           `json:"fee"`
}

// DecodeTransactions reads one JSON transaction per line. Empty lines are skipped.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var temp transactionLine
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tx, err := Restore(temp.Type, temp.Ref, temp.Date, temp.Symbol, temp.Shares, temp.Price, temp.Fee)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}
	Renumber(txs)
	return txs, nil
}

// EncodeTransactions writes txs in chronological order, one JSON object per line.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	sorted := slices.Clone(txs)
	SortTransactions(sorted)
	for _, tx := range sorted {
		b, err := json.Marshal(tx)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", tx.Ref(), err)
		}
		b = append(b, '\n')
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}
