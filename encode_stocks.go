package portfolio

import (
	"encoding/json"
	"fmt"
	"io"
)

// stocksDocument is the JSON document holding options and stock reference data.
type stocksDocument struct {
	Options Options `json:"options"`
	Stocks  []Stock `json:"stocks"`
}

// EncodeStocks writes the options and stocks as an indented JSON document.
func EncodeStocks(w io.Writer, opts Options, stocks []Stock) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stocksDocument{Options: opts, Stocks: stocks})
}

// DecodeStocks reads a document written by EncodeStocks.
func DecodeStocks(r io.Reader) (Options, []Stock, error) {
	var doc stocksDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Options{}, nil, fmt.Errorf("decoding stocks: %w", err)
	}
	for i, s := range doc.Stocks {
		if s.Symbol == "" {
			return Options{}, nil, fmt.Errorf("stock #%d has no symbol", i+1)
		}
	}
	return doc.Options, doc.Stocks, nil
}
