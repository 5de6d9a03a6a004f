package portfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ostigter/portfolio-manager/date"
)

// DecodePriceHistory reads daily closing prices from CSV with a header line.
// Rows are either "date,close" or the seven column
// "Date,Open,High,Low,Close,Volume,Adj Close" layout, in which case the
// adjusted close is used. Rows with another number of fields are skipped.
func DecodePriceHistory(r io.Reader) (*date.History[float64], error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var h date.History[float64]
	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading prices: %w", err)
		}
		if header {
			header = false
			continue
		}
		var field string
		switch len(rec) {
		case 2:
			field = rec[1]
		case 7:
			field = rec[6]
		default:
			continue
		}
		line, _ := cr.FieldPos(0)
		day, err := date.Parse(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid price %q", line, field)
		}
		h.Append(day, v)
	}
	return &h, nil
}
