// Package renderer turns portfolio data into markdown reports.
package renderer

import (
	"bytes"
	"io"
	"strings"

	portfolio "github.com/ostigter/portfolio-manager"
)

// ConditionalBlock lets you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// total formats an aggregate, rounded to whole units when round is set.
func total(m portfolio.Money, round bool) string {
	if round {
		return portfolio.M(m.Decimal().Round(0)).String()
	}
	return m.String()
}

// signedTotal is total with an explicit sign.
func signedTotal(m portfolio.Money, round bool) string {
	if round {
		return portfolio.M(m.Decimal().Round(0)).SignedString()
	}
	return m.SignedString()
}

// cell escapes the pipe character of free text put in a table.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
