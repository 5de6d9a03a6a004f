package portfolio

import (
	"fmt"
	"strings"
)

// CreditRating is an issuer's long-term credit rating, from AAA down to C.
type CreditRating int

const (
	NotRated CreditRating = iota
	AAA
	AAPlus
	AA
	AAMinus
	APlus
	A
	AMinus
	BBBPlus
	BBB
	BBBMinus
	BBPlus
	BB
	BBMinus
	BPlus
	B
	BMinus
	CCC
	CC
	C
)

var creditRatingText = [...]string{
	NotRated: "N/R",
	AAA:      "AAA", AAPlus: "AA+", AA: "AA", AAMinus: "AA-",
	APlus: "A+", A: "A", AMinus: "A-",
	BBBPlus: "BBB+", BBB: "BBB", BBBMinus: "BBB-",
	BBPlus: "BB+", BB: "BB", BBMinus: "BB-",
	BPlus: "B+", B: "B", BMinus: "B-",
	CCC: "CCC", CC: "CC", C: "C",
}

func (r CreditRating) String() string {
	if r < 0 || int(r) >= len(creditRatingText) {
		return creditRatingText[NotRated]
	}
	return creditRatingText[r]
}

// InvestmentGrade reports whether the rating is BBB- or better.
func (r CreditRating) InvestmentGrade() bool { return r != NotRated && r <= BBBMinus }

// ParseCreditRating reads a rating such as "AA-". Empty text and "N/R" mean not rated.
func ParseCreditRating(text string) (CreditRating, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" || text == "NR" {
		return NotRated, nil
	}
	for i, s := range creditRatingText {
		if s == text {
			return CreditRating(i), nil
		}
	}
	return NotRated, fmt.Errorf("unknown credit rating %q", text)
}

func (r CreditRating) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *CreditRating) UnmarshalText(text []byte) error {
	v, err := ParseCreditRating(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
