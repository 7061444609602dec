package pricechart

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("pricechart: price is not a number")

var leadingNumber = regexp.MustCompile(`^\d*\.?\d*`)

// maxPrice keeps every synthesized point representable as an int64.
var maxPrice = decimal.NewFromInt(math.MaxInt64 / 2)

// ParsePrice reads a displayed price such as "₹1,29,999.00". Everything but
// digits and dots is discarded and the leading decimal number is used. A minus
// sign ahead of the first digit and prices too large to chart are rejected.
func ParsePrice(text string) (float64, error) {
	if i := strings.IndexAny(text, "-0123456789"); i >= 0 && text[i] == '-' {
		return 0, ErrInvalidPrice
	}

	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, text)

	num := leadingNumber.FindString(digits)
	if num == "" || num == "." {
		return 0, ErrInvalidPrice
	}
	num = strings.TrimSuffix(num, ".")
	if strings.HasPrefix(num, ".") {
		num = "0" + num
	}

	d, err := decimal.NewFromString(num)
	if err != nil || d.GreaterThan(maxPrice) {
		return 0, ErrInvalidPrice
	}
	return d.InexactFloat64(), nil
}
