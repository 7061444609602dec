// Package compare holds the cross-store comparison helpers shown next to
// search results: savings between stores, the best-deal pick and review tiers.
package compare

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrBadPrice = errors.New("compare: price is not a number")

const defaultRating = 4.0

type Savings struct {
	Amount     string `json:"savings"`
	Percentage string `json:"percentage"`
	Cheaper    string `json:"cheaper"`
	SaveOn     string `json:"save_on"`
}

// CalculateSavings compares the Amazon and Walmart prices of the same product.
// The amount is whole rupees and the percentage is relative to the dearer store.
func CalculateSavings(amazonPrice, walmartPrice string) (Savings, error) {
	amazon, err := decimal.NewFromString(strings.TrimSpace(amazonPrice))
	if err != nil {
		return Savings{}, ErrBadPrice
	}
	walmart, err := decimal.NewFromString(strings.TrimSpace(walmartPrice))
	if err != nil {
		return Savings{}, ErrBadPrice
	}

	hundred := decimal.NewFromInt(100)
	switch amazon.Cmp(walmart) {
	case 1:
		diff := amazon.Sub(walmart)
		return Savings{
			Amount:     diff.StringFixedBank(0),
			Percentage: diff.Div(amazon).Mul(hundred).StringFixedBank(1),
			Cheaper:    "Walmart",
			SaveOn:     "walmart",
		}, nil
	case -1:
		diff := walmart.Sub(amazon)
		return Savings{
			Amount:     diff.StringFixedBank(0),
			Percentage: diff.Div(walmart).Mul(hundred).StringFixedBank(1),
			Cheaper:    "Amazon",
			SaveOn:     "amazon",
		}, nil
	default:
		return Savings{Amount: "0", Percentage: "0", Cheaper: "Same Price", SaveOn: "none"}, nil
	}
}

type Product struct {
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	PriceText string          `json:"price_text,omitempty"`
	Rating    string          `json:"rating,omitempty"`
	Source    string          `json:"source,omitempty"`
}

type Recommendation struct {
	Product Product `json:"product"`
	Reason  string  `json:"reason"`
	Score   float64 `json:"score"`
}

// Score rewards rating and penalizes price: rating*20 - price/1000. A missing
// or "N/A" rating counts as 4.0.
func Score(p Product) (float64, bool) {
	rating := defaultRating
	if r := strings.TrimSpace(p.Rating); r != "" && !strings.EqualFold(r, "N/A") {
		d, err := decimal.NewFromString(r)
		if err != nil {
			return 0, false
		}
		rating = d.InexactFloat64()
	}
	score := decimal.NewFromFloat(rating).Mul(decimal.NewFromInt(20)).
		Sub(p.Price.Div(decimal.NewFromInt(1000)))
	return score.InexactFloat64(), true
}

// minScore is the score a product has to beat to be recommended at all.
const minScore = -1

// BestDeal picks the highest scoring product; ties keep the earlier one.
// Products with an unreadable rating or a score of minScore or less are skipped.
func BestDeal(products []Product) (Recommendation, bool) {
	var (
		best  = Recommendation{Score: minScore}
		found bool
	)
	for _, p := range products {
		score, ok := Score(p)
		if !ok {
			continue
		}
		if score > best.Score {
			best = Recommendation{
				Product: p,
				Reason:  "Best value for money based on price and rating",
				Score:   score,
			}
			found = true
		}
	}
	return best, found
}

type ReviewSummary struct {
	Sentiment string `json:"sentiment"`
	Stars     int    `json:"stars"`
	Color     string `json:"color"`
	Badge     string `json:"badge"`
}

func SummarizeRating(rating string) (ReviewSummary, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(rating))
	if err != nil {
		return ReviewSummary{}, false
	}
	switch {
	case d.GreaterThanOrEqual(decimal.RequireFromString("4.5")):
		return ReviewSummary{Sentiment: "Highly Rated", Stars: 5, Color: "green", Badge: "Excellent"}, true
	case d.GreaterThanOrEqual(decimal.NewFromInt(4)):
		return ReviewSummary{Sentiment: "Well Rated", Stars: 4, Color: "blue", Badge: "Good"}, true
	case d.GreaterThanOrEqual(decimal.RequireFromString("3.5")):
		return ReviewSummary{Sentiment: "Good", Stars: 3, Color: "orange", Badge: "Average"}, true
	default:
		return ReviewSummary{Sentiment: "Average", Stars: 2, Color: "gray", Badge: "Fair"}, true
	}
}
