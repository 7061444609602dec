// Package pricechart synthesizes a plausible 30-day price history for display
// when no real history exists.
package pricechart

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	Days       = 30
	TodayLabel = "Today"
	LabelTime  = "Jan 2"

	baseMarkup  = 1.15
	trendPerDay = 0.0066
	liftRatio   = 0.01
	dipRatio    = -0.02
	noiseSpan   = 0.06
	floorRatio  = 0.85
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type PricePoint struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

type Synthesizer struct {
	Rand RandomSource
	Now  func() time.Time
}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{Rand: globalRand{}, Now: time.Now}
}

// Synthesize returns Days synthetic points, oldest first, followed by a
// "Today" point equal to the rounded current price. currentPrice must be
// finite and >= 0; use ParsePrice to guard untrusted input.
func (s *Synthesizer) Synthesize(currentPrice float64) []PricePoint {
	base := currentPrice * baseMarkup
	floor := currentPrice * floorRatio
	today := s.Now()

	out := make([]PricePoint, 0, Days+1)
	for i := 0; i < Days; i++ {
		trend := float64(i) * base * trendPerDay
		noise := (s.Rand.Float64() - 0.5) * noiseSpan

		price := base - trend + base*seasonality(i) + base*noise
		price = math.Max(price, floor)

		out = append(out, PricePoint{
			Label: today.AddDate(0, 0, -(Days - i)).Format(LabelTime),
			Value: int64(math.Round(price)),
		})
	}

	return append(out, PricePoint{Label: TodayLabel, Value: int64(math.Round(currentPrice))})
}

// seasonality dips on the last two indices of every 7-index cycle. The cycle
// is anchored to the series start, not to calendar weekdays.
func seasonality(i int) float64 {
	switch i % 7 {
	case 5, 6:
		return dipRatio
	default:
		return liftRatio
	}
}
