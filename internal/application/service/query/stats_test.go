package query

import (
	"testing"
	"time"

	market "main/internal/domain/entity/market"

	"github.com/stretchr/testify/assert"
)

func TestPearsonSelfCorrelation(t *testing.T) {
	xs := []float64{100, 102, 99, 104, 110, 108}
	assert.InDelta(t, 1.0, pearson(xs, xs), 1e-9)
}

func TestPearsonSymmetry(t *testing.T) {
	xs := []float64{1, 3, 2, 5, 4}
	ys := []float64{10, 9, 12, 11, 14}
	assert.InDelta(t, pearson(xs, ys), pearson(ys, xs), 1e-12)
}

func TestPearsonPerfectInverse(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{8, 6, 4, 2}
	assert.InDelta(t, -1.0, pearson(xs, ys), 1e-9)
}

func TestPearsonZeroVariance(t *testing.T) {
	flat := []float64{5, 5, 5, 5}
	moving := []float64{1, 2, 3, 4}
	assert.Zero(t, pearson(flat, moving), "undefined coefficient reports 0")
}

func TestPearsonLengthMismatch(t *testing.T) {
	assert.Zero(t, pearson([]float64{1, 2, 3}, []float64{1, 2}))
	assert.Zero(t, pearson(nil, nil))
}

func TestCloseChangePct(t *testing.T) {
	series := []market.PricePoint{
		{Date: day(2024, 1, 1), Close: 100},
		{Date: day(2024, 1, 2), Close: 110},
	}
	assert.InDelta(t, 10.0, closeChangePct(series), 1e-9)
}

func TestCloseChangePctShortSeries(t *testing.T) {
	assert.Zero(t, closeChangePct(nil))
	assert.Zero(t, closeChangePct([]market.PricePoint{{Close: 100}}))
}

func TestMeanVolume(t *testing.T) {
	points := []market.PricePoint{{Volume: 100}, {Volume: 300}}
	assert.InDelta(t, 200.0, meanVolume(points), 1e-9)
	assert.Zero(t, meanVolume(nil))
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
