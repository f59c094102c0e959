package query

import (
	"math"

	market "main/internal/domain/entity/market"
)

// pearson computes the population Pearson correlation coefficient over two
// sequences, matched index by index. A zero standard deviation on either side
// makes the coefficient undefined; the guard reports 0 for that case.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}

	meanX := mean(xs)
	meanY := mean(ys)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	denom := math.Sqrt(varX * varY)
	if denom == 0 {
		return 0
	}
	return cov / denom
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// closeChangePct is the percentage move from the first to the last close of a
// series. Fewer than two points means no measurable move.
func closeChangePct(points []market.PricePoint) float64 {
	if len(points) < 2 {
		return 0
	}
	first := points[0].Close
	last := points[len(points)-1].Close
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}

// meanVolume averages the volumes of a slice; an empty side contributes 0.
func meanVolume(points []market.PricePoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += float64(p.Volume)
	}
	return sum / float64(len(points))
}

func closes(points []market.ClosePoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Close
	}
	return values
}
