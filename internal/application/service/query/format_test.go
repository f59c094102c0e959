package query

import (
	"testing"

	market "main/internal/domain/entity/market"

	"github.com/stretchr/testify/assert"
)

func TestFormatPriceHistory(t *testing.T) {
	out := FormatPriceHistory([]market.PricePoint{
		{Date: day(2024, 1, 2), Close: 105.5, Volume: 1200000},
		{Date: day(2024, 1, 3), Close: 95, Volume: 800},
	})
	assert.Equal(t,
		"Date: 2024-01-02, Close: $105.50, Volume: 1,200,000\n"+
			"Date: 2024-01-03, Close: $95.00, Volume: 800",
		out)
}

func TestFormatCorrelation(t *testing.T) {
	out := FormatCorrelation([]market.CorrelationResult{
		{Ticker: "MSFT", Coefficient: 0.8734, Period: "1y", DataPoints: 250},
	})
	assert.Equal(t, "Ticker: MSFT, Correlation: 0.87", out)
}

func TestFormatSupplyChain(t *testing.T) {
	out := FormatSupplyChain([]market.SupplyImpact{
		{Ticker: "TSMC", ImpactPct: -2.416},
		{Ticker: "QCOM", ImpactPct: 5.0},
	})
	assert.Equal(t, "Ticker: TSMC, Impact: -2.42\nTicker: QCOM, Impact: 5.00", out)
}

func TestFormatNewsSentiment(t *testing.T) {
	out := FormatNewsSentiment([]market.SentimentSummary{
		{Ticker: "AAPL", AvgSentiment: 0.7, PriceChangePct: 3.2, NewsCount: 3},
	})
	assert.Equal(t, "Ticker: AAPL, Sentiment: 0.70", out)
}

func TestFormatEventImpact(t *testing.T) {
	out := FormatEventImpact([]market.EventImpactResult{{
		Ticker:        "AAPL",
		EventDate:     day(2024, 1, 15),
		PreChangePct:  2.345,
		PostChangePct: -1.5,
		VolumeDelta:   1234567.8,
	}})
	assert.Equal(t,
		"Event Date: 2024-01-15\n"+
			"Pre-event Change: 2.35%\n"+
			"Post-event Change: -1.50%\n"+
			"Volume Change: 1,234,568",
		out)
}

func TestFormattersEmptyInput(t *testing.T) {
	assert.Equal(t, NoResultLine, FormatPriceHistory(nil))
	assert.Equal(t, NoResultLine, FormatCorrelation(nil))
	assert.Equal(t, NoResultLine, FormatSupplyChain(nil))
	assert.Equal(t, NoResultLine, FormatNewsSentiment(nil))
	assert.Equal(t, NoResultLine, FormatEventImpact(nil))
}
