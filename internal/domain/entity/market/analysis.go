package market

import "time"

// CorrelationResult is the derived outcome of a correlation analysis between
// two tickers. Coefficient is in [-1, 1]; DataPoints is the sample size.
type CorrelationResult struct {
	Ticker      string
	Coefficient float64
	Period      string
	DataPoints  int
}

// EventImpactResult describes price behavior around a single event date.
// Changes are percentages; VolumeDelta is mean(post volumes) - mean(pre volumes).
// This is a descriptive point statistic, not a significance test.
type EventImpactResult struct {
	Ticker        string
	EventDate     time.Time
	PreChangePct  float64
	PostChangePct float64
	VolumeDelta   float64
}

// SupplyImpact is the trailing-30-day price move of one supplier of the
// queried company.
type SupplyImpact struct {
	Ticker           string
	Name             string
	ImpactPct        float64
	Strength         float64
	RelationshipType string
}

// SentimentSummary pairs the mean news sentiment over a period with the price
// change over the same period. Despite the originating command name this is
// not a correlation coefficient.
type SentimentSummary struct {
	Ticker         string
	AvgSentiment   float64
	PriceChangePct float64
	NewsCount      int
}
