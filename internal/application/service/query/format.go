package query

import (
	"fmt"
	"strings"

	market "main/internal/domain/entity/market"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NoResultLine is returned when a well-formed query matches no stored data.
// Callers distinguish it from failure by the absence of the error prefix.
const NoResultLine = "No matching data found."

// Templates below are contract, not cosmetics: field order, two-decimal
// rounding, and thousands separators on volumes are relied on by downstream
// consumers.

var grouped = message.NewPrinter(language.English)

// FormatPriceHistory renders one "Date, Close, Volume" line per price point.
func FormatPriceHistory(points []market.PricePoint) string {
	if len(points) == 0 {
		return NoResultLine
	}
	lines := make([]string, len(points))
	for i, p := range points {
		lines[i] = fmt.Sprintf("Date: %s, Close: $%.2f, Volume: %s",
			p.Date.Format(dateLayout), p.Close, grouped.Sprintf("%d", p.Volume))
	}
	return strings.Join(lines, "\n")
}

// FormatCorrelation renders one "Ticker, Correlation" line per result.
func FormatCorrelation(results []market.CorrelationResult) string {
	if len(results) == 0 {
		return NoResultLine
	}
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("Ticker: %s, Correlation: %.2f", r.Ticker, r.Coefficient)
	}
	return strings.Join(lines, "\n")
}

// FormatSupplyChain renders one "Ticker, Impact" line per supplier.
func FormatSupplyChain(results []market.SupplyImpact) string {
	if len(results) == 0 {
		return NoResultLine
	}
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("Ticker: %s, Impact: %.2f", r.Ticker, r.ImpactPct)
	}
	return strings.Join(lines, "\n")
}

// FormatNewsSentiment renders one "Ticker, Sentiment" line per summary.
func FormatNewsSentiment(results []market.SentimentSummary) string {
	if len(results) == 0 {
		return NoResultLine
	}
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("Ticker: %s, Sentiment: %.2f", r.Ticker, r.AvgSentiment)
	}
	return strings.Join(lines, "\n")
}

// FormatEventImpact renders a four-line block per result: event date,
// pre/post percentage changes, and the grouped volume delta.
func FormatEventImpact(results []market.EventImpactResult) string {
	if len(results) == 0 {
		return NoResultLine
	}
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("Event Date: %s\nPre-event Change: %.2f%%\nPost-event Change: %.2f%%\nVolume Change: %s",
			r.EventDate.Format(dateLayout), r.PreChangePct, r.PostChangePct, grouped.Sprintf("%.0f", r.VolumeDelta))
	}
	return strings.Join(blocks, "\n")
}
