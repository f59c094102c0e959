package interfaces

import (
	"context"
	"time"

	market "main/internal/domain/entity/market"
)

// GraphReader is the read-side contract against the market graph store. The
// analytics engine depends on this interface only; the connection it wraps is
// opened and closed by the caller, never by the engine.
//
// All history methods return records in ascending date order. Correlation
// series for two tickers are consumed positionally, so callers must ensure the
// store holds aligned series (same trading days) for tickers they compare.
type GraphReader interface {
	// GetPriceHistory returns price points for the trailing days window.
	GetPriceHistory(ctx context.Context, ticker string, days int) ([]market.PricePoint, error)
	// GetPriceHistoryBetween returns price points with from <= date <= to.
	GetPriceHistoryBetween(ctx context.Context, ticker string, from, to time.Time) ([]market.PricePoint, error)
	// GetNewsSentiment returns news items for the trailing days window.
	GetNewsSentiment(ctx context.Context, ticker string, days int) ([]market.NewsItem, error)
	// GetSupplyChain returns the direct suppliers of the given company.
	GetSupplyChain(ctx context.Context, ticker string) ([]market.Supplier, error)
	// GetCorrelationData returns the close-price series used for correlation.
	GetCorrelationData(ctx context.Context, ticker, timeframe string) ([]market.ClosePoint, error)
}

// GraphWriter is the write-side contract used by the ingestion collaborators.
// The analytics engine never writes.
type GraphWriter interface {
	EnsureSchema(ctx context.Context) error
	UpsertCompany(ctx context.Context, company *market.Company) error
	// ReplacePricePoints drops any stored price points for the ticker and
	// writes the given series, preserving the one-point-per-date invariant.
	ReplacePricePoints(ctx context.Context, ticker string, points []market.PricePoint) error
	AddPricePoints(ctx context.Context, ticker string, points []market.PricePoint) error
	AddNewsItems(ctx context.Context, ticker string, items []market.NewsItem) error
	AddSupplyEdges(ctx context.Context, edges []market.SupplyEdge) error
}
