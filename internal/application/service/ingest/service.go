package ingest

import (
	"context"
	"errors"

	market "main/internal/domain/entity/market"
	interfaces "main/internal/domain/interfaces"
)

var (
	ErrNilCompany = errors.New("company is nil")
	ErrNoTicker   = errors.New("ticker is required")
)

// Service is the write-side collaborator that populates the market graph.
// The analytics engine never touches it.
type Service struct {
	writer interfaces.GraphWriter
}

func NewService(writer interfaces.GraphWriter) *Service {
	return &Service{writer: writer}
}

func (s *Service) EnsureSchema(ctx context.Context) error {
	return s.writer.EnsureSchema(ctx)
}

func (s *Service) UpsertCompany(ctx context.Context, company *market.Company) error {
	if company == nil {
		return ErrNilCompany
	}
	if company.Ticker == "" {
		return ErrNoTicker
	}
	return s.writer.UpsertCompany(ctx, company)
}

// ReplacePriceHistory reloads the full series for a ticker, replacing any
// previously stored points so the one-point-per-date invariant holds.
func (s *Service) ReplacePriceHistory(ctx context.Context, ticker string, points []market.PricePoint) error {
	if ticker == "" {
		return ErrNoTicker
	}
	return s.writer.ReplacePricePoints(ctx, ticker, points)
}

func (s *Service) AddPricePoints(ctx context.Context, ticker string, points []market.PricePoint) error {
	if ticker == "" {
		return ErrNoTicker
	}
	if len(points) == 0 {
		return nil
	}
	return s.writer.AddPricePoints(ctx, ticker, points)
}

func (s *Service) AddNewsItems(ctx context.Context, ticker string, items []market.NewsItem) error {
	if ticker == "" {
		return ErrNoTicker
	}
	if len(items) == 0 {
		return nil
	}
	return s.writer.AddNewsItems(ctx, ticker, items)
}

func (s *Service) AddSupplyEdges(ctx context.Context, edges []market.SupplyEdge) error {
	if len(edges) == 0 {
		return nil
	}
	return s.writer.AddSupplyEdges(ctx, edges)
}
