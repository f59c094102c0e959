package query

import (
	"context"
	"fmt"
	"time"

	market "main/internal/domain/entity/market"
	interfaces "main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Service is the analytics engine. It owns no connection: the graph reader
// and audit sink are injected, and all routines are pure reads against them.
type Service struct {
	graph  interfaces.GraphReader
	audit  interfaces.AuditSink
	logger *logrus.Entry
	now    func() time.Time
}

func NewService(graph interfaces.GraphReader, audit interfaces.AuditSink, logger *logrus.Logger) *Service {
	return &Service{
		graph:  graph,
		audit:  audit,
		logger: logger.WithField("component", "query_engine"),
		now:    time.Now,
	}
}

// Execute runs one raw command line end to end and returns rendered text.
// Every invocation is audited, success or failure. Parse, validation, and
// upstream failures never escape as errors; they come back as a single
// "Error executing query:" line so the caller always receives plain text.
func (s *Service) Execute(ctx context.Context, raw string) string {
	s.audit.Record(market.AuditEntry{
		ID:       uuid.New(),
		Command:  raw,
		IssuedAt: s.now(),
	})

	cmd, err := ParseCommand(raw)
	if err != nil {
		return errorLine(err)
	}

	text, err := s.dispatch(ctx, cmd)
	if err != nil {
		s.logger.WithError(err).WithField("kind", string(cmd.Kind)).Warn("query failed")
		return errorLine(err)
	}
	return text
}

func (s *Service) dispatch(ctx context.Context, cmd *Command) (string, error) {
	switch cmd.Kind {
	case KindPriceHistory:
		points, err := s.PriceHistory(ctx, cmd.PriceHistory)
		if err != nil {
			return "", err
		}
		return FormatPriceHistory(points), nil
	case KindCorrelation:
		results, err := s.CorrelationAnalysis(ctx, cmd.Correlation)
		if err != nil {
			return "", err
		}
		return FormatCorrelation(results), nil
	case KindEventImpact:
		results, err := s.EventImpact(ctx, cmd.EventImpact)
		if err != nil {
			return "", err
		}
		return FormatEventImpact(results), nil
	case KindSupplyChain:
		results, err := s.SupplyChainImpact(ctx, cmd.SupplyChain)
		if err != nil {
			return "", err
		}
		return FormatSupplyChain(results), nil
	case KindNewsSentiment:
		results, err := s.NewsSentimentCorrelation(ctx, cmd.NewsSentiment)
		if err != nil {
			return "", err
		}
		return FormatNewsSentiment(results), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedCommand, string(cmd.Kind))
	}
}

// PriceHistory returns the trailing price series in ascending date order.
// Retrieval only; no derived metrics.
func (s *Service) PriceHistory(ctx context.Context, q *PriceHistoryQuery) ([]market.PricePoint, error) {
	return s.graph.GetPriceHistory(ctx, q.Ticker, q.Days)
}

// CorrelationAnalysis fetches both close series and computes the population
// Pearson coefficient positionally, index by index. The store must hold
// aligned series for the two tickers; mismatched lengths or an empty side
// yield an empty result rather than an error.
func (s *Service) CorrelationAnalysis(ctx context.Context, q *CorrelationQuery) ([]market.CorrelationResult, error) {
	var series1, series2 []market.ClosePoint

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		points, err := s.graph.GetCorrelationData(groupCtx, q.Symbol1, q.Timeframe)
		if err != nil {
			return fmt.Errorf("fetch %s series: %w", q.Symbol1, err)
		}
		series1 = points
		return nil
	})
	group.Go(func() error {
		points, err := s.graph.GetCorrelationData(groupCtx, q.Symbol2, q.Timeframe)
		if err != nil {
			return fmt.Errorf("fetch %s series: %w", q.Symbol2, err)
		}
		series2 = points
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if len(series1) == 0 || len(series2) == 0 || len(series1) != len(series2) {
		return nil, nil
	}

	return []market.CorrelationResult{{
		Ticker:      q.Symbol2,
		Coefficient: pearson(closes(series1), closes(series2)),
		Period:      q.Timeframe,
		DataPoints:  len(series1),
	}}, nil
}

// EventImpact fetches the symmetric window around the event date and splits
// it strictly before/after the row whose date matches the event exactly. A
// missing event row yields an empty result. Sides with fewer than two rows
// report a 0% change; an empty side contributes 0 to the volume delta.
func (s *Service) EventImpact(ctx context.Context, q *EventImpactQuery) ([]market.EventImpactResult, error) {
	from := q.EventDate.AddDate(0, 0, -q.Window)
	to := q.EventDate.AddDate(0, 0, q.Window)

	points, err := s.graph.GetPriceHistoryBetween(ctx, q.Ticker, from, to)
	if err != nil {
		return nil, err
	}

	eventIdx := -1
	for i, p := range points {
		if sameDay(p.Date, q.EventDate) {
			eventIdx = i
			break
		}
	}
	if eventIdx < 0 {
		return nil, nil
	}

	pre := points[:eventIdx]
	post := points[eventIdx+1:]

	return []market.EventImpactResult{{
		Ticker:        q.Ticker,
		EventDate:     q.EventDate,
		PreChangePct:  closeChangePct(pre),
		PostChangePct: closeChangePct(post),
		VolumeDelta:   meanVolume(post) - meanVolume(pre),
	}}, nil
}

// SupplyChainImpact reports the trailing-30-day price move of each direct
// supplier. Only one relationship hop is traversed: a requested depth beyond
// 1 is logged as unsupported instead of being silently approximated.
func (s *Service) SupplyChainImpact(ctx context.Context, q *SupplyChainQuery) ([]market.SupplyImpact, error) {
	if q.Depth > 1 {
		s.logger.WithFields(logrus.Fields{
			"ticker": q.Ticker,
			"depth":  q.Depth,
		}).Warn("multi-hop supply chain traversal is not supported; using direct suppliers only")
	}

	suppliers, err := s.graph.GetSupplyChain(ctx, q.Ticker)
	if err != nil {
		return nil, err
	}

	results := make([]market.SupplyImpact, 0, len(suppliers))
	for _, supplier := range suppliers {
		history, err := s.graph.GetPriceHistory(ctx, supplier.Ticker, defaultHistoryDays)
		if err != nil {
			return nil, fmt.Errorf("fetch supplier %s history: %w", supplier.Ticker, err)
		}
		relationship := ""
		if len(supplier.RelationshipTypes) > 0 {
			relationship = supplier.RelationshipTypes[0]
		}
		results = append(results, market.SupplyImpact{
			Ticker:           supplier.Ticker,
			Name:             supplier.Name,
			ImpactPct:        closeChangePct(history),
			Strength:         supplier.Strength,
			RelationshipType: relationship,
		})
	}
	return results, nil
}

// NewsSentimentCorrelation pairs the mean sentiment over the window with the
// price change over the same window. The command name is historical: the
// output is an average plus a price move, not a correlation coefficient.
// Either side empty yields an empty result.
func (s *Service) NewsSentimentCorrelation(ctx context.Context, q *NewsSentimentQuery) ([]market.SentimentSummary, error) {
	news, err := s.graph.GetNewsSentiment(ctx, q.Ticker, q.Days)
	if err != nil {
		return nil, err
	}
	prices, err := s.graph.GetPriceHistory(ctx, q.Ticker, q.Days)
	if err != nil {
		return nil, err
	}
	if len(news) == 0 || len(prices) == 0 {
		return nil, nil
	}

	var total float64
	for _, item := range news {
		total += item.Sentiment
	}

	return []market.SentimentSummary{{
		Ticker:         q.Ticker,
		AvgSentiment:   total / float64(len(news)),
		PriceChangePct: closeChangePct(prices),
		NewsCount:      len(news),
	}}, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func errorLine(err error) string {
	return fmt.Sprintf("Error executing query: %v", err)
}
