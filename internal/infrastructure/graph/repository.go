package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	market "main/internal/domain/entity/market"
	interfaces "main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// Repository implements the graph reader and writer contracts on top of a
// Neo4j driver. The driver is opened eagerly (connectivity verified) and owned
// by whoever constructed the repository; Close releases it.
type Repository struct {
	driver   neo4j.DriverWithContext
	database string
}

var (
	_ interfaces.GraphReader = (*Repository)(nil)
	_ interfaces.GraphWriter = (*Repository)(nil)
)

// NewRepository connects to Neo4j and verifies connectivity before returning.
func NewRepository(ctx context.Context, uri, user, password, database string) (*Repository, error) {
	if uri == "" {
		return nil, errors.New("neo4j uri is required")
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	return &Repository{driver: driver, database: database}, nil
}

func (r *Repository) Close(ctx context.Context) error {
	if r == nil || r.driver == nil {
		return nil
	}
	return r.driver.Close(ctx)
}

// Ping re-checks connectivity; used by the health endpoint.
func (r *Repository) Ping(ctx context.Context) error {
	return r.driver.VerifyConnectivity(ctx)
}

func (r *Repository) run(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	result, err := neo4j.ExecuteQuery(ctx, r.driver, cypher, params,
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(r.database))
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

// Reads

const priceHistoryQuery = `
	MATCH (c:Company {ticker: $ticker})-[:HAS_PRICE]->(p:PricePoint)
	WHERE p.date >= datetime() - duration({days: $days})
	RETURN p.date AS date, p.open AS open, p.close AS close, p.volume AS volume
	ORDER BY p.date`

func (r *Repository) GetPriceHistory(ctx context.Context, ticker string, days int) ([]market.PricePoint, error) {
	records, err := r.run(ctx, priceHistoryQuery, map[string]any{"ticker": ticker, "days": days})
	if err != nil {
		return nil, fmt.Errorf("fetch price history for %s: %w", ticker, err)
	}
	return scanPricePoints(records)
}

const priceHistoryBetweenQuery = `
	MATCH (c:Company {ticker: $ticker})-[:HAS_PRICE]->(p:PricePoint)
	WHERE date(p.date) >= date($from) AND date(p.date) <= date($to)
	RETURN p.date AS date, p.open AS open, p.close AS close, p.volume AS volume
	ORDER BY p.date`

func (r *Repository) GetPriceHistoryBetween(ctx context.Context, ticker string, from, to time.Time) ([]market.PricePoint, error) {
	records, err := r.run(ctx, priceHistoryBetweenQuery, map[string]any{
		"ticker": ticker,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch price range for %s: %w", ticker, err)
	}
	return scanPricePoints(records)
}

const newsSentimentQuery = `
	MATCH (c:Company {ticker: $ticker})-[:HAS_NEWS]->(n:News)
	WHERE n.date >= datetime() - duration({days: $days})
	RETURN n.id AS id, n.date AS date, n.title AS title, n.sentiment AS sentiment
	ORDER BY n.date`

func (r *Repository) GetNewsSentiment(ctx context.Context, ticker string, days int) ([]market.NewsItem, error) {
	records, err := r.run(ctx, newsSentimentQuery, map[string]any{"ticker": ticker, "days": days})
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", ticker, err)
	}

	items := make([]market.NewsItem, 0, len(records))
	for _, record := range records {
		item := market.NewsItem{
			Date:      timeValue(record, "date"),
			Title:     stringValue(record, "title"),
			Sentiment: floatValue(record, "sentiment"),
		}
		if id, err := uuid.Parse(stringValue(record, "id")); err == nil {
			item.ID = id
		}
		items = append(items, item)
	}
	return items, nil
}

// Supply edges are unweighted in the current model, so every supplier reports
// strength 1 and the single SUPPLIES relationship type.
const supplyChainQuery = `
	MATCH (supplier:Company)-[:SUPPLIES]->(c:Company {ticker: $ticker})
	RETURN supplier.ticker AS ticker,
	       supplier.name AS name,
	       1 AS relationship_strength,
	       ['SUPPLIES'] AS relationship_types`

func (r *Repository) GetSupplyChain(ctx context.Context, ticker string) ([]market.Supplier, error) {
	records, err := r.run(ctx, supplyChainQuery, map[string]any{"ticker": ticker})
	if err != nil {
		return nil, fmt.Errorf("fetch supply chain for %s: %w", ticker, err)
	}

	suppliers := make([]market.Supplier, 0, len(records))
	for _, record := range records {
		suppliers = append(suppliers, market.Supplier{
			Ticker:            stringValue(record, "ticker"),
			Name:              stringValue(record, "name"),
			Strength:          floatValue(record, "relationship_strength"),
			RelationshipTypes: stringListValue(record, "relationship_types"),
		})
	}
	return suppliers, nil
}

const correlationDataQuery = `
	MATCH (c:Company {ticker: $ticker})-[:HAS_PRICE]->(p:PricePoint)
	RETURN p.date AS date, p.close AS close
	ORDER BY p.date`

// GetCorrelationData returns the full stored close series for the ticker.
// The timeframe label travels through to the result; windowing by timeframe
// is not applied at the store level.
func (r *Repository) GetCorrelationData(ctx context.Context, ticker, timeframe string) ([]market.ClosePoint, error) {
	records, err := r.run(ctx, correlationDataQuery, map[string]any{"ticker": ticker})
	if err != nil {
		return nil, fmt.Errorf("fetch correlation series for %s: %w", ticker, err)
	}

	points := make([]market.ClosePoint, 0, len(records))
	for _, record := range records {
		points = append(points, market.ClosePoint{
			Date:  timeValue(record, "date"),
			Close: floatValue(record, "close"),
		})
	}
	return points, nil
}

// Writes (ingestion side only)

var schemaStatements = []string{
	"CREATE CONSTRAINT company_ticker IF NOT EXISTS FOR (c:Company) REQUIRE c.ticker IS UNIQUE",
	"CREATE CONSTRAINT news_id IF NOT EXISTS FOR (n:News) REQUIRE n.id IS UNIQUE",
	"CREATE INDEX price_date IF NOT EXISTS FOR (p:PricePoint) ON (p.date)",
	"CREATE INDEX supply_chain IF NOT EXISTS FOR ()-[r:SUPPLIES]->() ON (r.strength)",
	"CREATE INDEX has_news IF NOT EXISTS FOR ()-[r:HAS_NEWS]->() ON (r.date)",
}

// EnsureSchema applies uniqueness constraints and indexes; statements are
// idempotent and safe to run on every startup.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, err := r.run(ctx, statement, nil); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}

const upsertCompanyQuery = `
	MERGE (c:Company {ticker: $ticker})
	SET c.name = $name, c.sector = $sector`

func (r *Repository) UpsertCompany(ctx context.Context, company *market.Company) error {
	if company == nil {
		return errors.New("company is nil")
	}
	_, err := r.run(ctx, upsertCompanyQuery, map[string]any{
		"ticker": company.Ticker,
		"name":   company.Name,
		"sector": company.Sector,
	})
	if err != nil {
		return fmt.Errorf("upsert company %s: %w", company.Ticker, err)
	}
	return nil
}

const deletePricePointsQuery = `
	MATCH (c:Company {ticker: $ticker})-[r:HAS_PRICE]->(p:PricePoint)
	DELETE r, p`

const addPricePointsQuery = `
	MATCH (c:Company {ticker: $ticker})
	UNWIND $points AS point
	CREATE (p:PricePoint {
		date: datetime(point.date),
		open: point.open,
		close: point.close,
		volume: point.volume
	})
	CREATE (c)-[:HAS_PRICE]->(p)`

// ReplacePricePoints drops the stored series before writing, keeping the
// one-point-per-date invariant across repeated loads.
func (r *Repository) ReplacePricePoints(ctx context.Context, ticker string, points []market.PricePoint) error {
	if _, err := r.run(ctx, deletePricePointsQuery, map[string]any{"ticker": ticker}); err != nil {
		return fmt.Errorf("delete price points for %s: %w", ticker, err)
	}
	return r.AddPricePoints(ctx, ticker, points)
}

func (r *Repository) AddPricePoints(ctx context.Context, ticker string, points []market.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	payload := make([]map[string]any, len(points))
	for i, p := range points {
		payload[i] = map[string]any{
			"date":   p.Date.Format("2006-01-02"),
			"open":   p.Open,
			"close":  p.Close,
			"volume": p.Volume,
		}
	}
	_, err := r.run(ctx, addPricePointsQuery, map[string]any{"ticker": ticker, "points": payload})
	if err != nil {
		return fmt.Errorf("add price points for %s: %w", ticker, err)
	}
	return nil
}

const addNewsItemsQuery = `
	MATCH (c:Company {ticker: $ticker})
	UNWIND $items AS item
	CREATE (n:News {
		id: item.id,
		date: datetime(item.date),
		title: item.title,
		sentiment: item.sentiment
	})
	CREATE (c)-[:HAS_NEWS]->(n)`

func (r *Repository) AddNewsItems(ctx context.Context, ticker string, items []market.NewsItem) error {
	if len(items) == 0 {
		return nil
	}
	payload := make([]map[string]any, len(items))
	for i, item := range items {
		id := item.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		payload[i] = map[string]any{
			"id":        id.String(),
			"date":      item.Date.Format("2006-01-02"),
			"title":     item.Title,
			"sentiment": item.Sentiment,
		}
	}
	_, err := r.run(ctx, addNewsItemsQuery, map[string]any{"ticker": ticker, "items": payload})
	if err != nil {
		return fmt.Errorf("add news for %s: %w", ticker, err)
	}
	return nil
}

const addSupplyEdgeQuery = `
	MATCH (s:Company {ticker: $source})
	MATCH (t:Company {ticker: $target})
	MERGE (s)-[:SUPPLIES {product: $product}]->(t)`

func (r *Repository) AddSupplyEdges(ctx context.Context, edges []market.SupplyEdge) error {
	for _, edge := range edges {
		_, err := r.run(ctx, addSupplyEdgeQuery, map[string]any{
			"source":  edge.SupplierTicker,
			"target":  edge.CustomerTicker,
			"product": edge.Product,
		})
		if err != nil {
			return fmt.Errorf("add supply edge %s->%s: %w", edge.SupplierTicker, edge.CustomerTicker, err)
		}
	}
	return nil
}

// Record scanning helpers. Neo4j returns integers for whole-number properties
// even when they were written as floats, so numeric coercion lives here.

func scanPricePoints(records []*neo4j.Record) ([]market.PricePoint, error) {
	points := make([]market.PricePoint, 0, len(records))
	for _, record := range records {
		points = append(points, market.PricePoint{
			Date:   timeValue(record, "date"),
			Open:   floatValue(record, "open"),
			Close:  floatValue(record, "close"),
			Volume: intValue(record, "volume"),
		})
	}
	return points, nil
}

func stringValue(record *neo4j.Record, key string) string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return ""
	}
	s, _ := value.(string)
	return s
}

func floatValue(record *neo4j.Record, key string) float64 {
	value, ok := record.Get(key)
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func intValue(record *neo4j.Record, key string) int64 {
	value, ok := record.Get(key)
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func timeValue(record *neo4j.Record, key string) time.Time {
	value, ok := record.Get(key)
	if !ok {
		return time.Time{}
	}
	switch v := value.(type) {
	case time.Time:
		return v
	case dbtype.Date:
		return v.Time()
	case dbtype.LocalDateTime:
		return v.Time()
	default:
		return time.Time{}
	}
}

func stringListValue(record *neo4j.Record, key string) []string {
	value, ok := record.Get(key)
	if !ok {
		return nil
	}
	raw, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
