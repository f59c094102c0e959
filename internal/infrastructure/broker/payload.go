package broker

import market "main/internal/domain/entity/market"

// PriceUpdate is one price point for a ticker arriving on the prices stream.
type PriceUpdate struct {
	Ticker string            `json:"ticker"`
	Point  market.PricePoint `json:"point"`
}

// NewsUpdate is one news item for a ticker arriving on the news stream.
type NewsUpdate struct {
	Ticker string          `json:"ticker"`
	Item   market.NewsItem `json:"item"`
}

// BaseMessage is the wire envelope; exactly one field is set per delivery.
type BaseMessage struct {
	Price *PriceUpdate `json:"price,omitempty"`
	News  *NewsUpdate  `json:"news,omitempty"`
}
