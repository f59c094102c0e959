package market

import "time"

// PricePoint is one daily OHLC-style record attached to a company.
// At most one PricePoint exists per (company, date); consumers rely on
// ascending date order.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// ClosePoint is the reduced (date, close) projection used by correlation
// analysis.
type ClosePoint struct {
	Date  time.Time
	Close float64
}
