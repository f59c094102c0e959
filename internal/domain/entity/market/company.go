package market

// Company is a listed company node in the market graph. Companies are created
// by the ingestion side and are read-only for the analytics engine.
type Company struct {
	Ticker string
	Name   string
	Sector string
}
