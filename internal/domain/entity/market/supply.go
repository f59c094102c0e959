package market

// Supplier is one upstream company in a customer's supply chain, as returned
// by the graph store. Strength is constant 1 in the current model (edges are
// unweighted).
type Supplier struct {
	Ticker            string
	Name              string
	Strength          float64
	RelationshipTypes []string
}

// SupplyEdge is a directed supplier -> customer relationship with a product
// label. Used by the ingestion side only.
type SupplyEdge struct {
	SupplierTicker string
	CustomerTicker string
	Product        string
}
