package domain

// SalesRecord is one marketplace transaction line. Qty is signed: negative
// values are returns or cancellations netted against sales.
type SalesRecord struct {
	SKU      string  `json:"sku"`
	Qty      float64 `json:"qty"`
	Platform string  `json:"platform"`
}

// MasterEntry relates one marketplace listing to the warehouse item behind it.
// Many marketplace SKUs may map to one internal SKU.
type MasterEntry struct {
	MarketplaceSKU string `json:"marketplace_sku"`
	InternalSKU    string `json:"internal_sku"`
	PackQty        int    `json:"pack_qty"`
	Supplier       string `json:"supplier"`
	Category       string `json:"category"`
}

// DemandRow is aggregated demand for one warehouse item across all platforms
// and pack sizes, expressed in base units.
type DemandRow struct {
	InternalSKU    string  `json:"internal_sku"`
	Supplier       string  `json:"supplier"`
	Category       string  `json:"category"`
	TotalBaseUnits float64 `json:"total_sold_units"`
	ListingCount   int     `json:"sku_count"`
}

// PlanRow extends DemandRow with the reorder math for one warehouse item.
type PlanRow struct {
	InternalSKU    string  `json:"internal_sku"`
	Supplier       string  `json:"supplier"`
	Category       string  `json:"category"`
	TotalSoldUnits float64 `json:"total_sold_units"`
	ListingCount   int     `json:"sku_count"`
	AvgDailySales  float64 `json:"ads"`
	LeadTimeDemand float64 `json:"lead_time_demand"`
	SafetyStock    float64 `json:"safety_stock"`
	CycleStock     float64 `json:"cycle_stock"`
	RecommendedQty int     `json:"recommended_qty"`
}

// OrphanRow is net demand for a marketplace SKU that has no master mapping
// entry. It signals a catalog gap to be curated manually.
type OrphanRow struct {
	SKU      string  `json:"sku"`
	Platform string  `json:"platform"`
	Qty      float64 `json:"qty"`
}

// PlanningParams are the caller-supplied knobs of one planning run. They are
// passed explicitly on every invocation; the engine holds no session state.
type PlanningParams struct {
	SalesWindowDays    int `json:"sales_window_days"`
	PurchaseWindowDays int `json:"purchase_window_days"`
	LeadTimeDays       int `json:"lead_time_days"`
	SafetyStockDays    int `json:"safety_stock_days"`
}

// PlanSummary holds the headline numbers shown alongside a plan.
type PlanSummary struct {
	TotalBaseUnitsSold float64 `json:"total_base_units_sold"`
	TotalUnitsToBuy    int     `json:"total_units_to_buy"`
	UniqueProducts     int     `json:"unique_products"`
	OrphanListings     int     `json:"orphan_listings"`
}
