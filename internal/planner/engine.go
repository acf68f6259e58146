// Package planner is the purchase-planning engine: a single stateless pass
// from per-platform sales tables to a recommended purchase plan. All I/O and
// parsing happens in collaborating packages; the engine only transforms
// in-memory tables and treats every input as immutable for the run.
package planner

import (
	"github.com/andresuchdata/marketpo/internal/catalog"
	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/sku"
)

// Result is the output of one planning run.
type Result struct {
	Plan     []domain.PlanRow    `json:"plan"`
	Orphans  []domain.OrphanRow  `json:"orphans"`
	Warnings []domain.RowWarning `json:"warnings,omitempty"`
	Summary  domain.PlanSummary  `json:"summary"`
}

// Engine runs planning passes. It holds no mutable state, so a single
// instance is safe for concurrent runs as long as each run gets its own
// input tables.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Run executes the catalog-driven variant: join sales against the master
// mapping, aggregate demand per warehouse item, then apply the reorder
// formula. Unmapped records surface in Result.Orphans without ever blocking
// the plan. Empty inputs yield empty outputs and no error.
func (e *Engine) Run(sets [][]domain.SalesRecord, master *catalog.Master, params domain.PlanningParams) (*Result, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}

	demand, orphans := Aggregate(sets, master)
	plan, err := BuildPlan(demand, params)
	if err != nil {
		return nil, err
	}

	return &Result{
		Plan:    plan,
		Orphans: orphans,
		Summary: summarize(plan, orphans),
	}, nil
}

// RunLightweight executes the catalog-free variant: warehouse items are
// recovered by pack-suffix stripping, unit counts come from the multiplier
// table and categories from prefix classification. There is no orphan
// output because there is no catalog to be absent from.
func (e *Engine) RunLightweight(sets [][]domain.SalesRecord, multipliers *sku.MultiplierTable, classifier *sku.CategoryClassifier, params domain.PlanningParams) (*Result, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}

	demand := AggregateLightweight(sets, multipliers, classifier)
	plan, err := BuildPlan(demand, params)
	if err != nil {
		return nil, err
	}

	return &Result{
		Plan:    plan,
		Summary: summarize(plan, nil),
	}, nil
}

func summarize(plan []domain.PlanRow, orphans []domain.OrphanRow) domain.PlanSummary {
	summary := domain.PlanSummary{
		UniqueProducts: len(plan),
		OrphanListings: len(orphans),
	}
	for _, row := range plan {
		summary.TotalBaseUnitsSold += row.TotalSoldUnits
		summary.TotalUnitsToBuy += row.RecommendedQty
	}
	return summary
}
