package domain

import "fmt"

// FatalInputError means no plan can be produced from the given inputs:
// a required column is absent, planning parameters are invalid, or the
// master catalog is structurally broken. It aborts the whole run.
type FatalInputError struct {
	Source string // which input table or parameter set
	Reason string
}

func (e *FatalInputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

func NewFatalInputError(source, format string, args ...interface{}) *FatalInputError {
	return &FatalInputError{Source: source, Reason: fmt.Sprintf(format, args...)}
}

// RowWarning records a single cell that was degraded to a safe default
// (qty to 0, pack_qty or multiplier to 1) instead of aborting the run.
type RowWarning struct {
	Source  string `json:"source"`
	SKU     string `json:"sku,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w RowWarning) String() string {
	if w.SKU != "" {
		return fmt.Sprintf("%s[%s].%s: %s", w.Source, w.SKU, w.Field, w.Message)
	}
	return fmt.Sprintf("%s.%s: %s", w.Source, w.Field, w.Message)
}
