// README: Vehicle record consumed by the toll engine and the report.
package vehicle

import (
	"time"

	"toll/internal/types"
)

type Vehicle struct {
	ID types.ID `json:"id" validate:"required"`
	// Type may be empty; the toll engine charges such vehicles.
	Type          string      `json:"type"`
	TollPassDates []time.Time `json:"tollPassDates"`
}

// Passes returns the number of recorded toll passes.
func (v *Vehicle) Passes() int {
	if v == nil {
		return 0
	}
	return len(v.TollPassDates)
}

// Skipped describes an input record the loader could not use.
type Skipped struct {
	// Position is the 1-based line number for delimited input and the
	// 0-based array index for JSON input.
	Position int
	ID       string
	Reason   string
}

type Result struct {
	Vehicles []*Vehicle
	Skipped  []Skipped
}
