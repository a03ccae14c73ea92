// README: Revenue report rows and aggregate statistics.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"toll/internal/types"
)

type Row struct {
	VehicleID   types.ID
	VehicleType string
	Fee         types.Money
	Passes      int
	FeePerPass  decimal.Decimal
	// Days is only filled when the service is built with daily breakdowns.
	Days []Day
}

type Day struct {
	Date time.Time
	Fee  types.Money
}

type Summary struct {
	Vehicles      int
	Failed        int
	TotalFees     types.Money
	TotalPasses   int
	FeePerVehicle decimal.Decimal
	FeePerPass    decimal.Decimal
}

type Report struct {
	Rows    []Row
	Summary Summary
}
