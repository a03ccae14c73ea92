// README: Report service runs every vehicle through the toll engine and aggregates revenue.
package report

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"toll/internal/modules/toll"
	"toll/internal/modules/vehicle"
	"toll/internal/types"
)

// averages are rounded to this many decimal places
const precision = 2

type FeeCalculator interface {
	TotalFeeForVehicle(v *vehicle.Vehicle) (int64, error)
	DailyFees(v *vehicle.Vehicle) ([]toll.DailyFee, error)
}

type Service struct {
	calc     FeeCalculator
	currency string
	withDays bool
	log      *zap.Logger
}

type Option func(*Service)

// WithDailyBreakdown adds each vehicle's capped per-day fees to its row.
func WithDailyBreakdown() Option {
	return func(s *Service) { s.withDays = true }
}

func NewService(calc FeeCalculator, currency string, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{calc: calc, currency: currency, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build computes one row per vehicle and the totals across them. A vehicle
// the calculator rejects is logged, counted in Summary.Failed and left out.
func (s *Service) Build(vehicles []*vehicle.Vehicle) Report {
	var rep Report
	var totalFees int64

	for i, v := range vehicles {
		fee, err := s.calc.TotalFeeForVehicle(v)
		if err != nil {
			s.log.Warn("report: fee calculation failed", zap.Int("index", i), zap.Error(err))
			rep.Summary.Failed++
			continue
		}

		row := Row{
			VehicleID:   v.ID,
			VehicleType: v.Type,
			Fee:         s.money(fee),
			Passes:      v.Passes(),
			FeePerPass:  average(fee, v.Passes()),
		}
		if s.withDays {
			days, err := s.calc.DailyFees(v)
			if err != nil {
				s.log.Warn("report: daily breakdown failed", zap.String("vehicle_id", string(v.ID)), zap.Error(err))
			}
			for _, d := range days {
				row.Days = append(row.Days, Day{Date: d.Day, Fee: s.money(d.Fee)})
			}
		}

		rep.Rows = append(rep.Rows, row)
		totalFees += fee
		rep.Summary.TotalPasses += row.Passes
	}

	rep.Summary.Vehicles = len(rep.Rows)
	rep.Summary.TotalFees = s.money(totalFees)
	rep.Summary.FeePerVehicle = average(totalFees, rep.Summary.Vehicles)
	rep.Summary.FeePerPass = average(totalFees, rep.Summary.TotalPasses)

	s.log.Info("report: built",
		zap.Int("vehicles", rep.Summary.Vehicles),
		zap.Int("failed", rep.Summary.Failed),
		zap.Int64("total_fees", totalFees),
		zap.Int("total_passes", rep.Summary.TotalPasses),
	)
	return rep
}

func (s *Service) money(amount int64) types.Money {
	return types.Money{Amount: amount, Currency: s.currency}
}

// average divides total by n, rounding half away from zero. Zero n gives zero.
func average(total int64, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(total).DivRound(decimal.NewFromInt(int64(n)), precision)
}
