// README: Toll service computes a vehicle's total fee from its passes.
package toll

import (
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"

	"toll/internal/modules/vehicle"
)

type Service struct {
	rules *RuleTable
	log   *zap.Logger
}

// NewService returns an engine over rules, which must not be nil.
func NewService(rules *RuleTable, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{rules: rules, log: log}
}

func (s *Service) Rules() *RuleTable {
	return s.rules
}

// TotalFeeForVehicle returns the sum of the vehicle's capped daily fees.
func (s *Service) TotalFeeForVehicle(v *vehicle.Vehicle) (int64, error) {
	days, err := s.DailyFees(v)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, d := range days {
		total += d.Fee
	}
	return total, nil
}

// DailyFees groups the vehicle's passes into charge periods and returns the
// capped fee of every day that has a period starting on it, ascending by
// day. Exempt vehicles and vehicles without passes yield nil.
//
// A period is anchored at its first pass: a later pass joins it while it is
// no more than the rule window after that first pass, and the period is
// charged once at the highest fee among its passes. Passes on toll-free
// dates are charged 0, so the total for a holiday is 0 even though
// FeeForPassTime reports the clock-time tier.
//
// Days are keyed by month/day unless the rules are year aware; a merged day
// is reported at the date of its earliest period.
func (s *Service) DailyFees(v *vehicle.Vehicle) ([]DailyFee, error) {
	if v == nil {
		return nil, ErrInvalidVehicle
	}
	if s.IsVehicleTypeExempt(v.Type) {
		s.log.Debug("toll: vehicle type exempt", zap.String("vehicle_id", string(v.ID)), zap.String("type", v.Type))
		return nil, nil
	}
	if len(v.TollPassDates) == 0 {
		return nil, nil
	}

	passes := slices.Clone(v.TollPassDates)
	slices.SortStableFunc(passes, func(a, b time.Time) int { return a.Compare(b) })

	totals := make(map[string]*DailyFee)
	flush := func(p chargePeriod) {
		key := s.dayKey(p.start)
		day, ok := totals[key]
		if !ok {
			day = &DailyFee{Day: s.midnight(p.start)}
			totals[key] = day
		}
		day.Fee += p.highestFee
	}

	period := chargePeriod{start: passes[0], highestFee: s.passFee(passes[0])}
	for _, pass := range passes[1:] {
		if pass.Sub(period.start) <= s.rules.window {
			period.highestFee = max(period.highestFee, s.passFee(pass))
			continue
		}
		flush(period)
		period = chargePeriod{start: pass, highestFee: s.passFee(pass)}
	}
	flush(period)

	out := make([]DailyFee, 0, len(totals))
	for _, day := range totals {
		out = append(out, DailyFee{Day: day.Day, Fee: min(day.Fee, s.rules.dailyCap)})
	}
	slices.SortFunc(out, func(a, b DailyFee) int { return a.Day.Compare(b.Day) })
	return out, nil
}

// passFee is the fee of a single pass: nothing on toll-free dates, else the
// time-of-day tier.
func (s *Service) passFee(t time.Time) int64 {
	if s.IsDateExempt(t) {
		return 0
	}
	return s.FeeForPassTime(t)
}

// dayKey is the "month/day" of t in the rule location, prefixed with the
// year when the rules are year aware.
func (s *Service) dayKey(t time.Time) string {
	local := s.rules.local(t)
	key := dateKey(local.Month(), local.Day())
	if s.rules.yearAwareDays {
		key = strconv.Itoa(local.Year()) + "/" + key
	}
	return key
}

func (s *Service) midnight(t time.Time) time.Time {
	local := s.rules.local(t)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, local.Location())
}
