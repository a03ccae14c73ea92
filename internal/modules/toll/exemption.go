package toll

import (
	"time"

	"go.uber.org/zap"
)

// IsDateExempt reports whether tolls are waived on t's calendar day, either
// because of its weekday or because it is a fixed toll-free date.
func (s *Service) IsDateExempt(t time.Time) bool {
	local := s.rules.local(t)
	if s.rules.tollFreeWeekdays[local.Weekday()] {
		return true
	}
	_, ok := s.rules.tollFreeDates[dateKey(local.Month(), local.Day())]
	return ok
}

// IsDateExemptMonthDay checks a raw month (0-11) and day (1-31) against the
// fixed toll-free dates. Out of range values are logged and treated as a
// chargeable date.
func (s *Service) IsDateExemptMonthDay(month, day int) bool {
	if month < 0 || month > 11 || day < 1 || day > 31 {
		s.log.Warn("toll: invalid month/day, treating as chargeable", zap.Int("month", month), zap.Int("day", day))
		return false
	}
	_, ok := s.rules.tollFreeDates[dateKey(time.Month(month+1), day)]
	return ok
}

// IsVehicleTypeExempt reports whether vehicles of this type never pay. An
// empty type is not exempt.
func (s *Service) IsVehicleTypeExempt(vehicleType string) bool {
	if vehicleType == "" {
		s.log.Warn("toll: empty vehicle type, treating as chargeable")
		return false
	}
	_, ok := s.rules.exemptTypes[vehicleType]
	return ok
}
