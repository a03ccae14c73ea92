// README: Rule table and fee value types for the congestion toll engine.
package toll

import (
	"errors"
	"time"
)

const minutesPerDay = 24 * 60

var (
	ErrInvalidVehicle = errors.New("invalid vehicle")
	ErrInvalidRules   = errors.New("invalid toll rules")
)

// FeeTier charges Fee from StartMinute (minutes since midnight) until the
// next tier starts.
type FeeTier struct {
	StartMinute int
	Fee         int64
}

// RuleConfig is the raw input to NewRuleTable.
type RuleConfig struct {
	ExemptVehicleTypes []string
	TollFreeWeekdays   []time.Weekday
	// TollFreeDates holds year-independent "month/day" keys, month 1-indexed.
	TollFreeDates []string
	Schedule      []FeeTier
	WindowMinutes int
	DailyCap      int64
	// Location is used to read clock time, weekday and calendar day from a
	// pass. Nil means each timestamp's own location.
	Location *time.Location
	Currency string
	// YearAwareDays caps each dated calendar day separately. By default
	// periods are grouped by month/day only, so the same month/day in
	// different years shares one cap.
	YearAwareDays bool
}

// RuleTable is the validated, read-only form of RuleConfig. It is safe to
// share between goroutines.
type RuleTable struct {
	exemptTypes      map[string]struct{}
	tollFreeWeekdays [7]bool
	tollFreeDates    map[string]struct{}
	schedule         []FeeTier
	window           time.Duration
	dailyCap         int64
	location         *time.Location
	currency         string
	yearAwareDays    bool
}

func (r *RuleTable) Window() time.Duration { return r.window }

func (r *RuleTable) DailyCap() int64 { return r.dailyCap }

func (r *RuleTable) Currency() string { return r.currency }

func (r *RuleTable) YearAwareDays() bool { return r.yearAwareDays }

// Location returns nil when passes are read in their own location.
func (r *RuleTable) Location() *time.Location { return r.location }

// Schedule returns a copy of the fee tiers in ascending order.
func (r *RuleTable) Schedule() []FeeTier {
	out := make([]FeeTier, len(r.schedule))
	copy(out, r.schedule)
	return out
}

func (r *RuleTable) local(t time.Time) time.Time {
	if r.location == nil {
		return t
	}
	return t.In(r.location)
}

// DailyFee is one calendar day's capped charge for a vehicle.
type DailyFee struct {
	Day time.Time
	Fee int64
}

type chargePeriod struct {
	start      time.Time
	highestFee int64
}
