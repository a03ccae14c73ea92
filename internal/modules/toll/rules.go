// README: Rule table construction, validation and the default Gothenburg-style rules.
package toll

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// NewRuleTable validates cfg and returns an immutable rule table.
func NewRuleTable(cfg RuleConfig) (*RuleTable, error) {
	if cfg.WindowMinutes < 0 {
		return nil, fmt.Errorf("%w: window minutes must not be negative, got %d", ErrInvalidRules, cfg.WindowMinutes)
	}
	if cfg.DailyCap < 0 {
		return nil, fmt.Errorf("%w: daily cap must not be negative, got %d", ErrInvalidRules, cfg.DailyCap)
	}

	r := &RuleTable{
		exemptTypes:   make(map[string]struct{}, len(cfg.ExemptVehicleTypes)),
		tollFreeDates: make(map[string]struct{}, len(cfg.TollFreeDates)),
		schedule:      make([]FeeTier, 0, len(cfg.Schedule)),
		window:        time.Duration(cfg.WindowMinutes) * time.Minute,
		dailyCap:      cfg.DailyCap,
		location:      cfg.Location,
		currency:      cfg.Currency,
		yearAwareDays: cfg.YearAwareDays,
	}

	for _, t := range cfg.ExemptVehicleTypes {
		if t == "" {
			return nil, fmt.Errorf("%w: empty exempt vehicle type", ErrInvalidRules)
		}
		r.exemptTypes[t] = struct{}{}
	}

	for _, wd := range cfg.TollFreeWeekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return nil, fmt.Errorf("%w: weekday %d out of range 0-6", ErrInvalidRules, wd)
		}
		r.tollFreeWeekdays[wd] = true
	}

	for _, d := range cfg.TollFreeDates {
		month, day, err := parseDateKey(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
		}
		r.tollFreeDates[dateKey(month, day)] = struct{}{}
	}

	for i, tier := range cfg.Schedule {
		if tier.StartMinute < 0 || tier.StartMinute >= minutesPerDay {
			return nil, fmt.Errorf("%w: tier %d start minute %d out of range 0-1439", ErrInvalidRules, i, tier.StartMinute)
		}
		if tier.Fee < 0 {
			return nil, fmt.Errorf("%w: tier %d has negative fee %d", ErrInvalidRules, i, tier.Fee)
		}
		if i > 0 && tier.StartMinute <= cfg.Schedule[i-1].StartMinute {
			return nil, fmt.Errorf("%w: tier %d starts at minute %d, not after %d", ErrInvalidRules, i, tier.StartMinute, cfg.Schedule[i-1].StartMinute)
		}
		r.schedule = append(r.schedule, tier)
	}

	return r, nil
}

// DefaultRuleConfig returns the standard congestion tax rules: weekday
// daytime tiers, a 60 minute single-charge window and a daily cap of 60.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		ExemptVehicleTypes: []string{"motorbike", "tractor", "emergency", "diplomat", "foreign", "military"},
		TollFreeWeekdays:   []time.Weekday{time.Sunday, time.Saturday},
		TollFreeDates:      []string{"1/1", "1/6", "5/1", "6/6", "12/24", "12/25", "12/26", "12/31"},
		Schedule: []FeeTier{
			{StartMinute: clock(6, 0), Fee: 8},
			{StartMinute: clock(6, 30), Fee: 13},
			{StartMinute: clock(7, 0), Fee: 18},
			{StartMinute: clock(8, 0), Fee: 13},
			{StartMinute: clock(8, 30), Fee: 8},
			{StartMinute: clock(15, 0), Fee: 13},
			{StartMinute: clock(15, 30), Fee: 18},
			{StartMinute: clock(17, 0), Fee: 13},
			{StartMinute: clock(18, 0), Fee: 8},
			{StartMinute: clock(18, 30), Fee: 0},
		},
		WindowMinutes: 60,
		DailyCap:      60,
		Currency:      "SEK",
	}
}

// DefaultRuleTable builds DefaultRuleConfig in loc.
func DefaultRuleTable(loc *time.Location) *RuleTable {
	cfg := DefaultRuleConfig()
	cfg.Location = loc
	r, err := NewRuleTable(cfg)
	if err != nil {
		panic("default toll rules: " + err.Error())
	}
	return r
}

func clock(hour, minute int) int {
	return hour*60 + minute
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return clock(t.Hour(), t.Minute()), nil
}

// FormatClock converts minutes since midnight to "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// dateKey formats the year-independent "month/day" key, month 1-indexed.
func dateKey(month time.Month, day int) string {
	return strconv.Itoa(int(month)) + "/" + strconv.Itoa(day)
}

func parseDateKey(s string) (time.Month, int, error) {
	m, d, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return 0, 0, fmt.Errorf("toll-free date %q is not month/day", s)
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("toll-free date %q has invalid month", s)
	}
	day, err := strconv.Atoi(d)
	if err != nil || day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("toll-free date %q has invalid day", s)
	}
	return time.Month(month), day, nil
}

// Config reconstructs the configuration r was built from. Sets come back
// sorted.
func (r *RuleTable) Config() RuleConfig {
	cfg := RuleConfig{
		Schedule:      r.Schedule(),
		WindowMinutes: int(r.window / time.Minute),
		DailyCap:      r.dailyCap,
		Location:      r.location,
		Currency:      r.currency,
		YearAwareDays: r.yearAwareDays,
	}
	for t := range r.exemptTypes {
		cfg.ExemptVehicleTypes = append(cfg.ExemptVehicleTypes, t)
	}
	slices.Sort(cfg.ExemptVehicleTypes)
	for wd, free := range r.tollFreeWeekdays {
		if free {
			cfg.TollFreeWeekdays = append(cfg.TollFreeWeekdays, time.Weekday(wd))
		}
	}
	for d := range r.tollFreeDates {
		cfg.TollFreeDates = append(cfg.TollFreeDates, d)
	}
	slices.SortFunc(cfg.TollFreeDates, func(a, b string) int {
		am, ad, _ := parseDateKey(a)
		bm, bd, _ := parseDateKey(b)
		if am != bm {
			return int(am) - int(bm)
		}
		return ad - bd
	})
	return cfg
}
