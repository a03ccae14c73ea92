// README: Rule store backed by a JSON rules file.
package toll

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate = validator.New()

type rulesFile struct {
	Currency           string         `json:"currency"`
	ExemptVehicleTypes []string       `json:"exemptVehicleTypes" validate:"dive,required"`
	TollFreeWeekdays   []int          `json:"tollFreeWeekdays" validate:"dive,gte=0,lte=6"`
	TollFreeDates      []string       `json:"tollFreeDates" validate:"dive,required"`
	Schedule           []scheduleItem `json:"schedule" validate:"required,min=1,dive"`
	WindowMinutes      *int           `json:"windowMinutes" validate:"required,gte=0"`
	DailyCap           *int64         `json:"dailyCap" validate:"required,gte=0"`
	YearAwareDays      bool           `json:"yearAwareDays,omitempty"`
}

type scheduleItem struct {
	Start string `json:"start" validate:"required"`
	Fee   int64  `json:"fee" validate:"gte=0"`
}

type FileStore struct {
	path string
}

// NewFileStore returns a store reading path. An empty path serves the
// default rules.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context, loc *time.Location) (*RuleTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return DefaultRuleTable(loc), nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read toll rules: %w", err)
	}
	return DecodeRules(data, loc)
}

// DecodeRules parses a JSON rules document into a rule table evaluated in loc.
func DecodeRules(data []byte, loc *time.Location) (*RuleTable, error) {
	var f rulesFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidRules, err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	cfg := RuleConfig{
		ExemptVehicleTypes: f.ExemptVehicleTypes,
		TollFreeDates:      f.TollFreeDates,
		WindowMinutes:      *f.WindowMinutes,
		DailyCap:           *f.DailyCap,
		Location:           loc,
		Currency:           f.Currency,
		YearAwareDays:      f.YearAwareDays,
	}
	for _, wd := range f.TollFreeWeekdays {
		cfg.TollFreeWeekdays = append(cfg.TollFreeWeekdays, time.Weekday(wd))
	}
	for _, item := range f.Schedule {
		start, err := ParseClock(item.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
		}
		cfg.Schedule = append(cfg.Schedule, FeeTier{StartMinute: start, Fee: item.Fee})
	}
	return NewRuleTable(cfg)
}

// EncodeRules renders r in the rules file format.
func EncodeRules(r *RuleTable) ([]byte, error) {
	cfg := r.Config()
	f := rulesFile{
		Currency:           cfg.Currency,
		ExemptVehicleTypes: cfg.ExemptVehicleTypes,
		TollFreeDates:      cfg.TollFreeDates,
		WindowMinutes:      &cfg.WindowMinutes,
		DailyCap:           &cfg.DailyCap,
		YearAwareDays:      cfg.YearAwareDays,
	}
	for _, wd := range cfg.TollFreeWeekdays {
		f.TollFreeWeekdays = append(f.TollFreeWeekdays, int(wd))
	}
	for _, tier := range cfg.Schedule {
		f.Schedule = append(f.Schedule, scheduleItem{Start: FormatClock(tier.StartMinute), Fee: tier.Fee})
	}
	return json.MarshalIndent(f, "", "  ")
}
