package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"toll/internal/modules/toll"
	"toll/internal/modules/vehicle"
	"toll/internal/types"
)

type MockCalculator struct {
	mock.Mock
}

func (m *MockCalculator) TotalFeeForVehicle(v *vehicle.Vehicle) (int64, error) {
	args := m.Called(v)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCalculator) DailyFees(v *vehicle.Vehicle) ([]toll.DailyFee, error) {
	args := m.Called(v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]toll.DailyFee), args.Error(1)
}

func passes(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(2021, 2, 1, 6, 0, 0, 0, time.UTC).Add(time.Duration(i) * 2 * time.Hour)
	}
	return out
}

func TestService_Build(t *testing.T) {
	a := &vehicle.Vehicle{ID: "A", Type: "car", TollPassDates: passes(3)}
	b := &vehicle.Vehicle{ID: "B", Type: "truck", TollPassDates: passes(4)}
	c := &vehicle.Vehicle{ID: "C", Type: "tractor", TollPassDates: passes(2)}
	d := &vehicle.Vehicle{ID: "D", Type: "car"}

	calc := new(MockCalculator)
	calc.On("TotalFeeForVehicle", a).Return(int64(20), nil)
	calc.On("TotalFeeForVehicle", b).Return(int64(45), nil)
	calc.On("TotalFeeForVehicle", c).Return(int64(0), nil)
	calc.On("TotalFeeForVehicle", d).Return(int64(0), nil)

	rep := NewService(calc, "SEK", nil).Build([]*vehicle.Vehicle{a, b, c, d})
	calc.AssertExpectations(t)

	require.Len(t, rep.Rows, 4)
	row := rep.Rows[0]
	assert.Equal(t, types.ID("A"), row.VehicleID)
	assert.Equal(t, "car", row.VehicleType)
	assert.Equal(t, types.Money{Amount: 20, Currency: "SEK"}, row.Fee)
	assert.Equal(t, 3, row.Passes)
	assert.Equal(t, "6.67", row.FeePerPass.StringFixed(2))
	// no passes: average is zero rather than undefined
	assert.True(t, rep.Rows[3].FeePerPass.IsZero())

	s := rep.Summary
	assert.Equal(t, 4, s.Vehicles)
	assert.Equal(t, 0, s.Failed)
	assert.Equal(t, types.Money{Amount: 65, Currency: "SEK"}, s.TotalFees)
	assert.Equal(t, 9, s.TotalPasses)
	// 65 / 4 = 16.25, 65 / 9 = 7.222...
	assert.Equal(t, "16.25", s.FeePerVehicle.StringFixed(2))
	assert.Equal(t, "7.22", s.FeePerPass.StringFixed(2))
}

func TestService_Build_SkipsFailedVehicles(t *testing.T) {
	good := &vehicle.Vehicle{ID: "OK", Type: "car", TollPassDates: passes(1)}

	calc := new(MockCalculator)
	calc.On("TotalFeeForVehicle", (*vehicle.Vehicle)(nil)).Return(int64(0), toll.ErrInvalidVehicle)
	calc.On("TotalFeeForVehicle", good).Return(int64(8), nil)

	rep := NewService(calc, "SEK", nil).Build([]*vehicle.Vehicle{nil, good})
	calc.AssertExpectations(t)

	require.Len(t, rep.Rows, 1)
	assert.Equal(t, 1, rep.Summary.Vehicles)
	assert.Equal(t, 1, rep.Summary.Failed)
	assert.Equal(t, int64(8), rep.Summary.TotalFees.Amount)
}

func TestService_Build_DailyBreakdown(t *testing.T) {
	v := &vehicle.Vehicle{ID: "A", Type: "car", TollPassDates: passes(2)}
	day := time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)

	calc := new(MockCalculator)
	calc.On("TotalFeeForVehicle", v).Return(int64(16), nil)
	calc.On("DailyFees", v).Return([]toll.DailyFee{{Day: day, Fee: 16}}, nil)

	rep := NewService(calc, "SEK", nil, WithDailyBreakdown()).Build([]*vehicle.Vehicle{v})
	calc.AssertExpectations(t)

	require.Len(t, rep.Rows, 1)
	assert.Equal(t, []Day{{Date: day, Fee: types.Money{Amount: 16, Currency: "SEK"}}}, rep.Rows[0].Days)
}

func TestService_Build_DailyBreakdownError(t *testing.T) {
	v := &vehicle.Vehicle{ID: "A", Type: "car", TollPassDates: passes(1)}

	calc := new(MockCalculator)
	calc.On("TotalFeeForVehicle", v).Return(int64(8), nil)
	calc.On("DailyFees", v).Return(nil, errors.New("boom"))

	rep := NewService(calc, "SEK", nil, WithDailyBreakdown()).Build([]*vehicle.Vehicle{v})
	require.Len(t, rep.Rows, 1)
	assert.Empty(t, rep.Rows[0].Days)
	assert.Equal(t, int64(8), rep.Summary.TotalFees.Amount)
}

func TestService_Build_Empty(t *testing.T) {
	rep := NewService(new(MockCalculator), "SEK", nil).Build(nil)
	assert.Empty(t, rep.Rows)
	assert.Equal(t, 0, rep.Summary.Vehicles)
	assert.True(t, rep.Summary.FeePerVehicle.IsZero())
	assert.True(t, rep.Summary.FeePerPass.IsZero())
}

func TestService_Build_WithTollEngine(t *testing.T) {
	engine := toll.NewService(toll.DefaultRuleTable(time.UTC), nil)
	monday := func(h, m int) time.Time { return time.Date(2021, 2, 1, h, m, 0, 0, time.UTC) }

	vehicles := []*vehicle.Vehicle{
		{ID: "ABC123", Type: "car", TollPassDates: []time.Time{monday(6, 10), monday(6, 45), monday(7, 5)}},
		{ID: "DEF456", Type: "car", TollPassDates: []time.Time{monday(6, 20), monday(8, 35), monday(9, 40), monday(11, 30), monday(15, 10)}},
		{ID: "MC1", Type: "motorbike", TollPassDates: []time.Time{monday(7, 0)}},
	}

	rep := NewService(engine, engine.Rules().Currency(), nil).Build(vehicles)

	require.Len(t, rep.Rows, 3)
	assert.Equal(t, int64(18), rep.Rows[0].Fee.Amount)
	assert.Equal(t, int64(45), rep.Rows[1].Fee.Amount)
	assert.Equal(t, int64(0), rep.Rows[2].Fee.Amount)
	assert.Equal(t, types.Money{Amount: 63, Currency: "SEK"}, rep.Summary.TotalFees)
	assert.Equal(t, 9, rep.Summary.TotalPasses)
	assert.Equal(t, "21.00", rep.Summary.FeePerVehicle.StringFixed(2))
	assert.Equal(t, "7.00", rep.Summary.FeePerPass.StringFixed(2))
}

func TestPrint(t *testing.T) {
	rep := Report{
		Rows: []Row{
			{
				VehicleID: "ABC123", VehicleType: "car",
				Fee: types.Money{Amount: 18, Currency: "SEK"}, Passes: 3,
				FeePerPass: decimal.RequireFromString("6"),
				Days:       []Day{{Date: time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC), Fee: types.Money{Amount: 18, Currency: "SEK"}}},
			},
		},
		Summary: Summary{
			Vehicles:      1,
			TotalFees:     types.Money{Amount: 18, Currency: "SEK"},
			TotalPasses:   3,
			FeePerVehicle: decimal.RequireFromString("18"),
			FeePerPass:    decimal.RequireFromString("6"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, rep))

	want := "Toll revenue report\n\n" +
		"id                      type                    total fee   passes      fee/pass\n" +
		"ABC123                  car                     18          3           6.00\n" +
		"  2021-02-01 Mon        18\n" +
		"\nStatistics\n" +
		"  total vehicles  1\n" +
		"  total fees      18 SEK\n" +
		"  total passes    3\n" +
		"  fee/vehicle     18.00\n" +
		"  fee/pass        6.00\n"
	assert.Equal(t, want, buf.String())
}

func TestPrint_Failed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, Report{Summary: Summary{Failed: 2}}))
	assert.Contains(t, buf.String(), "  failed          2\n")
}
