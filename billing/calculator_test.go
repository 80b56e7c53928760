package billing

import (
	"math"
	"testing"
	"time"

	"parking/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkIn = time.Date(2025, 11, 15, 9, 30, 0, 0, time.UTC)

func scenarioRates() RateTable {
	return RateTable{
		Unit:     time.Hour,
		BaseRate: 5000,
		UnitRate: 3000,
		Currency: "IDR",
	}
}

func TestComputePrice(t *testing.T) {
	testCases := []struct {
		name  string
		stay  time.Duration
		rates RateTable
		want  int64
	}{
		{name: "less than one unit is the base rate", stay: 15 * time.Minute, rates: DefaultRateTable(), want: 3000},
		{name: "exactly one unit is the base rate", stay: time.Hour, rates: DefaultRateTable(), want: 3000},
		{name: "partial extra unit is rounded up", stay: 75 * time.Minute, rates: DefaultRateTable(), want: 6000},
		{name: "several hours are rounded up", stay: 3*time.Hour + 15*time.Minute, rates: DefaultRateTable(), want: 12000},
		{name: "ninety minutes with a separate base rate", stay: 90 * time.Minute, rates: scenarioRates(), want: 8000},
		{name: "two full hours", stay: 2 * time.Hour, rates: scenarioRates(), want: 8000},
		{name: "seconds below a minute are not billed", stay: time.Hour + 59*time.Second, rates: scenarioRates(), want: 5000},
		{name: "one minute over", stay: time.Hour + time.Minute, rates: scenarioRates(), want: 8000},
		{name: "sub-minute stay", stay: 20 * time.Second, rates: scenarioRates(), want: 5000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			price, err := ComputePrice(checkIn, checkIn.Add(tc.stay), tc.rates)
			require.NoError(t, err)
			assert.Equal(t, tc.want, price)
		})
	}
}

func TestComputePrice_invalid_interval(t *testing.T) {
	_, err := ComputePrice(checkIn, checkIn, scenarioRates())
	assert.ErrorIs(t, err, entities.ErrInvalidInterval)

	_, err = ComputePrice(checkIn, checkIn.Add(-time.Hour), scenarioRates())
	assert.ErrorIs(t, err, entities.ErrInvalidInterval)
}

func TestComputePrice_monotonic(t *testing.T) {
	rates := scenarioRates()

	var previous int64
	for stay := time.Second; stay <= 26*time.Hour; stay += 7 * time.Second {
		price, err := ComputePrice(checkIn, checkIn.Add(stay), rates)
		require.NoError(t, err)
		require.GreaterOrEqual(t, price, previous, "price decreased at stay %s", stay)
		previous = price
	}
}

func TestComputePrice_zero_duration_maps_to_base_rate(t *testing.T) {
	price, err := priceFor(0, scenarioRates())
	require.NoError(t, err)
	assert.Equal(t, scenarioRates().BaseRate, price)
}

func TestComputePrice_overflow(t *testing.T) {
	rates := RateTable{Unit: time.Minute, BaseRate: 5000, UnitRate: 1 << 45, Currency: "IDR"}

	_, err := ComputePrice(checkIn, checkIn.Add(365*24*time.Hour), rates)
	assert.ErrorIs(t, err, ErrPriceOverflow)

	price, err := ComputePrice(checkIn, checkIn.Add(time.Hour), rates)
	require.NoError(t, err)
	assert.Equal(t, int64(5000+59*(1<<45)), price)

	rates.BaseRate = math.MaxInt64
	_, err = ComputePrice(checkIn, checkIn.Add(2*time.Minute), rates)
	assert.ErrorIs(t, err, ErrPriceOverflow)

	rates.UnitRate = 0
	price, err = ComputePrice(checkIn, checkIn.Add(365*24*time.Hour), rates)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), price)
}

func TestRateTable_Validate(t *testing.T) {
	assert.NoError(t, DefaultRateTable().Validate())

	err := RateTable{Unit: time.Second, BaseRate: -1, UnitRate: -1}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "billing unit")
	assert.Contains(t, err.Error(), "base rate")
	assert.Contains(t, err.Error(), "unit rate")
	assert.Contains(t, err.Error(), "currency")
}
